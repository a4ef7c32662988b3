package utils

import (
	"context"
	"sync"

	"golang.org/x/sync/errgroup"
)

// ParallelForEach runs fn over every item with at most maxWorkers goroutines
// in flight. The first error cancels the remaining work and is returned.
// Order of execution is unspecified; callers that aggregate must do their own
// locking.
func ParallelForEach[T any](ctx context.Context, items []T, maxWorkers int, fn func(ctx context.Context, item T) error) error {
	if len(items) == 0 {
		return nil
	}
	if maxWorkers <= 0 {
		maxWorkers = 1
	}
	if maxWorkers > len(items) {
		maxWorkers = len(items)
	}

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(maxWorkers)

	for _, item := range items {
		item := item
		g.Go(func() error {
			select {
			case <-ctx.Done():
				return ctx.Err()
			default:
			}
			return fn(ctx, item)
		})
	}

	return g.Wait()
}

// KeySet is a thread-safe set for tracking record keys already seen.
type KeySet struct {
	mu   sync.RWMutex
	seen map[string]struct{}
}

// NewKeySet creates an empty KeySet.
func NewKeySet() *KeySet {
	return &KeySet{seen: make(map[string]struct{})}
}

// Add returns true if the key was newly added, false if already present.
func (s *KeySet) Add(key string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.seen[key]; exists {
		return false
	}
	s.seen[key] = struct{}{}
	return true
}

// Contains returns true if the key has already been recorded.
func (s *KeySet) Contains(key string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, exists := s.seen[key]
	return exists
}

// Size returns the number of unique keys tracked.
func (s *KeySet) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.seen)
}
