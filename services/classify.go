package services

import "fmt"

// Rule pairs a predicate with the label assigned when it matches. A nil
// Matches acts as the catch-all.
type Rule[T any] struct {
	Label   string
	Matches func(T) bool
}

// FirstMatch walks an ordered rule chain and returns the label of the
// first matching rule. Chains are expected to end with a catch-all; a
// chain that matches nothing is a configuration mistake, not a data
// problem.
func FirstMatch[T any](rules []Rule[T], v T) (string, error) {
	for _, r := range rules {
		if r.Matches == nil || r.Matches(v) {
			return r.Label, nil
		}
	}
	return "", fmt.Errorf("classify: no rule matched and no catch-all present: %w", ErrUndefinedOperation)
}
