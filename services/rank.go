package services

import "sort"

// RankDesc assigns standard competition ranks over values, highest
// value first. Ties share a rank and the next distinct value skips past
// them, matching SQL RANK() semantics: two leaders tied at the top both
// rank 1 and the runner-up ranks 3.
func RankDesc(values []float64) []int {
	order := make([]int, len(values))
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] > values[order[b]]
	})

	ranks := make([]int, len(values))
	for pos, idx := range order {
		if pos > 0 && values[idx] == values[order[pos-1]] {
			ranks[idx] = ranks[order[pos-1]]
		} else {
			ranks[idx] = pos + 1
		}
	}
	return ranks
}

// Quartiles buckets values into four equal-count cohorts by ascending
// order: bucket 1 holds the smallest values, bucket 4 the largest.
func Quartiles(values []float64) []int {
	return NTile(values, 4)
}

// NTile distributes values over n ascending equal-count buckets. When
// the count does not divide evenly the earlier buckets take one extra
// element each, as SQL NTILE does. Returns a 1-based bucket number per
// input position.
func NTile(values []float64, n int) []int {
	count := len(values)
	if count == 0 || n < 1 {
		return nil
	}

	order := make([]int, count)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return values[order[a]] < values[order[b]]
	})

	buckets := make([]int, count)
	base := count / n
	extra := count % n
	pos := 0
	for b := 1; b <= n; b++ {
		size := base
		if b <= extra {
			size++
		}
		for k := 0; k < size; k++ {
			buckets[order[pos]] = b
			pos++
		}
	}
	return buckets
}
