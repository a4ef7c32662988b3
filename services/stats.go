package services

import (
	"fmt"
	"math"
	"sort"

	"product-intelligence/models"
)

// Mean returns the arithmetic mean of xs. The mean of an empty set is
// undefined.
func Mean(xs []float64) (float64, error) {
	if len(xs) == 0 {
		return 0, fmt.Errorf("stats: mean of empty set: %w", ErrUndefinedOperation)
	}
	var sum float64
	for _, x := range xs {
		sum += x
	}
	return sum / float64(len(xs)), nil
}

// Median returns the 50th percentile of xs.
func Median(xs []float64) (float64, error) {
	return Percentile(xs, 0.5)
}

// Percentile returns the q-th quantile of xs for q in [0,1], using
// linear interpolation between closest ranks.
func Percentile(xs []float64, q float64) (float64, error) {
	if len(xs) == 0 {
		return 0, fmt.Errorf("stats: percentile of empty set: %w", ErrUndefinedOperation)
	}
	if q < 0 || q > 1 {
		return 0, fmt.Errorf("stats: percentile %g outside [0,1]: %w", q, ErrUndefinedOperation)
	}

	sorted := append([]float64(nil), xs...)
	sort.Float64s(sorted)

	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo], nil
	}
	frac := pos - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac, nil
}

// SampleStdDev returns the sample standard deviation of xs (n−1
// denominator). Sets smaller than two have no spread and return 0.
func SampleStdDev(xs []float64) float64 {
	if len(xs) < 2 {
		return 0
	}
	mean, _ := Mean(xs)
	var ss float64
	for _, x := range xs {
		d := x - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(xs)-1))
}

// WeightedMean returns the mean of values weighted by weights. A zero
// total weight falls back to the unweighted mean.
func WeightedMean(values, weights []float64) (float64, error) {
	if len(values) == 0 {
		return 0, fmt.Errorf("stats: weighted mean of empty set: %w", ErrUndefinedOperation)
	}
	if len(values) != len(weights) {
		return 0, fmt.Errorf("stats: %d values against %d weights: %w",
			len(values), len(weights), ErrUndefinedOperation)
	}

	var sum, total float64
	for i, v := range values {
		sum += v * weights[i]
		total += weights[i]
	}
	if total == 0 {
		return Mean(values)
	}
	return sum / total, nil
}

// Summarize computes the descriptive statistics for one numeric column.
func Summarize(xs []float64) (models.SummaryStats, error) {
	if len(xs) == 0 {
		return models.SummaryStats{}, fmt.Errorf("stats: summary of empty set: %w", ErrUndefinedOperation)
	}

	mean, _ := Mean(xs)
	median, _ := Median(xs)

	minVal, maxVal := xs[0], xs[0]
	for _, x := range xs[1:] {
		if x < minVal {
			minVal = x
		}
		if x > maxVal {
			maxVal = x
		}
	}

	return models.SummaryStats{
		Count:  len(xs),
		Mean:   mean,
		Median: median,
		StdDev: SampleStdDev(xs),
		Min:    minVal,
		Max:    maxVal,
	}, nil
}
