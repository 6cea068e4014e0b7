package grading

import "math"

// Sum composes a result total from its component scores. An empty set
// yields 0, a valid if vacuous total.
func Sum(scores []float64) float64 {
	total := 0.0
	for _, s := range scores {
		total += s
	}
	return total
}

// Round2 rounds half-even to two decimal places. Every average the API
// reports goes through this, so rounding is uniform across endpoints.
func Round2(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}

// Mean returns the arithmetic mean of values, 0 for an empty slice.
func Mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return Sum(values) / float64(len(values))
}
