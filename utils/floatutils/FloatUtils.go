// Package floatutils provides utilities for working with floats
package floatutils

import (
	"math"
)

// Clip clips a floating point to within a minimum and maximum value.
// If the floating point exceeds max, then the function returns the max
// If min exceeds the floating point, then the function returns the min
func Clip(value, min, max float64) float64 {
	clipped := math.Min(value, max)
	return math.Max(clipped, min)
}

// MaxSlice gets the maximum value and indices of the maximum values in
// a slice of float64.
func MaxSlice(values []float64) (max float64, indices []int) {
	max, indices = values[0], []int{0}

	for i, value := range values[1:] {
		if value > max {
			max = value
			indices = []int{i + 1}
		} else if value == max {
			indices = append(indices, i+1)
		}
	}
	return
}

// ArgMax returns the maximum value in a slice along with the indices
// of every value within tol of that maximum
func ArgMax(values []float64, tol float64) (max float64, indices []int) {
	max = values[0]
	for _, value := range values[1:] {
		max = math.Max(max, value)
	}

	for i, value := range values {
		if max-value <= tol {
			indices = append(indices, i)
		}
	}
	return
}
