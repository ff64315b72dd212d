package distance

import (
	"fmt"
	"math"
)

// DefaultTieTolerance is the relative tolerance under which two squared
// distances are treated as equal by Nearest.
const DefaultTieTolerance = 1e-12

// SquaredL2 calculates the squared L2 (Euclidean) distance between two vectors.
// Assumes vectors are the same length (caller's responsibility).
func SquaredL2(a, b []float64) float64 {
	var dist float64
	for i := range a {
		diff := a[i] - b[i]
		dist += diff * diff
	}
	return dist
}

// L2 returns the Euclidean distance between two vectors.
func L2(a, b []float64) float64 {
	return math.Sqrt(SquaredL2(a, b))
}

// Center returns the j-th row of a row-major center slice.
func Center(centers []float64, dim, j int) []float64 {
	return centers[j*dim : (j+1)*dim]
}

// Nearest returns the index of the center closest to vec and its squared
// distance.
//
// Centers are scanned in ascending order and a later center only replaces the
// current best if it is closer by more than tol*max(1, best). Equidistant
// centers therefore always resolve to the lowest index, independent of how the
// caller schedules records.
func Nearest(vec, centers []float64, dim int, tol float64) (int, float64) {
	k := len(centers) / dim
	best := 0
	bestDist := SquaredL2(vec, centers[:dim])
	for j := 1; j < k; j++ {
		d := SquaredL2(vec, centers[j*dim:(j+1)*dim])
		if Closer(d, bestDist, tol) {
			best = j
			bestDist = d
		}
	}
	return best, bestDist
}

// Closer reports whether candidate beats the incumbent squared distance under
// the tie tolerance.
func Closer(candidate, incumbent, tol float64) bool {
	return incumbent-candidate > tol*math.Max(1, incumbent)
}

// CheckShape validates that centers holds a positive whole number of
// dim-length rows and returns that number.
func CheckShape(centers []float64, dim int) (int, error) {
	if dim <= 0 {
		return 0, fmt.Errorf("invalid dimension: %d", dim)
	}
	if len(centers) == 0 || len(centers)%dim != 0 {
		return 0, fmt.Errorf("center slice of length %d is not a positive multiple of dimension %d", len(centers), dim)
	}
	return len(centers) / dim, nil
}
