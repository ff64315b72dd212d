package lmbm

import "errors"

var (
	// ErrEmptyStart is returned when the starting point has no coordinates.
	ErrEmptyStart = errors.New("lmbm: empty starting point")
	// ErrNonFiniteStart is returned when the starting point contains NaN or Inf.
	ErrNonFiniteStart = errors.New("lmbm: non-finite starting point")
	// ErrNilFunction is returned when Minimize is called without a function.
	ErrNilFunction = errors.New("lmbm: nil function")
)
