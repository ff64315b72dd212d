package objective

import "fmt"

// ErrDimensionMismatch indicates a center or gradient slice whose length does
// not fit the dataset's feature count.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	What     string
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch for %s: expected %d, got %d", e.What, e.Expected, e.Actual)
}
