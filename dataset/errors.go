package dataset

import (
	"errors"
	"fmt"
)

// ErrDataFormat is matched (errors.Is) by every *DataFormatError.
var ErrDataFormat = errors.New("data format error")

// DataFormatError reports input whose shape or content does not match the
// configured record and feature counts.
//
// Line is the 1-based input line the problem was detected on, or 0 when the
// problem concerns the input as a whole (e.g. too few records).
type DataFormatError struct {
	Line     int
	Expected int
	Actual   int
	Reason   string
	cause    error
}

func (e *DataFormatError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("data format error at line %d: %s (expected %d, got %d)", e.Line, e.Reason, e.Expected, e.Actual)
	}
	return fmt.Sprintf("data format error: %s (expected %d, got %d)", e.Reason, e.Expected, e.Actual)
}

// Is makes every DataFormatError match ErrDataFormat.
func (e *DataFormatError) Is(target error) bool { return target == ErrDataFormat }

func (e *DataFormatError) Unwrap() error { return e.cause }
