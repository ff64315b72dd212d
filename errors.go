package lmbclust

import (
	"errors"
	"fmt"

	"github.com/hupe1980/lmbclust/dataset"
)

var (
	// ErrInvalidConfiguration is matched by every *InvalidConfigError.
	ErrInvalidConfiguration = errors.New("invalid configuration")

	// ErrDataFormat is matched by every *dataset.DataFormatError, including
	// shape mismatches detected by Run.
	ErrDataFormat = dataset.ErrDataFormat
)

// InvalidConfigError reports a Config field outside its valid range.
type InvalidConfigError struct {
	Field  string
	Value  any
	Reason string
}

func (e *InvalidConfigError) Error() string {
	return fmt.Sprintf("invalid configuration: %s=%v: %s", e.Field, e.Value, e.Reason)
}

// Is reports whether target is ErrInvalidConfiguration.
func (e *InvalidConfigError) Is(target error) bool { return target == ErrInvalidConfiguration }
