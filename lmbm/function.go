package lmbm

import "context"

// Function is a nonsmooth objective. Evaluate returns f(x) and writes one
// subgradient of f at x into grad (len(grad) == len(x)).
type Function interface {
	Evaluate(ctx context.Context, x, grad []float64) (float64, error)
}

// FunctionFunc adapts an ordinary function to the Function interface.
type FunctionFunc func(ctx context.Context, x, grad []float64) (float64, error)

// Evaluate calls f(ctx, x, grad).
func (f FunctionFunc) Evaluate(ctx context.Context, x, grad []float64) (float64, error) {
	return f(ctx, x, grad)
}
