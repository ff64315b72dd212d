package lmbm

import (
	"context"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

type stepKind int

const (
	stepSerious stepKind = iota
	stepNull
	stepFailed
)

type step struct {
	kind stepKind
	t    float64
	fy   float64
	beta float64
	diag string
}

// lineSearch looks for a serious or a null step along r.d, leaving the trial
// point and its subgradient in r.y and r.gy.
func (r *run) lineSearch(ctx context.Context, w float64) (step, error) {
	o := &r.opts
	t := 1.0
	dd := floats.Dot(r.d, r.d)
	var fy float64

	for trial := 0; trial < o.maxLineSearch; trial++ {
		floats.AddScaledTo(r.y, r.x, t, r.d)
		var err error
		fy, err = r.eval(ctx, r.y, r.gy)
		if err != nil {
			return step{}, err
		}
		if !isFinite(fy) {
			t *= 0.1
			continue
		}
		if fy <= r.f-o.epsL*t*w {
			return step{kind: stepSerious, t: t, fy: fy}, nil
		}
		dgy := floats.Dot(r.d, r.gy)
		beta := math.Max(math.Abs(r.f-fy+t*dgy), o.gamma*t*t*dd)
		if -beta+dgy >= -o.epsR*w {
			return step{kind: stepNull, t: t, fy: fy, beta: beta}, nil
		}
		t = interpolate(t, fy-r.f, w)
	}
	return step{
		kind: stepFailed,
		t:    t,
		fy:   fy,
		diag: fmt.Sprintf("line search found neither a serious nor a null step after %d trials (t=%g, w=%g)", o.maxLineSearch, t, w),
	}, nil
}

// interpolate minimizes the quadratic through f(0), the model slope -w and
// f(t) = f(0) + df, safeguarded to [0.1t, 0.5t].
func interpolate(t, df, w float64) float64 {
	lo, hi := 0.1*t, 0.5*t
	denom := 2 * (df + w*t)
	if denom <= 0 {
		return hi
	}
	next := w * t * t / denom
	switch {
	case math.IsNaN(next) || next > hi:
		return hi
	case next < lo:
		return lo
	default:
		return next
	}
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
