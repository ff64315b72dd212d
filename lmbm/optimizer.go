package lmbm

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/floats"
)

// Result is the outcome of a Minimize call. X is always the best iterate
// found, even when Status is StatusBudgetExceeded or StatusFailed.
type Result struct {
	X            []float64
	F            float64
	Status       Status
	Iterations   int
	Evaluations  int
	SeriousSteps int
	NullSteps    int
	Restarts     int
	Elapsed      time.Duration
	Diagnostic   string
}

// Progress is passed to the WithProgress callback after each iteration.
type Progress struct {
	Iteration   int
	Status      Status
	F           float64
	W           float64
	Step        float64
	Evaluations int
	BundleSize  int
}

// Optimizer minimizes nonsmooth functions with the limited memory bundle
// method. An Optimizer holds only configuration and may be shared.
type Optimizer struct {
	opts options
}

// New creates an Optimizer.
func New(optFns ...Option) *Optimizer {
	opts := defaultOptions()
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Optimizer{opts: opts}
}

// Memory returns the configured number of correction pairs.
func (o *Optimizer) Memory() int { return o.opts.memory }

// Minimize runs the method from x0. x0 is not modified.
func (o *Optimizer) Minimize(ctx context.Context, fn Function, x0 []float64) (*Result, error) {
	if fn == nil {
		return nil, ErrNilFunction
	}
	if len(x0) == 0 {
		return nil, ErrEmptyStart
	}
	for i, v := range x0 {
		if !isFinite(v) {
			return nil, fmt.Errorf("%w: coordinate %d is %v", ErrNonFiniteStart, i, v)
		}
	}

	r := newRun(o.opts, fn, x0)
	return r.minimize(ctx)
}

// run is the mutable state of a single Minimize call.
type run struct {
	opts  options
	fn    Function
	start time.Time

	x, g  []float64 // current iterate and its subgradient
	f     float64
	ga    []float64 // aggregate subgradient
	alpha float64   // aggregate linearization error
	d     []float64
	y, gy []float64 // trial point and its subgradient

	s, u     []float64
	hv       [3][]float64
	scratch  []float64
	hist     *history
	ws       *workspace
	lastNull bool
	recent   []float64 // f after the last window+1 serious steps

	res Result
}

func newRun(opts options, fn Function, x0 []float64) *run {
	n := len(x0)
	buf := func() []float64 { return make([]float64, n) }
	r := &run{
		opts:    opts,
		fn:      fn,
		x:       append([]float64(nil), x0...),
		g:       buf(),
		ga:      buf(),
		d:       buf(),
		y:       buf(),
		gy:      buf(),
		s:       buf(),
		u:       buf(),
		scratch: buf(),
		hist:    newHistory(opts.memory, n),
		ws:      newWorkspace(n, opts.memory),
		recent:  make([]float64, 0, opts.window+1),
	}
	for i := range r.hv {
		r.hv[i] = buf()
	}
	return r
}

func (r *run) eval(ctx context.Context, x, grad []float64) (float64, error) {
	r.res.Evaluations++
	return r.fn.Evaluate(ctx, x, grad)
}

func (r *run) minimize(ctx context.Context) (*Result, error) {
	r.start = r.opts.now()
	log := r.opts.logger

	f, err := r.eval(ctx, r.x, r.g)
	if err != nil {
		r.f = math.NaN()
		if isCancellation(err) {
			return r.finish(StatusBudgetExceeded, "cancelled before the starting point was evaluated"), nil
		}
		return nil, err
	}
	r.f = f
	if !isFinite(f) {
		return r.finish(StatusFailed, fmt.Sprintf("objective at starting point is %v", f)), nil
	}
	copy(r.ga, r.g)
	r.recent = append(r.recent, f)
	r.res.Status = StatusInitialized

	for {
		if reason, over := r.overBudget(ctx); over {
			return r.finish(StatusBudgetExceeded, reason), nil
		}
		if floats.Norm(r.ga, 2) <= r.opts.tolG {
			return r.finish(StatusConverged, "aggregate subgradient norm below tolerance"), nil
		}
		w := r.direction()
		if w <= r.opts.tolW*math.Max(1, math.Abs(r.f)) {
			return r.finish(StatusConverged, "stopping value below tolerance"), nil
		}

		r.res.Iterations++
		st, err := r.lineSearch(ctx, w)
		if err != nil {
			if isCancellation(err) {
				return r.finish(StatusBudgetExceeded, "context cancelled"), nil
			}
			return nil, err
		}

		switch st.kind {
		case stepSerious:
			r.serious(st)
			r.res.Status = StatusSeriousStep
			r.res.SeriousSteps++
		case stepNull:
			r.null(st)
			r.res.Status = StatusNullStep
			r.res.NullSteps++
		default:
			return r.finish(StatusFailed, st.diag), nil
		}

		log.Debug("lmbm iteration",
			"iter", r.res.Iterations,
			"status", r.res.Status.String(),
			"f", r.f,
			"w", w,
			"t", st.t,
			"bundle", r.hist.len(),
		)

		if r.opts.progress != nil && !r.opts.progress(Progress{
			Iteration:   r.res.Iterations,
			Status:      r.res.Status,
			F:           r.f,
			W:           w,
			Step:        st.t,
			Evaluations: r.res.Evaluations,
			BundleSize:  r.hist.len(),
		}) {
			return r.finish(StatusBudgetExceeded, "stopped by progress callback"), nil
		}

		if st.kind == stepSerious && r.stalled() {
			return r.finish(StatusConverged,
				fmt.Sprintf("decrease over the last %d serious steps below tolerance", r.opts.window)), nil
		}
	}
}

func (r *run) overBudget(ctx context.Context) (string, bool) {
	if err := ctx.Err(); err != nil {
		return "context cancelled", true
	}
	if r.opts.maxIterations > 0 && r.res.Iterations >= r.opts.maxIterations {
		return fmt.Sprintf("iteration limit %d reached", r.opts.maxIterations), true
	}
	if r.opts.timeLimit > 0 && r.opts.now().Sub(r.start) >= r.opts.timeLimit {
		return fmt.Sprintf("time limit %s reached", r.opts.timeLimit), true
	}
	return "", false
}

// direction sets r.d = -H·ga and returns w = gaᵀH·ga + 2·alpha.
func (r *run) direction() float64 {
	hga := r.scratch
	var dd float64
	ok := false
	if r.lastNull && r.hist.len() > 0 && applySR1(r.hist, r.ga, hga) {
		dd = floats.Dot(r.ga, hga)
		ok = dd > 0 && isFinite(dd)
	}
	if !ok {
		r.ws.applyBFGS(r.hist, r.ga, hga)
		dd = floats.Dot(r.ga, hga)
		ok = dd > 0 && isFinite(dd)
	}
	if !ok {
		r.hist.clear()
		r.res.Restarts++
		copy(hga, r.ga)
		dd = floats.Dot(r.ga, r.ga)
	}
	for i, v := range hga {
		r.d[i] = -v
	}
	return dd + 2*r.alpha
}

func (r *run) serious(st step) {
	floats.SubTo(r.s, r.y, r.x)
	floats.SubTo(r.u, r.gy, r.g)
	copy(r.x, r.y)
	copy(r.g, r.gy)
	r.f = st.fy
	r.hist.push(r.s, r.u, r.opts.epsCurvature)

	copy(r.ga, r.g)
	r.alpha = 0
	r.lastNull = false

	if len(r.recent) == cap(r.recent) {
		copy(r.recent, r.recent[1:])
		r.recent = r.recent[:len(r.recent)-1]
	}
	r.recent = append(r.recent, r.f)
}

// null keeps the iterate and replaces the aggregate by the convex
// combination of g, g(y) and the old aggregate that minimizes the model.
func (r *run) null(st step) {
	vecs := [3][]float64{r.g, r.gy, r.ga}
	errs := [3]float64{0, st.beta, r.alpha}
	for i, v := range vecs {
		r.ws.applyBFGS(r.hist, v, r.hv[i])
	}
	var G [3][3]float64
	for i := 0; i < 3; i++ {
		for j := i; j < 3; j++ {
			G[i][j] = floats.Dot(vecs[i], r.hv[j])
			G[j][i] = G[i][j]
		}
	}
	lambda := simplex3(G, errs)

	agg := r.scratch
	for k := range agg {
		agg[k] = lambda[0]*r.g[k] + lambda[1]*r.gy[k] + lambda[2]*r.ga[k]
	}
	copy(r.ga, agg)
	r.alpha = lambda[1]*st.beta + lambda[2]*r.alpha

	floats.ScaleTo(r.s, st.t, r.d)
	floats.SubTo(r.u, r.gy, r.g)
	r.hist.push(r.s, r.u, r.opts.epsCurvature)
	r.lastNull = true
}

func (r *run) stalled() bool {
	if len(r.recent) < r.opts.window+1 {
		return false
	}
	return r.recent[0]-r.f < r.opts.tolF*math.Max(1, math.Abs(r.f))
}

func (r *run) finish(status Status, diag string) *Result {
	r.res.Status = status
	r.res.Diagnostic = diag
	r.res.X = append([]float64(nil), r.x...)
	r.res.F = r.f
	r.res.Elapsed = r.opts.now().Sub(r.start)
	out := r.res
	return &out
}

func isCancellation(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}
