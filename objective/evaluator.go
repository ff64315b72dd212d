package objective

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/hupe1980/lmbclust/dataset"
	"github.com/hupe1980/lmbclust/distance"
	"github.com/hupe1980/lmbclust/internal/workerpool"
)

// Evaluator computes the clustering function and a subgradient for a fixed
// dataset. It is safe for concurrent use; calls are serialized internally.
type Evaluator struct {
	ds   *dataset.Dataset
	dim  int
	opts options

	pool  *workerpool.Pool
	cache *distanceCache

	mu       sync.Mutex
	partials []partial
	moved    []bool

	evaluations atomic.Int64
}

type partial struct {
	f    float64
	grad []float64
}

// Assignment is the nearest-center labelling of every record.
type Assignment struct {
	// Labels[i] is the index of the center nearest to record i.
	Labels []int
	// Distances[i] is the squared distance of record i to Labels[i].
	Distances []float64
	// Value is the clustering function value, summed in block order.
	Value float64
}

// Farthest returns the record with the largest squared distance to its
// assigned center. Ties resolve to the lowest record index.
func (a *Assignment) Farthest() (int, float64) {
	best, bestDist := 0, a.Distances[0]
	for i, d := range a.Distances[1:] {
		if d > bestDist {
			best, bestDist = i+1, d
		}
	}
	return best, bestDist
}

// New creates an Evaluator for ds. Call Close to release its workers.
func New(ds *dataset.Dataset, optFns ...Option) *Evaluator {
	o := applyOptions(optFns)

	e := &Evaluator{
		ds:   ds,
		dim:  ds.Features(),
		opts: o,
	}
	if o.workers > 1 {
		e.pool = workerpool.New(o.workers)
	}
	if o.cache {
		e.cache = newDistanceCache(o.controller, ds.Records(), ds.Features())
	}
	return e
}

// Close stops the worker pool and releases the distance cache.
func (e *Evaluator) Close() {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.pool != nil {
		e.pool.Close()
	}
	if e.cache != nil {
		e.cache.release()
	}
}

// Dataset returns the evaluated dataset.
func (e *Evaluator) Dataset() *dataset.Dataset { return e.ds }

// Evaluations returns the number of completed Evaluate calls.
func (e *Evaluator) Evaluations() int { return int(e.evaluations.Load()) }

// Evaluate returns the clustering function value at the row-major centers x
// and writes a subgradient into grad.
//
// The subgradient slot of center c receives 2*(c - a) for every record a
// assigned to c; centers without records receive zeros.
func (e *Evaluator) Evaluate(ctx context.Context, x, grad []float64) (float64, error) {
	k, err := e.checkCenters(x)
	if err != nil {
		return 0, err
	}
	if len(grad) != len(x) {
		return 0, &ErrDimensionMismatch{What: "gradient", Expected: len(x), Actual: len(grad)}
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	blocks := e.blocks()
	e.ensurePartials(blocks, len(x))
	if cap(e.moved) < k {
		e.moved = make([]bool, k)
	}
	moved := e.moved[:k]

	useCache := e.cache != nil && e.cache.prepare(x, k, moved)

	err = e.run(ctx, blocks, func(b int) {
		e.evalBlock(b, x, k, moved, useCache)
	})
	if err != nil {
		if useCache {
			e.cache.invalidate()
		}
		return 0, err
	}
	if useCache {
		e.cache.commit(x)
	}

	for i := range grad {
		grad[i] = 0
	}
	var f float64
	for b := 0; b < blocks; b++ {
		p := &e.partials[b]
		f += p.f
		for i, g := range p.grad {
			grad[i] += g
		}
	}

	e.evaluations.Add(1)
	return f, nil
}

// Assign labels every record with its nearest center in x.
func (e *Evaluator) Assign(ctx context.Context, x []float64) (*Assignment, error) {
	if _, err := e.checkCenters(x); err != nil {
		return nil, err
	}

	n := e.ds.Records()
	a := &Assignment{
		Labels:    make([]int, n),
		Distances: make([]float64, n),
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	blocks := e.blocks()
	sums := make([]float64, blocks)
	err := e.run(ctx, blocks, func(b int) {
		lo, hi := e.blockRange(b)
		var s float64
		for i := lo; i < hi; i++ {
			j, d := distance.Nearest(e.ds.Row(i), x, e.dim, e.opts.tieTolerance)
			a.Labels[i] = j
			a.Distances[i] = d
			s += d
		}
		sums[b] = s
	})
	if err != nil {
		return nil, err
	}

	for _, s := range sums {
		a.Value += s
	}
	return a, nil
}

func (e *Evaluator) checkCenters(x []float64) (int, error) {
	if len(x) == 0 || len(x)%e.dim != 0 {
		return 0, &ErrDimensionMismatch{What: "centers", Expected: e.dim, Actual: len(x)}
	}
	return len(x) / e.dim, nil
}

func (e *Evaluator) blocks() int {
	return (e.ds.Records() + e.opts.blockSize - 1) / e.opts.blockSize
}

func (e *Evaluator) blockRange(b int) (int, int) {
	lo := b * e.opts.blockSize
	return lo, min(lo+e.opts.blockSize, e.ds.Records())
}

func (e *Evaluator) ensurePartials(blocks, size int) {
	if len(e.partials) != blocks {
		e.partials = make([]partial, blocks)
	}
	for b := range e.partials {
		p := &e.partials[b]
		if len(p.grad) != size {
			p.grad = make([]float64, size)
		}
	}
}

// run executes fn for every block, on the pool when one exists.
func (e *Evaluator) run(ctx context.Context, blocks int, fn func(b int)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if e.pool == nil || blocks == 1 {
		for b := 0; b < blocks; b++ {
			fn(b)
		}
		return nil
	}
	return e.pool.Do(ctx, blocks, fn)
}

func (e *Evaluator) evalBlock(b int, x []float64, k int, moved []bool, useCache bool) {
	p := &e.partials[b]
	p.f = 0
	for i := range p.grad {
		p.grad[i] = 0
	}

	dim := e.dim
	tol := e.opts.tieTolerance
	lo, hi := e.blockRange(b)
	for i := lo; i < hi; i++ {
		row := e.ds.Row(i)

		var best int
		var bestDist float64
		if useCache {
			cached := e.cache.dist[i*k : (i+1)*k]
			for j := 0; j < k; j++ {
				if moved[j] {
					cached[j] = distance.SquaredL2(row, x[j*dim:(j+1)*dim])
				}
			}
			best, bestDist = 0, cached[0]
			for j := 1; j < k; j++ {
				if distance.Closer(cached[j], bestDist, tol) {
					best, bestDist = j, cached[j]
				}
			}
		} else {
			best, bestDist = distance.Nearest(row, x, dim, tol)
		}

		p.f += bestDist
		c := x[best*dim : (best+1)*dim]
		g := p.grad[best*dim : (best+1)*dim]
		for t := range g {
			g[t] += 2 * (c[t] - row[t])
		}
	}
}
