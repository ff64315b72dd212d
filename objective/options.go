package objective

import (
	"runtime"

	"github.com/hupe1980/lmbclust/distance"
	"github.com/hupe1980/lmbclust/internal/resource"
)

// DefaultBlockSize is the number of records per reduction block.
const DefaultBlockSize = 1024

// DefaultMemoryLimit bounds the distance cache when no controller is given.
const DefaultMemoryLimit = 512 << 20

type options struct {
	workers      int
	blockSize    int
	tieTolerance float64
	cache        bool
	controller   *resource.Controller
}

// Option configures an Evaluator.
type Option func(*options)

// WithWorkers sets the number of worker goroutines. Values <= 1 evaluate on
// the calling goroutine.
func WithWorkers(n int) Option {
	return func(o *options) {
		o.workers = n
	}
}

// WithBlockSize sets the number of records per reduction block.
// Changing the block size may change the last bits of the results; the
// worker count never does.
func WithBlockSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.blockSize = n
		}
	}
}

// WithTieTolerance sets the relative tolerance under which two centers count
// as equidistant from a record.
func WithTieTolerance(tol float64) Option {
	return func(o *options) {
		if tol >= 0 {
			o.tieTolerance = tol
		}
	}
}

// WithDistanceCache enables or disables the n x k distance cache.
func WithDistanceCache(enabled bool) Option {
	return func(o *options) {
		o.cache = enabled
	}
}

// WithResourceController reserves cache memory through rc.
func WithResourceController(rc *resource.Controller) Option {
	return func(o *options) {
		o.controller = rc
	}
}

// WithMemoryLimit reserves cache memory through a private controller limited
// to bytes.
func WithMemoryLimit(bytes int64) Option {
	return func(o *options) {
		o.controller = resource.NewController(resource.Config{MemoryLimitBytes: bytes})
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		workers:      runtime.GOMAXPROCS(0),
		blockSize:    DefaultBlockSize,
		tieTolerance: distance.DefaultTieTolerance,
		cache:        true,
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	if o.controller == nil {
		o.controller = resource.NewController(resource.Config{MemoryLimitBytes: DefaultMemoryLimit})
	}
	return o
}
