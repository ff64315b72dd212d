package lmbclust

import (
	"time"

	"github.com/hupe1980/lmbclust/internal/resource"
	"github.com/hupe1980/lmbclust/lmbm"
	"github.com/hupe1980/lmbclust/objective"
)

type options struct {
	metricsCollector MetricsCollector
	logger           *Logger
	evaluatorOptions []objective.Option
	optimizerOptions []lmbm.Option
	onRound          func(ResultRecord)
	now              func() time.Time
}

// Option configures Run.
type Option func(*options)

// WithLogger sets the logger. If nil is passed, logging is disabled.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithMetricsCollector sets the metrics collector.
// If nil is passed, NoopMetricsCollector is used.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		if mc == nil {
			mc = NoopMetricsCollector{}
		}
		o.metricsCollector = mc
	}
}

// WithWorkers sets the number of evaluator workers. Results do not depend
// on this value.
func WithWorkers(n int) Option {
	return WithEvaluatorOptions(objective.WithWorkers(n))
}

// WithResourceController shares a resource controller with the evaluator's
// distance cache.
func WithResourceController(rc *resource.Controller) Option {
	return WithEvaluatorOptions(objective.WithResourceController(rc))
}

// WithEvaluatorOptions appends options for the objective evaluator.
func WithEvaluatorOptions(opts ...objective.Option) Option {
	return func(o *options) {
		o.evaluatorOptions = append(o.evaluatorOptions, opts...)
	}
}

// WithOptimizerOptions appends options for the LMBM optimizer. The time
// limit of every round is always set to the remaining global budget and
// overrides lmbm.WithTimeLimit.
func WithOptimizerOptions(opts ...lmbm.Option) Option {
	return func(o *options) {
		o.optimizerOptions = append(o.optimizerOptions, opts...)
	}
}

// WithRoundCallback registers fn to be called after every completed k, in
// order, before the next round starts.
func WithRoundCallback(fn func(ResultRecord)) Option {
	return func(o *options) {
		o.onRound = fn
	}
}

// withClock replaces time.Now in tests.
func withClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		metricsCollector: NoopMetricsCollector{},
		logger:           NoopLogger(),
		now:              time.Now,
	}
	for _, fn := range optFns {
		fn(&o)
	}
	return o
}
