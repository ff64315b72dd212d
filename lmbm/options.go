package lmbm

import (
	"log/slog"
	"time"
)

// Default parameters.
const (
	DefaultMemory        = 7
	DefaultMaxIterations = 5000
	DefaultTolW          = 1e-6
	DefaultTolG          = 1e-12
	DefaultTolF          = 1e-8
	DefaultWindow        = 10
	DefaultEpsL          = 1e-4
	DefaultEpsR          = 0.25
	DefaultMaxLineSearch = 40
	DefaultGamma         = 0.5
	DefaultEpsCurvature  = 1e-12
)

type options struct {
	memory        int
	maxIterations int
	timeLimit     time.Duration
	tolW          float64
	tolG          float64
	tolF          float64
	window        int
	epsL          float64
	epsR          float64
	maxLineSearch int
	gamma         float64
	epsCurvature  float64
	logger        *slog.Logger
	progress      func(Progress) bool
	now           func() time.Time
}

// Option configures an Optimizer.
type Option func(*options)

// WithMemory sets the number of stored correction pairs (m >= 1).
func WithMemory(m int) Option {
	return func(o *options) {
		if m >= 1 {
			o.memory = m
		}
	}
}

// WithMaxIterations caps the number of iterations. Zero or negative means
// no iteration cap.
func WithMaxIterations(n int) Option {
	return func(o *options) {
		o.maxIterations = n
	}
}

// WithTimeLimit caps the wall-clock time of a single Minimize call.
// Zero or negative means no limit.
func WithTimeLimit(d time.Duration) Option {
	return func(o *options) {
		o.timeLimit = d
	}
}

// WithTolerances sets the stopping tolerances: tolW for the stopping value
// w (relative), tolG for the aggregate subgradient norm (absolute) and
// tolF for the decrease over the last Window serious steps (relative).
// Non-positive values keep the current setting.
func WithTolerances(tolW, tolG, tolF float64) Option {
	return func(o *options) {
		if tolW > 0 {
			o.tolW = tolW
		}
		if tolG > 0 {
			o.tolG = tolG
		}
		if tolF > 0 {
			o.tolF = tolF
		}
	}
}

// WithWindow sets the number of serious steps the decrease test looks back.
func WithWindow(n int) Option {
	return func(o *options) {
		if n >= 1 {
			o.window = n
		}
	}
}

// WithLineSearch sets the serious step parameter epsL, the null step
// parameter epsR (0 < epsL < 0.5, epsL < epsR < 1) and the trial bound.
// Values outside these ranges keep the current setting.
func WithLineSearch(epsL, epsR float64, maxTrials int) Option {
	return func(o *options) {
		if epsL > 0 && epsL < 0.5 {
			o.epsL = epsL
		}
		if epsR > o.epsL && epsR < 1 {
			o.epsR = epsR
		}
		if maxTrials >= 1 {
			o.maxLineSearch = maxTrials
		}
	}
}

// WithDistanceMeasure sets the distance measure parameter gamma used in the
// subgradient locality measure beta. Zero is allowed for convex functions.
func WithDistanceMeasure(gamma float64) Option {
	return func(o *options) {
		if gamma >= 0 {
			o.gamma = gamma
		}
	}
}

// WithCurvatureThreshold sets the threshold below which a correction pair
// (s, u) is rejected: sᵀu <= eps·sᵀs.
func WithCurvatureThreshold(eps float64) Option {
	return func(o *options) {
		if eps >= 0 {
			o.epsCurvature = eps
		}
	}
}

// WithLogger sets the logger used for per-iteration debug output.
func WithLogger(logger *slog.Logger) Option {
	return func(o *options) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithProgress registers a callback invoked after every iteration.
// Returning false stops the run with StatusBudgetExceeded.
func WithProgress(fn func(Progress) bool) Option {
	return func(o *options) {
		o.progress = fn
	}
}

// withClock replaces time.Now in tests.
func withClock(now func() time.Time) Option {
	return func(o *options) {
		o.now = now
	}
}

func defaultOptions() options {
	return options{
		memory:        DefaultMemory,
		maxIterations: DefaultMaxIterations,
		tolW:          DefaultTolW,
		tolG:          DefaultTolG,
		tolF:          DefaultTolF,
		window:        DefaultWindow,
		epsL:          DefaultEpsL,
		epsR:          DefaultEpsR,
		maxLineSearch: DefaultMaxLineSearch,
		gamma:         DefaultGamma,
		epsCurvature:  DefaultEpsCurvature,
		logger:        slog.New(slog.DiscardHandler),
		now:           time.Now,
	}
}
