package lmbclust

import (
	"math"
	"sync/atomic"
	"time"

	"github.com/hupe1980/lmbclust/lmbm"
)

// MetricsCollector defines an interface for collecting operational metrics.
// Implement this interface to integrate with monitoring systems like
// Prometheus (see package promcollector).
type MetricsCollector interface {
	// RecordRound is called after each completed cluster count k.
	RecordRound(k int, duration time.Duration, status lmbm.Status, objective float64)

	// RecordEvaluations is called after each round with the number of
	// objective evaluations it used.
	RecordEvaluations(n int)

	// RecordRun is called once when Run returns. err is nil if the run
	// produced a result.
	RecordRun(rounds int, duration time.Duration, reason StopReason, err error)
}

// NoopMetricsCollector is a no-op implementation of MetricsCollector.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordRound(int, time.Duration, lmbm.Status, float64) {}
func (NoopMetricsCollector) RecordEvaluations(int)                                {}
func (NoopMetricsCollector) RecordRun(int, time.Duration, StopReason, error)      {}

// BasicMetricsCollector provides simple in-memory metrics collection.
type BasicMetricsCollector struct {
	RoundCount      atomic.Int64
	RoundTotalNanos atomic.Int64
	ConvergedRounds atomic.Int64
	FailedRounds    atomic.Int64
	BudgetRounds    atomic.Int64
	Evaluations     atomic.Int64
	RunCount        atomic.Int64
	RunErrors       atomic.Int64
	lastObjective   atomic.Uint64
}

// RecordRound implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRound(k int, duration time.Duration, status lmbm.Status, objective float64) {
	b.RoundCount.Add(1)
	b.RoundTotalNanos.Add(duration.Nanoseconds())
	switch status {
	case lmbm.StatusConverged:
		b.ConvergedRounds.Add(1)
	case lmbm.StatusFailed:
		b.FailedRounds.Add(1)
	case lmbm.StatusBudgetExceeded:
		b.BudgetRounds.Add(1)
	}
	b.lastObjective.Store(math.Float64bits(objective))
}

// RecordEvaluations implements MetricsCollector.
func (b *BasicMetricsCollector) RecordEvaluations(n int) {
	b.Evaluations.Add(int64(n))
}

// RecordRun implements MetricsCollector.
func (b *BasicMetricsCollector) RecordRun(_ int, _ time.Duration, _ StopReason, err error) {
	b.RunCount.Add(1)
	if err != nil {
		b.RunErrors.Add(1)
	}
}

// GetStats returns a snapshot of current metrics.
func (b *BasicMetricsCollector) GetStats() BasicMetricsStats {
	rounds := b.RoundCount.Load()
	var avg int64
	if rounds > 0 {
		avg = b.RoundTotalNanos.Load() / rounds
	}
	return BasicMetricsStats{
		RoundCount:      rounds,
		RoundAvgNanos:   avg,
		ConvergedRounds: b.ConvergedRounds.Load(),
		FailedRounds:    b.FailedRounds.Load(),
		BudgetRounds:    b.BudgetRounds.Load(),
		Evaluations:     b.Evaluations.Load(),
		RunCount:        b.RunCount.Load(),
		RunErrors:       b.RunErrors.Load(),
		LastObjective:   math.Float64frombits(b.lastObjective.Load()),
	}
}

// BasicMetricsStats is a snapshot of BasicMetricsCollector state.
type BasicMetricsStats struct {
	RoundCount      int64
	RoundAvgNanos   int64
	ConvergedRounds int64
	FailedRounds    int64
	BudgetRounds    int64
	Evaluations     int64
	RunCount        int64
	RunErrors       int64
	LastObjective   float64
}
