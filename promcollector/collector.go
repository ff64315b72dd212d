// Package promcollector exports clustering metrics to Prometheus.
package promcollector

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/hupe1980/lmbclust"
	"github.com/hupe1980/lmbclust/lmbm"
)

// Collector implements lmbclust.MetricsCollector with Prometheus metrics.
type Collector struct {
	roundLatency  *prometheus.HistogramVec
	rounds        *prometheus.CounterVec
	objective     prometheus.Gauge
	currentK      prometheus.Gauge
	evaluations   prometheus.Counter
	runLatency    prometheus.Histogram
	runs          *prometheus.CounterVec
	runsCompleted prometheus.Gauge
}

var _ lmbclust.MetricsCollector = (*Collector)(nil)

// New creates a Collector and registers its metrics with reg.
// A nil reg uses prometheus.DefaultRegisterer.
func New(reg prometheus.Registerer) (*Collector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	c := &Collector{
		roundLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lmbclust_round_duration_seconds",
			Help:    "Wall time of one cluster count k",
			Buckets: prometheus.ExponentialBuckets(0.001, 4, 12),
		}, []string{"status"}),
		rounds: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lmbclust_rounds_total",
			Help: "Completed cluster counts by optimizer status",
		}, []string{"status"}),
		objective: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lmbclust_objective",
			Help: "Clustering objective of the last completed k",
		}),
		currentK: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lmbclust_clusters",
			Help: "Last completed cluster count",
		}),
		evaluations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lmbclust_evaluations_total",
			Help: "Objective and subgradient evaluations",
		}),
		runLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "lmbclust_run_duration_seconds",
			Help:    "Wall time of a whole run",
			Buckets: prometheus.ExponentialBuckets(0.01, 4, 12),
		}),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lmbclust_runs_total",
			Help: "Finished runs by stop reason",
		}, []string{"reason"}),
		runsCompleted: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "lmbclust_run_rounds",
			Help: "Cluster counts completed by the last run",
		}),
	}

	for _, m := range []prometheus.Collector{
		c.roundLatency, c.rounds, c.objective, c.currentK,
		c.evaluations, c.runLatency, c.runs, c.runsCompleted,
	} {
		if err := reg.Register(m); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// RecordRound implements lmbclust.MetricsCollector.
func (c *Collector) RecordRound(k int, duration time.Duration, status lmbm.Status, objective float64) {
	c.roundLatency.WithLabelValues(status.String()).Observe(duration.Seconds())
	c.rounds.WithLabelValues(status.String()).Inc()
	c.objective.Set(objective)
	c.currentK.Set(float64(k))
}

// RecordEvaluations implements lmbclust.MetricsCollector.
func (c *Collector) RecordEvaluations(n int) {
	if n > 0 {
		c.evaluations.Add(float64(n))
	}
}

// RecordRun implements lmbclust.MetricsCollector. Failed runs are counted
// under reason "error".
func (c *Collector) RecordRun(rounds int, duration time.Duration, reason lmbclust.StopReason, err error) {
	label := reason.String()
	if err != nil {
		label = "error"
	}
	c.runs.WithLabelValues(label).Inc()
	c.runLatency.Observe(duration.Seconds())
	c.runsCompleted.Set(float64(rounds))
}
