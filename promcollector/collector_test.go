package promcollector

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/lmbclust"
	"github.com/hupe1980/lmbclust/dataset"
	"github.com/hupe1980/lmbclust/lmbm"
)

func gather(t *testing.T, reg *prometheus.Registry) map[string]*dto.MetricFamily {
	t.Helper()
	mfs, err := reg.Gather()
	require.NoError(t, err)
	out := make(map[string]*dto.MetricFamily, len(mfs))
	for _, mf := range mfs {
		out[mf.GetName()] = mf
	}
	return out
}

func labeled(mf *dto.MetricFamily, name, value string) *dto.Metric {
	for _, m := range mf.GetMetric() {
		for _, l := range m.GetLabel() {
			if l.GetName() == name && l.GetValue() == value {
				return m
			}
		}
	}
	return nil
}

func TestCollector_Records(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	c.RecordRound(1, 10*time.Millisecond, lmbm.StatusConverged, 101)
	c.RecordRound(2, 20*time.Millisecond, lmbm.StatusBudgetExceeded, 1.5)
	c.RecordEvaluations(7)
	c.RecordEvaluations(0)
	c.RecordRun(2, time.Second, lmbclust.StopTimeLimit, nil)
	c.RecordRun(0, time.Millisecond, lmbclust.StopCanceled, errors.New("boom"))

	mfs := gather(t, reg)
	assert.Equal(t, 1.5, mfs["lmbclust_objective"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, 2.0, mfs["lmbclust_clusters"].GetMetric()[0].GetGauge().GetValue())
	assert.Equal(t, 7.0, mfs["lmbclust_evaluations_total"].GetMetric()[0].GetCounter().GetValue())
	assert.Equal(t, 0.0, mfs["lmbclust_run_rounds"].GetMetric()[0].GetGauge().GetValue())

	rounds := mfs["lmbclust_rounds_total"]
	require.NotNil(t, labeled(rounds, "status", "converged"))
	assert.Equal(t, 1.0, labeled(rounds, "status", "converged").GetCounter().GetValue())
	assert.Equal(t, 1.0, labeled(rounds, "status", "budget_exceeded").GetCounter().GetValue())

	runs := mfs["lmbclust_runs_total"]
	require.NotNil(t, labeled(runs, "reason", "time_limit"))
	require.NotNil(t, labeled(runs, "reason", "error"))
	assert.Nil(t, labeled(runs, "reason", "canceled"))

	assert.Equal(t, uint64(2), mfs["lmbclust_run_duration_seconds"].GetMetric()[0].GetHistogram().GetSampleCount())
}

func TestCollector_DuplicateRegistration(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := New(reg)
	require.NoError(t, err)
	_, err = New(reg)
	assert.Error(t, err)
}

func TestCollector_WithRun(t *testing.T) {
	reg := prometheus.NewRegistry()
	c, err := New(reg)
	require.NoError(t, err)

	ds, err := dataset.New([][]float64{{0, 0}, {0, 1}, {10, 0}, {10, 1}})
	require.NoError(t, err)
	res, err := lmbclust.Run(context.Background(), lmbclust.Config{
		MaxClusters: 2, Records: 4, Features: 2, TimeLimit: time.Hour,
	}, ds, lmbclust.WithMetricsCollector(c))
	require.NoError(t, err)

	mfs := gather(t, reg)
	assert.Equal(t, float64(res.MaxK()), mfs["lmbclust_clusters"].GetMetric()[0].GetGauge().GetValue())
	assert.InDelta(t, res.Last().Objective, mfs["lmbclust_objective"].GetMetric()[0].GetGauge().GetValue(), 0)
	require.NotNil(t, labeled(mfs["lmbclust_runs_total"], "reason", "max_clusters"))

	var evals int
	for _, rec := range res.Records {
		evals += rec.Evaluations
	}
	assert.Equal(t, float64(evals), mfs["lmbclust_evaluations_total"].GetMetric()[0].GetCounter().GetValue())
}
