package lmbclust

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/hupe1980/lmbclust/dataset"
	"github.com/hupe1980/lmbclust/lmbm"
	"github.com/hupe1980/lmbclust/objective"
	"github.com/hupe1980/lmbclust/validity"
)

// Run computes clusterings for k = 1..cfg.MaxClusters.
//
// Configuration and dataset shape are checked before any computation: an
// invalid Config yields an *InvalidConfigError, a dataset whose shape does
// not match cfg a *dataset.DataFormatError (errors.Is(err, ErrDataFormat)).
// A context cancelled before k = 1 is complete returns the context error.
// Every later stop, including optimizer failures, is reported in the Result.
func Run(ctx context.Context, cfg Config, ds *dataset.Dataset, optFns ...Option) (res *Result, err error) {
	o := applyOptions(optFns)
	start := o.now()

	rounds := 0
	defer func() {
		reason := StopCanceled
		if res != nil {
			reason = res.StopReason
		}
		o.metricsCollector.RecordRun(rounds, o.now().Sub(start), reason, err)
	}()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if ds == nil {
		return nil, &InvalidConfigError{Field: "dataset", Value: nil, Reason: "must not be nil"}
	}
	if err := ds.CheckShape(cfg.Records, cfg.Features); err != nil {
		return nil, err
	}

	eval := objective.New(ds, o.evaluatorOptions...)
	defer eval.Close()

	d := &driver{
		cfg:   cfg,
		ds:    ds,
		eval:  eval,
		opts:  &o,
		start: start,
		res:   &Result{Config: cfg},
	}

	assign, err := d.first(ctx)
	if err != nil {
		return nil, err
	}
	rounds++

	d.res.StopReason = StopMaxClusters
	for k := 2; k <= cfg.MaxClusters; k++ {
		if ctx.Err() != nil {
			d.res.StopReason = StopCanceled
			break
		}
		remaining := cfg.TimeLimit - o.now().Sub(start)
		if remaining <= 0 {
			d.res.StopReason = StopTimeLimit
			break
		}
		next, ok, err := d.round(ctx, k, assign, remaining)
		if err != nil {
			return nil, err
		}
		if !ok {
			d.res.StopReason = StopCanceled
			break
		}
		assign = next
		rounds++
	}

	d.res.Elapsed = o.now().Sub(start)
	o.logger.LogCompletion(ctx, d.res)
	return d.res, nil
}

type driver struct {
	cfg   Config
	ds    *dataset.Dataset
	eval  *objective.Evaluator
	opts  *options
	start time.Time
	res   *Result
}

// first computes the k = 1 solution in closed form: the centroid.
func (d *driver) first(ctx context.Context) (*objective.Assignment, error) {
	roundStart := d.opts.now()
	centers := d.ds.Centroid()
	grad := make([]float64, len(centers))
	f, err := d.eval.Evaluate(ctx, centers, grad)
	if err != nil {
		return nil, fmt.Errorf("evaluate k=1: %w", err)
	}
	assign, err := d.eval.Assign(ctx, centers)
	if err != nil {
		return nil, fmt.Errorf("assign k=1: %w", err)
	}
	rec := ResultRecord{
		K:           1,
		Objective:   f,
		Status:      lmbm.StatusConverged,
		Evaluations: 1,
		Diagnostic:  "centroid",
		Centers:     centers,
	}
	if err := d.record(ctx, rec, assign, roundStart); err != nil {
		return nil, err
	}
	return assign, nil
}

// round adds the record farthest from its center under prev as center k and
// optimizes all k centers. It reports false when the context was cancelled
// before the optimizer evaluated the starting point.
func (d *driver) round(ctx context.Context, k int, prev *objective.Assignment, budget time.Duration) (*objective.Assignment, bool, error) {
	roundStart := d.opts.now()
	log := d.opts.logger.WithK(k)

	far, dist := prev.Farthest()
	last := d.res.Last()
	x0 := make([]float64, 0, len(last.Centers)+d.ds.Features())
	x0 = append(x0, last.Centers...)
	x0 = append(x0, d.ds.Row(far)...)
	log.DebugContext(ctx, "new center", "record", far, "distance", dist)

	optFns := make([]lmbm.Option, 0, len(d.opts.optimizerOptions)+2)
	optFns = append(optFns, lmbm.WithLogger(log.Logger))
	optFns = append(optFns, d.opts.optimizerOptions...)
	optFns = append(optFns, lmbm.WithTimeLimit(budget))

	out, err := lmbm.New(optFns...).Minimize(ctx, d.eval, x0)
	if err != nil {
		return nil, false, fmt.Errorf("optimize k=%d: %w", k, err)
	}
	if out.Evaluations == 0 || !isFinite(out.F) {
		log.WarnContext(ctx, "round abandoned", "status", out.Status.String(), "diagnostic", out.Diagnostic)
		return nil, false, nil
	}

	// Labelling a finished round ignores cancellation.
	assign, err := d.eval.Assign(context.WithoutCancel(ctx), out.X)
	if err != nil {
		return nil, false, fmt.Errorf("assign k=%d: %w", k, err)
	}
	rec := ResultRecord{
		K:            k,
		Objective:    out.F,
		Status:       out.Status,
		Iterations:   out.Iterations,
		Evaluations:  out.Evaluations,
		SeriousSteps: out.SeriousSteps,
		NullSteps:    out.NullSteps,
		Diagnostic:   out.Diagnostic,
		Centers:      out.X,
	}
	if err := d.record(ctx, rec, assign, roundStart); err != nil {
		return nil, false, err
	}
	return assign, true, nil
}

func (d *driver) record(ctx context.Context, rec ResultRecord, assign *objective.Assignment, roundStart time.Time) error {
	ix, err := validity.Compute(d.ds, rec.Centers, rec.K, assign.Labels)
	if err != nil {
		return fmt.Errorf("validity k=%d: %w", rec.K, err)
	}
	rec.Indices = ix
	rec.Elapsed = d.opts.now().Sub(roundStart)

	d.res.Records = append(d.res.Records, rec)
	d.opts.logger.LogRound(ctx, rec)
	d.opts.metricsCollector.RecordRound(rec.K, rec.Elapsed, rec.Status, rec.Objective)
	d.opts.metricsCollector.RecordEvaluations(rec.Evaluations)
	if d.opts.onRound != nil {
		d.opts.onRound(rec)
	}
	return nil
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
