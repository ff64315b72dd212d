package lmbm

import (
	"context"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/hupe1980/lmbclust/dataset"
	"github.com/hupe1980/lmbclust/objective"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// quadratic is Σ a_i (x_i - c_i)².
func quadratic(a, c []float64) FunctionFunc {
	return func(_ context.Context, x, grad []float64) (float64, error) {
		var f float64
		for i := range x {
			diff := x[i] - c[i]
			f += a[i] * diff * diff
			grad[i] = 2 * a[i] * diff
		}
		return f, nil
	}
}

// maxLinear is max(x1-1, 1-x1, x2+2, -x2-2) with the lowest index winning
// ties. Its minimum value 0 is attained only at (1, -2).
func maxLinear() FunctionFunc {
	pieces := [][3]float64{{1, 0, -1}, {-1, 0, 1}, {0, 1, 2}, {0, -1, -2}}
	return func(_ context.Context, x, grad []float64) (float64, error) {
		best := math.Inf(-1)
		var arg int
		for i, p := range pieces {
			v := p[0]*x[0] + p[1]*x[1] + p[2]
			if v > best {
				best, arg = v, i
			}
		}
		grad[0], grad[1] = pieces[arg][0], pieces[arg][1]
		return best, nil
	}
}

func TestMinimize_Quadratic(t *testing.T) {
	fn := quadratic([]float64{1, 10, 3}, []float64{3, -1, 0.5})
	opt := New(WithTolerances(1e-12, 0, 1e-14))

	res, err := opt.Minimize(context.Background(), fn, []float64{0, 0, 0})
	require.NoError(t, err)

	assert.Equal(t, StatusConverged, res.Status, res.Diagnostic)
	assert.InDeltaSlice(t, []float64{3, -1, 0.5}, res.X, 1e-4)
	assert.Less(t, res.F, 1e-8)
	assert.Greater(t, res.SeriousSteps, 0)
	assert.Equal(t, res.Iterations, res.SeriousSteps+res.NullSteps)
	assert.GreaterOrEqual(t, res.Evaluations, res.Iterations+1)
}

func TestMinimize_DoesNotModifyStart(t *testing.T) {
	x0 := []float64{4, 4}
	_, err := New().Minimize(context.Background(), quadratic([]float64{1, 1}, []float64{0, 0}), x0)
	require.NoError(t, err)
	assert.Equal(t, []float64{4, 4}, x0)
}

func TestMinimize_Nonsmooth(t *testing.T) {
	res, err := New(WithMaxIterations(500)).Minimize(context.Background(), maxLinear(), []float64{5, 3})
	require.NoError(t, err)

	assert.NotEqual(t, StatusFailed, res.Status, res.Diagnostic)
	assert.InDelta(t, 0, res.F, 1e-9)
	assert.InDeltaSlice(t, []float64{1, -2}, res.X, 1e-9)
	assert.Positive(t, res.NullSteps)
}

func TestMinimize_ClusteringObjective(t *testing.T) {
	ds, err := dataset.New([][]float64{{0, 0}, {0, 1}, {10, 0}, {10, 1}})
	require.NoError(t, err)
	eval := objective.New(ds, objective.WithWorkers(1))
	defer eval.Close()

	res, err := New().Minimize(context.Background(), eval, []float64{5, 0.5, 0, 0})
	require.NoError(t, err)

	assert.Equal(t, StatusConverged, res.Status, res.Diagnostic)
	assert.InDelta(t, 1.0, res.F, 1e-9)
	assert.InDeltaSlice(t, []float64{10, 0.5, 0, 0.5}, res.X, 1e-6)
	assert.Equal(t, res.Evaluations, eval.Evaluations())
}

func TestMinimize_IterationBudget(t *testing.T) {
	fn := quadratic([]float64{1, 100}, []float64{1, 1})
	res, err := New(WithMaxIterations(1)).Minimize(context.Background(), fn, []float64{-5, 7})
	require.NoError(t, err)

	assert.Equal(t, StatusBudgetExceeded, res.Status)
	assert.Equal(t, 1, res.Iterations)
	assert.Contains(t, res.Diagnostic, "iteration limit")
	assert.LessOrEqual(t, res.F, 36.0+100*36)
}

func TestMinimize_TimeLimit(t *testing.T) {
	base := time.Unix(0, 0)
	calls := 0
	clock := func() time.Time {
		calls++
		return base.Add(time.Duration(calls-1) * time.Second)
	}
	fn := quadratic([]float64{1, 100}, []float64{1, 1})

	res, err := New(WithTimeLimit(1500*time.Millisecond), withClock(clock)).
		Minimize(context.Background(), fn, []float64{-5, 7})
	require.NoError(t, err)

	assert.Equal(t, StatusBudgetExceeded, res.Status)
	assert.Equal(t, 1, res.Iterations)
	assert.Contains(t, res.Diagnostic, "time limit")
	assert.Equal(t, 3*time.Second, res.Elapsed)
}

func TestMinimize_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	fn := quadratic([]float64{1}, []float64{0})
	res, err := New().Minimize(ctx, fn, []float64{2})
	require.NoError(t, err)

	assert.Equal(t, StatusBudgetExceeded, res.Status)
	assert.Equal(t, 0, res.Iterations)
	assert.Equal(t, 4.0, res.F)
	assert.Equal(t, []float64{2}, res.X)
}

func TestMinimize_CancellationFromFunction(t *testing.T) {
	fn := FunctionFunc(func(context.Context, []float64, []float64) (float64, error) {
		return 0, context.Canceled
	})
	res, err := New().Minimize(context.Background(), fn, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, StatusBudgetExceeded, res.Status)
	assert.True(t, math.IsNaN(res.F))
}

func TestMinimize_FunctionError(t *testing.T) {
	boom := errors.New("boom")
	fn := FunctionFunc(func(context.Context, []float64, []float64) (float64, error) {
		return 0, boom
	})
	_, err := New().Minimize(context.Background(), fn, []float64{1})
	assert.ErrorIs(t, err, boom)
}

func TestMinimize_DimensionMismatchIsAnError(t *testing.T) {
	ds, err := dataset.New([][]float64{{0, 0}, {1, 1}})
	require.NoError(t, err)
	eval := objective.New(ds, objective.WithWorkers(1))
	defer eval.Close()

	_, err = New().Minimize(context.Background(), eval, []float64{1, 2, 3})
	var mismatch *objective.ErrDimensionMismatch
	assert.ErrorAs(t, err, &mismatch)
}

func TestMinimize_MalformedInput(t *testing.T) {
	fn := quadratic([]float64{1}, []float64{0})

	_, err := New().Minimize(context.Background(), nil, []float64{1})
	assert.ErrorIs(t, err, ErrNilFunction)

	_, err = New().Minimize(context.Background(), fn, nil)
	assert.ErrorIs(t, err, ErrEmptyStart)

	_, err = New().Minimize(context.Background(), fn, []float64{math.NaN()})
	assert.ErrorIs(t, err, ErrNonFiniteStart)
}

func TestMinimize_LineSearchFailure(t *testing.T) {
	// x² with a subgradient of the wrong sign: every trial point is worse and
	// carries no useful information.
	fn := FunctionFunc(func(_ context.Context, x, grad []float64) (float64, error) {
		grad[0] = -1
		return x[0] * x[0], nil
	})
	res, err := New(WithLineSearch(1e-4, 0.25, 5)).Minimize(context.Background(), fn, []float64{1})
	require.NoError(t, err)

	assert.Equal(t, StatusFailed, res.Status)
	assert.NotEmpty(t, res.Diagnostic)
	assert.Equal(t, []float64{1}, res.X)
	assert.Equal(t, 1.0, res.F)
	assert.Equal(t, 6, res.Evaluations)
}

func TestMinimize_NonFiniteStartValue(t *testing.T) {
	fn := FunctionFunc(func(context.Context, []float64, []float64) (float64, error) {
		return math.Inf(1), nil
	})
	res, err := New().Minimize(context.Background(), fn, []float64{1})
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, res.Status)
}

func TestMinimize_BundleStaysBounded(t *testing.T) {
	a := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	c := []float64{1, -1, 2, -2, 3, -3, 4, -4}
	maxSize := 0
	opt := New(
		WithMemory(2),
		WithTolerances(1e-14, 0, 0),
		WithProgress(func(p Progress) bool {
			if p.BundleSize > maxSize {
				maxSize = p.BundleSize
			}
			return true
		}),
	)
	res, err := opt.Minimize(context.Background(), quadratic(a, c), make([]float64, len(a)))
	require.NoError(t, err)

	assert.Equal(t, 2, opt.Memory())
	assert.LessOrEqual(t, maxSize, 2)
	assert.Greater(t, res.Iterations, 2)
}

func TestMinimize_ProgressCanStop(t *testing.T) {
	fn := quadratic([]float64{1, 100}, []float64{1, 1})
	var seen []Progress
	res, err := New(WithProgress(func(p Progress) bool {
		seen = append(seen, p)
		return false
	})).Minimize(context.Background(), fn, []float64{-5, 7})
	require.NoError(t, err)

	assert.Equal(t, StatusBudgetExceeded, res.Status)
	require.Len(t, seen, 1)
	assert.Equal(t, 1, seen[0].Iteration)
	assert.Contains(t, []Status{StatusSeriousStep, StatusNullStep}, seen[0].Status)
}

func TestStatus(t *testing.T) {
	for s := StatusInitialized; s <= StatusFailed; s++ {
		parsed, err := ParseStatus(s.String())
		require.NoError(t, err)
		assert.Equal(t, s, parsed)
	}
	_, err := ParseStatus("bogus")
	assert.Error(t, err)

	assert.False(t, StatusNullStep.Terminal())
	assert.True(t, StatusConverged.Terminal())
	assert.True(t, StatusFailed.Terminal())
	assert.Equal(t, "unknown(42)", Status(42).String())
}
