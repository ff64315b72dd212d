package lmbm

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"
)

func TestHistory_RingEviction(t *testing.T) {
	h := newHistory(2, 2)
	require.True(t, h.push([]float64{1, 0}, []float64{1, 0}, 0))
	require.True(t, h.push([]float64{0, 1}, []float64{0, 2}, 0))
	require.True(t, h.push([]float64{1, 1}, []float64{3, 3}, 0))

	assert.Equal(t, 2, h.len())
	assert.Equal(t, []float64{0, 1}, h.at(0).s)
	assert.Equal(t, []float64{1, 1}, h.at(1).s)
	assert.Equal(t, 6.0, h.at(1).su)
	assert.InDelta(t, 6.0/18.0, h.scaling(), 1e-15)
}

func TestHistory_RejectsBadCurvature(t *testing.T) {
	h := newHistory(3, 2)
	assert.False(t, h.push([]float64{1, 0}, []float64{-1, 0}, 0))
	assert.False(t, h.push([]float64{1, 0}, []float64{0, 1}, 0))
	assert.False(t, h.push([]float64{0, 0}, []float64{0, 0}, 0))
	assert.False(t, h.push([]float64{1, 0}, []float64{1e-6, 0}, 1e-3))
	assert.Equal(t, 0, h.len())
	assert.Equal(t, 1.0, h.scaling())

	require.True(t, h.push([]float64{1, 0}, []float64{2, 0}, 0))
	h.clear()
	assert.Equal(t, 0, h.len())
}

func TestApplyBFGS_EmptyHistoryIsIdentity(t *testing.T) {
	h := newHistory(3, 2)
	ws := newWorkspace(2, 3)
	dst := make([]float64, 2)
	ws.applyBFGS(h, []float64{3, -4}, dst)
	assert.Equal(t, []float64{3, -4}, dst)
}

func TestApplyBFGS_OnePair(t *testing.T) {
	h := newHistory(3, 2)
	require.True(t, h.push([]float64{0, -1}, []float64{1, -1}, 0))
	ws := newWorkspace(2, 3)
	dst := make([]float64, 2)
	ws.applyBFGS(h, []float64{1, 0}, dst)
	assert.Equal(t, []float64{0.5, 0.5}, dst)
}

func TestApplyBFGS_SecantEquation(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	h := newHistory(5, 4)
	for _, s := range [][]float64{{1, 1, 0, 0}, {0, 1, 1, 1}, {1, 0, 0, 1}} {
		u := make([]float64, 4)
		floats.MulTo(u, a, s)
		require.True(t, h.push(s, u, 0))
	}
	ws := newWorkspace(4, 5)
	newest := h.at(h.len() - 1)
	dst := make([]float64, 4)
	ws.applyBFGS(h, newest.u, dst)
	for i := range dst {
		assert.InDelta(t, newest.s[i], dst[i], 1e-12)
	}
}

func TestApplySR1_SecantEquations(t *testing.T) {
	a := []float64{1, 2, 3, 4}
	h := newHistory(5, 4)
	for _, s := range [][]float64{{1, 1, 0, 0}, {0, 1, 1, 1}} {
		u := make([]float64, 4)
		floats.MulTo(u, a, s)
		require.True(t, h.push(s, u, 0))
	}
	dst := make([]float64, 4)
	for i := 0; i < h.len(); i++ {
		c := h.at(i)
		require.True(t, applySR1(h, c.u, dst))
		for j := range dst {
			assert.InDelta(t, c.s[j], dst[j], 1e-10, "pair %d coordinate %d", i, j)
		}
	}
}

func TestApplySR1_EmptyHistory(t *testing.T) {
	h := newHistory(2, 2)
	assert.False(t, applySR1(h, []float64{1, 1}, make([]float64, 2)))
}

func TestSimplex3(t *testing.T) {
	identity := [3][3]float64{{1, 0, 0}, {0, 1, 0}, {0, 0, 1}}

	t.Run("interior", func(t *testing.T) {
		l := simplex3(identity, [3]float64{})
		for _, v := range l {
			assert.InDelta(t, 1.0/3.0, v, 1e-12)
		}
	})

	t.Run("vertex", func(t *testing.T) {
		l := simplex3(identity, [3]float64{0, 10, 10})
		assert.Equal(t, [3]float64{1, 0, 0}, l)
	})

	t.Run("edge", func(t *testing.T) {
		// g0 = (1,0), g1 = (-1,0), g2 = g0 under the identity metric.
		G := [3][3]float64{{1, -1, 1}, {-1, 1, -1}, {1, -1, 1}}
		l := simplex3(G, [3]float64{0, 0.5, 0})
		assert.InDelta(t, 1.0, l[0]+l[1]+l[2], 1e-12)
		// Minimum of ½(2λ-1)² + 0.5(1-λ) over λ = λ0+λ2 is at λ = 5/8.
		assert.InDelta(t, 0.625, l[0]+l[2], 1e-12)
		assert.InDelta(t, 0.375, l[1], 1e-12)
	})

	t.Run("degenerate", func(t *testing.T) {
		G := [3][3]float64{{1, 1, 1}, {1, 1, 1}, {1, 1, 1}}
		l := simplex3(G, [3]float64{0, 1, 0})
		assert.Equal(t, 0.0, l[1])
		assert.InDelta(t, 1.0, l[0]+l[2], 1e-12)
	})
}

func TestInterpolate(t *testing.T) {
	// Exact minimizer of the quadratic through f(0)=0, slope -1, f(1)=0 is 0.5.
	assert.Equal(t, 0.5, interpolate(1, 0, 1))
	// Large increase: clamped to the lower safeguard.
	assert.Equal(t, 0.1, interpolate(1, 100, 1))
	// Minimizer inside the bracket.
	assert.InDelta(t, 1.0/3.0, interpolate(1, 0.5, 1), 1e-15)
	// Non-positive curvature: halve.
	assert.Equal(t, 0.5, interpolate(1, -2, 1))
}
