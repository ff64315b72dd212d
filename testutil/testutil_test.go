package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestUniform(t *testing.T) {
	rng := NewRNG(4711)

	ds := rng.Uniform(8, 32)

	assert.Equal(t, 8, ds.Records())
	assert.Equal(t, 32, ds.Features())
	for _, v := range ds.Flat() {
		assert.GreaterOrEqual(t, v, 0.0)
		assert.Less(t, v, 1.0)
	}
}

func TestBlobs_Reproducible(t *testing.T) {
	a := NewRNG(7).Blobs(50, 3, 4, 0.5)
	b := NewRNG(7).Blobs(50, 3, 4, 0.5)
	assert.Equal(t, a.Flat(), b.Flat())
}

func TestReset(t *testing.T) {
	rng := NewRNG(42)
	first := rng.Float64()
	rng.Reset()
	assert.Equal(t, first, rng.Float64())
	assert.Equal(t, int64(42), rng.Seed())
}

func TestGrid(t *testing.T) {
	ds := Grid(3)
	assert.Equal(t, 9, ds.Records())
	assert.Equal(t, []float64{2, 1}, ds.Row(7))
}
