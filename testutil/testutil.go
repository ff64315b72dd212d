package testutil

import (
	"math/rand"
	"sync"

	"github.com/hupe1980/lmbclust/dataset"
)

// RNG encapsulates a seeded random number generator.
// It is thread-safe.
type RNG struct {
	rand *rand.Rand
	seed int64
	mu   sync.Mutex
}

// NewRNG creates a new RNG instance with the specified seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		rand: rand.New(rand.NewSource(seed)),
		seed: seed,
	}
}

// Reset resets the RNG to its initial seed.
func (r *RNG) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.rand.Seed(r.seed)
}

// Seed returns the initial seed.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Float64 returns a pseudo-random number in [0.0,1.0).
func (r *RNG) Float64() float64 {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rand.Float64()
}

// FillUniformRange fills dst with random values in [minVal, maxVal).
func (r *RNG) FillUniformRange(dst []float64, minVal, maxVal float64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for i := range dst {
		dst[i] = minVal + r.rand.Float64()*(maxVal-minVal)
	}
}

// Uniform generates n records uniformly distributed in [0, 1)^dim.
func (r *RNG) Uniform(n, dim int) *dataset.Dataset {
	data := make([]float64, n*dim)
	r.FillUniformRange(data, 0, 1)
	return mustFlat(data, n, dim)
}

// Blobs generates n records around clusters centroids drawn uniformly from
// [-10, 10)^dim, with gaussian noise of standard deviation spread. Record i
// belongs to blob i % clusters.
func (r *RNG) Blobs(n, dim, clusters int, spread float64) *dataset.Dataset {
	centroids := make([]float64, clusters*dim)
	r.FillUniformRange(centroids, -10, 10)

	r.mu.Lock()
	defer r.mu.Unlock()

	data := make([]float64, n*dim)
	for i := range n {
		c := i % clusters
		for j := range dim {
			data[i*dim+j] = centroids[c*dim+j] + r.rand.NormFloat64()*spread
		}
	}
	return mustFlat(data, n, dim)
}

// Grid generates the integer lattice points {0..side-1}^2 as a 2-D dataset.
// Lattices are full of exact distance ties.
func Grid(side int) *dataset.Dataset {
	data := make([]float64, 0, side*side*2)
	for i := 0; i < side; i++ {
		for j := 0; j < side; j++ {
			data = append(data, float64(i), float64(j))
		}
	}
	return mustFlat(data, side*side, 2)
}

func mustFlat(data []float64, n, dim int) *dataset.Dataset {
	ds, err := dataset.FromFlat(data, n, dim)
	if err != nil {
		panic(err)
	}
	return ds
}
