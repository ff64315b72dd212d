package objective

import (
	"math"

	"github.com/hupe1980/lmbclust/internal/resource"
)

// distanceCache stores the squared distance of every record to every center
// of the previous evaluation, row-major by record.
type distanceCache struct {
	rc      *resource.Controller
	n       int
	dim     int
	k       int
	dist    []float64 // n * k
	centers []float64 // k * dim, centers the cached columns belong to
	valid   bool
	bytes   int64
}

func newDistanceCache(rc *resource.Controller, n, dim int) *distanceCache {
	return &distanceCache{rc: rc, n: n, dim: dim}
}

// prepare lays the cache out for the centers in x and marks in moved every
// center whose column must be recomputed. It returns false when the cache
// cannot be used for this evaluation.
func (c *distanceCache) prepare(x []float64, k int, moved []bool) bool {
	if k != c.k {
		if !c.resize(k) {
			return false
		}
	}

	for j := 0; j < k; j++ {
		moved[j] = true
	}
	if !c.valid {
		return true
	}

	for j := 0; j < k; j++ {
		moved[j] = !equalBits(x[j*c.dim:(j+1)*c.dim], c.centers[j*c.dim:(j+1)*c.dim])
	}
	return true
}

// commit records x as the centers of the cached columns.
func (c *distanceCache) commit(x []float64) {
	copy(c.centers, x)
	c.valid = true
}

// invalidate drops the cached columns, e.g. after a cancelled evaluation left
// them partially written.
func (c *distanceCache) invalidate() {
	c.valid = false
}

// resize reallocates the cache for k centers and carries over the columns of
// centers that exist in both layouts.
func (c *distanceCache) resize(k int) bool {
	oldDist, oldCenters, oldK, oldValid := c.dist, c.centers, c.k, c.valid
	c.release()

	need := int64(c.n*k+k*c.dim) * 8
	if !c.rc.TryAcquireMemory(need) {
		return false
	}

	c.k = k
	c.dist = make([]float64, c.n*k)
	c.centers = make([]float64, k*c.dim)
	c.bytes = need

	keep := 0
	if oldValid {
		keep = min(oldK, k)
		for i := 0; i < c.n; i++ {
			copy(c.dist[i*k:i*k+keep], oldDist[i*oldK:i*oldK+keep])
		}
		copy(c.centers, oldCenters[:keep*c.dim])
	}
	// New columns never match a real center and are always recomputed.
	for t := keep * c.dim; t < len(c.centers); t++ {
		c.centers[t] = math.NaN()
	}
	c.valid = keep > 0
	return true
}

func (c *distanceCache) release() {
	if c.bytes > 0 {
		c.rc.ReleaseMemory(c.bytes)
	}
	c.bytes = 0
	c.dist = nil
	c.centers = nil
	c.k = 0
	c.valid = false
}

func equalBits(a, b []float64) bool {
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
