package validity

import (
	"errors"
	"fmt"
	"math"
	"slices"

	"github.com/hupe1980/lmbclust/dataset"
	"github.com/hupe1980/lmbclust/distance"
)

// Index names. They are stable and appear verbatim in reports.
const (
	WCSS             = "wcss"
	BCSS             = "bcss"
	SeparationRatio  = "separation_ratio"
	CalinskiHarabasz = "calinski_harabasz"
	DaviesBouldin    = "davies_bouldin"
	Dunn             = "dunn"
	EmptyClusters    = "empty_clusters"
)

// Names lists the computed indices in report order.
var Names = []string{WCSS, BCSS, SeparationRatio, CalinskiHarabasz, DaviesBouldin, Dunn, EmptyClusters}

// ErrInvalidInput is returned when centers, k and the assignment disagree
// with each other or with the dataset.
var ErrInvalidInput = errors.New("validity: invalid input")

// Indices maps index name to value.
type Indices map[string]float64

// Keys returns the names in ix, known indices first in report order, then
// any others sorted.
func (ix Indices) Keys() []string {
	keys := make([]string, 0, len(ix))
	for _, name := range Names {
		if _, ok := ix[name]; ok {
			keys = append(keys, name)
		}
	}
	var extra []string
	for name := range ix {
		if !slices.Contains(Names, name) {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	return append(keys, extra...)
}

// clusterStats are per-cluster sums over the members.
type clusterStats struct {
	size    int
	sse     float64 // Σ squared distance to the center
	meanDst float64 // mean Euclidean distance to the center
	radius  float64 // max Euclidean distance to the center
}

// Compute returns all indices in Names for the k centers (row-major, k×d)
// and the assignment of every record to a center.
//
// Empty clusters are excluded from every index except empty_clusters.
// Indices that are undefined for the clustering (fewer than two non-empty
// clusters, zero scatter) are reported as 0.
func Compute(ds *dataset.Dataset, centers []float64, k int, assign []int) (Indices, error) {
	d := ds.Features()
	if k < 1 || len(centers) != k*d {
		return nil, fmt.Errorf("%w: %d center values for k=%d, d=%d", ErrInvalidInput, len(centers), k, d)
	}
	if len(assign) != ds.Records() {
		return nil, fmt.Errorf("%w: %d labels for %d records", ErrInvalidInput, len(assign), ds.Records())
	}
	m, err := NewMembership(assign, k)
	if err != nil {
		return nil, err
	}

	stats := make([]clusterStats, k)
	var nonEmpty []int
	for j := 0; j < k; j++ {
		c := distance.Center(centers, d, j)
		st := &stats[j]
		var sumDst float64
		m.each(j, func(i int) {
			sq := distance.SquaredL2(ds.Row(i), c)
			st.sse += sq
			dist := math.Sqrt(sq)
			sumDst += dist
			st.radius = math.Max(st.radius, dist)
			st.size++
		})
		if st.size > 0 {
			st.meanDst = sumDst / float64(st.size)
			nonEmpty = append(nonEmpty, j)
		}
	}

	var wcss, bcss float64
	mean := ds.Centroid()
	for _, j := range nonEmpty {
		wcss += stats[j].sse
		bcss += float64(stats[j].size) * distance.SquaredL2(distance.Center(centers, d, j), mean)
	}

	ix := Indices{
		WCSS:             wcss,
		BCSS:             bcss,
		SeparationRatio:  0,
		CalinskiHarabasz: calinskiHarabasz(wcss, bcss, ds.Records(), len(nonEmpty)),
		DaviesBouldin:    daviesBouldin(centers, d, stats, nonEmpty),
		Dunn:             dunn(centers, d, stats, nonEmpty),
		EmptyClusters:    float64(m.Empty()),
	}
	if wcss > 0 {
		ix[SeparationRatio] = bcss / wcss
	}
	return ix, nil
}

func calinskiHarabasz(wcss, bcss float64, n, k int) float64 {
	if k < 2 || n <= k || wcss == 0 {
		return 0
	}
	return (bcss / float64(k-1)) / (wcss / float64(n-k))
}

// daviesBouldin averages, over non-empty clusters, the worst ratio of summed
// scatter to center distance. Pairs of coincident centers are skipped.
func daviesBouldin(centers []float64, d int, stats []clusterStats, nonEmpty []int) float64 {
	if len(nonEmpty) < 2 {
		return 0
	}
	var total float64
	for _, j := range nonEmpty {
		var worst float64
		for _, l := range nonEmpty {
			if l == j {
				continue
			}
			sep := distance.L2(distance.Center(centers, d, j), distance.Center(centers, d, l))
			if sep == 0 {
				continue
			}
			worst = math.Max(worst, (stats[j].meanDst+stats[l].meanDst)/sep)
		}
		total += worst
	}
	return total / float64(len(nonEmpty))
}

// dunn is the smallest distance between two non-empty cluster centers over
// the largest cluster diameter, the diameter being estimated as twice the
// cluster radius.
func dunn(centers []float64, d int, stats []clusterStats, nonEmpty []int) float64 {
	if len(nonEmpty) < 2 {
		return 0
	}
	var diam float64
	for _, j := range nonEmpty {
		diam = math.Max(diam, 2*stats[j].radius)
	}
	if diam == 0 {
		return 0
	}
	sep := math.Inf(1)
	for a, j := range nonEmpty {
		for _, l := range nonEmpty[a+1:] {
			sep = math.Min(sep, distance.L2(distance.Center(centers, d, j), distance.Center(centers, d, l)))
		}
	}
	return sep / diam
}
