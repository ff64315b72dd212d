package validity

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"
)

// Membership holds the records of every cluster as a bitmap.
type Membership struct {
	clusters []*roaring.Bitmap
}

// NewMembership groups record indices by label. Labels must lie in [0, k).
func NewMembership(assign []int, k int) (*Membership, error) {
	if k < 1 {
		return nil, fmt.Errorf("%w: k=%d", ErrInvalidInput, k)
	}
	m := &Membership{clusters: make([]*roaring.Bitmap, k)}
	for j := range m.clusters {
		m.clusters[j] = roaring.New()
	}
	for i, label := range assign {
		if label < 0 || label >= k {
			return nil, fmt.Errorf("%w: record %d has label %d outside [0,%d)", ErrInvalidInput, i, label, k)
		}
		m.clusters[label].Add(uint32(i))
	}
	for _, b := range m.clusters {
		b.RunOptimize()
	}
	return m, nil
}

// Clusters returns the number of clusters.
func (m *Membership) Clusters() int { return len(m.clusters) }

// Size returns the number of records in cluster j.
func (m *Membership) Size(j int) int {
	return int(m.clusters[j].GetCardinality())
}

// Members returns a copy of cluster j's record set.
func (m *Membership) Members(j int) *roaring.Bitmap {
	return m.clusters[j].Clone()
}

// Empty returns the number of clusters without records.
func (m *Membership) Empty() int {
	var n int
	for _, b := range m.clusters {
		if b.IsEmpty() {
			n++
		}
	}
	return n
}

// each calls fn for every record of cluster j in ascending order.
func (m *Membership) each(j int, fn func(i int)) {
	it := m.clusters[j].Iterator()
	for it.HasNext() {
		fn(int(it.Next()))
	}
}
