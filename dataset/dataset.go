package dataset

import (
	"fmt"
	"math"
)

// Dataset is an immutable n x d matrix of records.
type Dataset struct {
	data     []float64
	records  int
	features int
}

// New builds a Dataset from rows. All rows must have the same positive
// length. The input is copied.
func New(rows [][]float64) (*Dataset, error) {
	if len(rows) == 0 {
		return nil, &DataFormatError{Reason: "no records", Expected: 1, Actual: 0}
	}
	d := len(rows[0])
	if d == 0 {
		return nil, &DataFormatError{Line: 1, Reason: "record has no features", Expected: 1, Actual: 0}
	}
	data := make([]float64, 0, len(rows)*d)
	for i, row := range rows {
		if len(row) != d {
			return nil, &DataFormatError{Line: i + 1, Reason: "feature count mismatch", Expected: d, Actual: len(row)}
		}
		data = append(data, row...)
	}
	return FromFlat(data, len(rows), d)
}

// FromFlat wraps a row-major slice of n*d values. The slice is referenced,
// not copied; the caller must not modify it afterwards.
func FromFlat(data []float64, n, d int) (*Dataset, error) {
	if n <= 0 || d <= 0 {
		return nil, &DataFormatError{Reason: fmt.Sprintf("invalid shape %dx%d", n, d), Expected: 1, Actual: min(n, d)}
	}
	if len(data) != n*d {
		return nil, &DataFormatError{Reason: "value count mismatch", Expected: n * d, Actual: len(data)}
	}
	for i, v := range data {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, &DataFormatError{Line: i/d + 1, Reason: "non-finite value", Expected: d, Actual: i%d + 1}
		}
	}
	return &Dataset{data: data, records: n, features: d}, nil
}

// Records returns the number of records n.
func (ds *Dataset) Records() int { return ds.records }

// Features returns the number of features d.
func (ds *Dataset) Features() int { return ds.features }

// Row returns record i. The returned slice aliases the dataset and must not
// be modified.
func (ds *Dataset) Row(i int) []float64 {
	return ds.data[i*ds.features : (i+1)*ds.features]
}

// Flat returns the row-major backing slice. It must not be modified.
func (ds *Dataset) Flat() []float64 { return ds.data }

// Centroid returns the mean of all records.
func (ds *Dataset) Centroid() []float64 {
	c := make([]float64, ds.features)
	for i := 0; i < ds.records; i++ {
		row := ds.Row(i)
		for j, v := range row {
			c[j] += v
		}
	}
	inv := 1 / float64(ds.records)
	for j := range c {
		c[j] *= inv
	}
	return c
}

// CheckShape returns a *DataFormatError unless the dataset has exactly n
// records of d features.
func (ds *Dataset) CheckShape(n, d int) error {
	if ds.records != n {
		return &DataFormatError{Reason: "record count mismatch", Expected: n, Actual: ds.records}
	}
	if ds.features != d {
		return &DataFormatError{Reason: "feature count mismatch", Expected: d, Actual: ds.features}
	}
	return nil
}
