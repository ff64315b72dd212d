// Package validity computes cluster validity indices from a center set and
// a record assignment.
//
// All functions are pure: identical inputs give identical outputs. Records
// of each cluster are collected into roaring bitmaps and visited in
// ascending record order, so floating point sums are reproducible.
package validity
