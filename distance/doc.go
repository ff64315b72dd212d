// Package distance provides the float64 distance kernels shared by the
// evaluator, the driver and the validity calculator.
//
// # Usage
//
//	dist := distance.SquaredL2(a, b)
//	idx, best := distance.Nearest(record, centers, dim, distance.DefaultTieTolerance)
//
// Centers are stored row-major in a single slice: center j occupies
// centers[j*dim : (j+1)*dim].
package distance
