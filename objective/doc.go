// Package objective evaluates the nonsmooth clustering function
//
//	f(c_1, ..., c_k) = sum_i min_j ||a_i - c_j||^2
//
// and one of its subgradients over all k*d center coordinates.
//
// # Determinism
//
// Records are processed in fixed-size blocks whose boundaries do not depend
// on the number of workers. Each block produces a partial value and gradient
// and the partials are summed in block order, so a run with eight workers is
// bit-identical to a run with one. Nearest-center ties resolve to the lowest
// center index (see distance.Nearest).
//
// # Distance Cache
//
// Between evaluations the optimizer often leaves some centers untouched
// (for example centers that own no records). The evaluator keeps an n x k
// cache of squared distances and only recomputes the columns of centers
// that moved. The cache memory is reserved through a resource.Controller;
// when the reservation fails the cache is skipped. Cached and recomputed
// distances are bit-identical, so the cache never changes results.
package objective
