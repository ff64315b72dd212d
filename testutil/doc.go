// Package testutil provides seeded data generators for lmbclust tests.
//
// This package is intended for use in tests and benchmarks only.
//
//	rng := testutil.NewRNG(seed)
//	ds := rng.Blobs(600, 3, 4, 0.5)   // 4 gaussian blobs in 3-D
//	ds := rng.Uniform(1000, 5)        // uniform [0, 1)^5
package testutil
