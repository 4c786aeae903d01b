// Package testutil provides testing utilities for skygo.
//
// This package is intended for use in tests and benchmarks only.
// It provides a seeded, thread-safe random number generator and helpers for
// generating synthetic sky positions.
//
// # Random Sky Positions
//
//	rng := testutil.NewRNG(seed)
//	ra, dec := rng.SkyPoint()            // uniform on the sphere
//	ra, dec = rng.SkyPointIn(40, 50, -10, 10)
package testutil
