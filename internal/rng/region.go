// Package rng provides a thin, region-local pseudorandom source. Each
// region owns exactly one Region, passed by reference through the call
// chain; no cross-region determinism is promised or attempted.
package rng

import (
	"math/rand"
)

// Region is a thread-local-equivalent PRNG wrapper, one per simulated
// region.
type Region struct {
	r *rand.Rand
}

// New seeds a new region-local source.
func New(seed int64) *Region {
	return &Region{r: rand.New(rand.NewSource(seed))}
}

// Intn returns a uniform int in [0, n).
func (g *Region) Intn(n int) int {
	return g.r.Intn(n)
}

// Float64 returns a uniform float64 in [0.0, 1.0).
func (g *Region) Float64() float64 {
	return g.r.Float64()
}

// Bernoulli reports a success with probability p (a trial succeeding).
func (g *Region) Bernoulli(p float64) bool {
	return g.r.Float64() < p
}

// Range returns a uniform int in [lo, hi], inclusive on both ends.
func (g *Region) Range(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	return lo + g.r.Intn(hi-lo+1)
}

// ChooseMultiple returns k distinct indices in [0, n) chosen without
// replacement, order unspecified. Panics if k > n.
func (g *Region) ChooseMultiple(n, k int) []int {
	if k > n {
		panic("rng: cannot choose more elements than available")
	}
	pool := make([]int, n)
	for i := range pool {
		pool[i] = i
	}
	g.r.Shuffle(n, func(i, j int) { pool[i], pool[j] = pool[j], pool[i] })
	return pool[:k]
}
