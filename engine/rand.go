package engine

import (
	"math"
	"sync"

	"github.com/iti/rngstream"
)

var packageSeedOnce sync.Once

// SeedGlobal seeds the process-wide RngStream package generator exactly
// once. Every RandSource created afterward via NewRandSource is a
// deterministic function of this seed, so a run is reproducible given an
// identical seed even though each simulation object draws from its own,
// statistically independent substream — an improvement on the single shared
// generator of the original PRNG this replaces, without giving up
// reproducibility.
func SeedGlobal(seed int64) {
	packageSeedOnce.Do(func() {
		rngstream.SetPackageSeed([]uint64{
			uint64(seed), uint64(seed) + 1, uint64(seed) + 2,
			uint64(seed) + 3, uint64(seed) + 4, uint64(seed) + 5,
		})
	})
}

// RandSource wraps one named, independently-seeded rngstream.RngStream and
// exposes the sampling primitives the traffic and protocol layers need.
type RandSource struct {
	stream *rngstream.RngStream
}

// NewRandSource creates a substream identified by name. Two RandSources
// created with different names in the same process draw independent
// sequences; the same name always yields the same sequence for a given
// package seed.
func NewRandSource(name string) *RandSource {
	return &RandSource{stream: rngstream.New(name)}
}

// UniformReal01 draws from [0, 1], inclusive of both endpoints.
func (r *RandSource) UniformReal01() float64 {
	return r.stream.RandU01()
}

// UniformReal0x1 draws from [0, 1).
func (r *RandSource) UniformReal0x1() float64 {
	u := r.stream.RandU01()
	for u >= 1.0 {
		u = r.stream.RandU01()
	}
	return u
}

// UniformInt draws an integer uniformly from [lo, hi], inclusive.
func (r *RandSource) UniformInt(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	span := float64(hi-lo) + 1
	return lo + int(r.UniformReal0x1()*span)
}

// Exponential draws -ln(U) for U in (0, 1).
func (r *RandSource) Exponential() float64 {
	u := r.UniformReal0x1()
	// Reject the zero endpoint so ln never diverges; (0,1) matches the
	// original's exclusion of U=0 for this draw.
	for u <= 0 {
		u = r.UniformReal0x1()
	}
	return -math.Log(u)
}

// Pareto draws U^(-1/alpha) for U in (0, 1).
func (r *RandSource) Pareto(alpha float64) float64 {
	u := r.UniformReal0x1()
	for u <= 0 {
		u = r.UniformReal0x1()
	}
	return math.Pow(u, -1.0/alpha)
}
