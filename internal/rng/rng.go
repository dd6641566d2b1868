// Package rng provides the seeded pseudo-random source used by the
// simulation engines. Sequences are fully determined by (seed, call order),
// so a run can be reproduced bit-for-bit by reusing the seed.
package rng

import (
	"math"
	"time"
)

const stateWords = 16

// Generator is a deterministic pseudo-random number generator built on a
// word array plus cursor (xorshift1024*-style). It is exclusively owned by
// one engine instance and is not safe for concurrent use; concurrent
// simulations need separately seeded instances.
type Generator struct {
	state  [stateWords]uint64
	cursor int
	seed   int64
}

// New creates a generator seeded with the given value.
func New(seed int64) *Generator {
	g := &Generator{}
	g.Reseed(seed)
	return g
}

// NewFromClock creates a generator with a time-derived seed. Used when the
// caller does not care about reproducibility.
func NewFromClock() *Generator {
	return New(time.Now().UnixNano())
}

// Seed returns the seed the generator was last seeded with.
func (g *Generator) Seed() int64 {
	return g.seed
}

// Reseed resets the generator state from the seed. Reseeding with the same
// value always produces the identical output sequence.
func (g *Generator) Reseed(seed int64) {
	g.seed = seed
	g.cursor = 0

	// Expand the seed into the word array with splitmix64 so that even
	// near-identical seeds produce uncorrelated states.
	s := uint64(seed)
	for i := 0; i < stateWords; i++ {
		s += 0x9E3779B97F4A7C15
		z := s
		z = (z ^ (z >> 30)) * 0xBF58476D1CE4E5B9
		z = (z ^ (z >> 27)) * 0x94D049BB133111EB
		g.state[i] = z ^ (z >> 31)
	}
}

// next advances the word array and returns the next 64-bit value.
func (g *Generator) next() uint64 {
	s0 := g.state[g.cursor]
	g.cursor = (g.cursor + 1) & (stateWords - 1)
	s1 := g.state[g.cursor]

	s1 ^= s1 << 31
	s1 ^= s1 >> 11
	s0 ^= s0 >> 30
	g.state[g.cursor] = s0 ^ s1

	return g.state[g.cursor] * 0x9E3779B97F4A7C13
}

// Uniform returns the next value in [0, 1).
func (g *Generator) Uniform() float64 {
	// Top 53 bits give a uniformly distributed double in [0,1).
	return float64(g.next()>>11) / (1 << 53)
}

// Normal returns a normally distributed value with the given mean and
// standard deviation via the Box-Muller transform. Two uniform draws are
// consumed and only the cosine deviate of the generated pair is kept; the
// sine deviate is discarded rather than cached for the next call.
func (g *Generator) Normal(mean, stdDev float64) float64 {
	u1 := g.Uniform()
	u2 := g.Uniform()
	if u1 == 0 {
		u1 = math.SmallestNonzeroFloat64
	}
	z := math.Sqrt(-2*math.Log(u1)) * math.Cos(2*math.Pi*u2)
	return mean + stdDev*z
}
