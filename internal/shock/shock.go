// Package shock provides the random draws consumed by the price path generators.
package shock

import (
	"math"
	"math/rand"
	"time"
)

// Source produces the random draws for one simulation run.
// A Source is not safe for concurrent use; each run owns its own.
type Source interface {
	// Normal returns a standard-normal variate.
	Normal() float64
	// Uniform returns a uniform variate in [0, 1).
	Uniform() float64
}

// BoxMuller draws normals with the Box-Muller transform over a seeded *rand.Rand.
type BoxMuller struct {
	rng  *rand.Rand
	seed int64
}

// New returns a deterministic source for the given seed.
func New(seed int64) *BoxMuller {
	return &BoxMuller{rng: rand.New(rand.NewSource(seed)), seed: seed}
}

// NewRandom returns a time-seeded source. The chosen seed is available via Seed.
func NewRandom() *BoxMuller {
	return New(time.Now().UnixNano())
}

// Seed returns the seed the source was created with.
func (b *BoxMuller) Seed() int64 {
	return b.seed
}

// Normal rejects zero uniforms so the logarithm stays finite.
func (b *BoxMuller) Normal() float64 {
	var u, v float64
	for u == 0 {
		u = b.rng.Float64()
	}
	for v == 0 {
		v = b.rng.Float64()
	}
	return math.Sqrt(-2.0*math.Log(u)) * math.Cos(2.0*math.Pi*v)
}

func (b *BoxMuller) Uniform() float64 {
	return b.rng.Float64()
}
