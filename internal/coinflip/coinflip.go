package coinflip

import (
	"math/rand"
	"time"
)

// New returns a source seeded with seed, or with the current time when seed
// is nil.
func New(seed *int64) *rand.Rand {
	if seed == nil {
		return rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	return rand.New(rand.NewSource(*seed))
}

// Flip is true with probability p.
func Flip(r *rand.Rand, p float64) bool {
	return r.Float64() < p
}

// Uniform draws from [lo, hi).
func Uniform(r *rand.Rand, lo, hi float64) float64 {
	return lo + (hi-lo)*r.Float64()
}

// Fraction truncates a uniform [lo, hi) share of n.
func Fraction(r *rand.Rand, n int64, lo, hi float64) int64 {
	return int64(float64(n) * Uniform(r, lo, hi))
}
