// Package accuracy models dynamic weapon accuracy: bloom accumulation
// and recovery, center-biased spread sampling, and zeroing compensation
// for projectile drop.
package accuracy

import "math/rand"

// Source supplies the raw randomness for spread sampling. Keeping it an
// interface makes every shot reproducible in tests: the production
// sampler is seeded explicitly, never from wall-clock time.
type Source interface {
	// Float64 returns a uniformly distributed value in [0, 1).
	Float64() float64
}

// seededSource implements Source over math/rand with an explicit seed.
type seededSource struct {
	rng *rand.Rand
}

// NewSeededSource returns a deterministic Source for the given seed.
//
// Postcondition: two sources built from the same seed produce identical
// value sequences.
func NewSeededSource(seed int64) Source {
	return &seededSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *seededSource) Float64() float64 {
	return s.rng.Float64()
}

// unit draws a value in [-1, 1) from src.
func unit(src Source) float64 {
	return src.Float64()*2 - 1
}
