package sim

import (
	"errors"
	"math/rand"
)

// ErrEmptyPopulation is returned when a birth or loss is applied to a population with no individuals.
var ErrEmptyPopulation = errors.New("event requires a non-empty population")

// Population is the state of one simulated population.
// Invariant: 0 <= Altruists <= Size.
type Population struct {
	Size      int64 // total individuals
	Altruists int64 // altruist individuals
}

// NewPopulation creates a population with the given size and altruist count.
func NewPopulation(size, altruists int64) Population {
	return Population{Size: size, Altruists: altruists}
}

// AltruistFrequency returns Altruists / Size, or 0 for an empty population.
func (p Population) AltruistFrequency() float64 {
	if p.Size == 0 {
		return 0
	}
	return float64(p.Altruists) / float64(p.Size)
}

// Valid reports whether the altruist count is within [0, Size].
func (p Population) Valid() bool {
	return p.Size >= 0 && p.Altruists >= 0 && p.Altruists <= p.Size
}

// MigrateIn adds one immigrant, an altruist with probability q.
func (p *Population) MigrateIn(rng *rand.Rand, q float64) {
	if rng.Float64() < q {
		p.Altruists++
	}
	p.Size++
}

// Birth picks a uniformly random parent and adds a newborn of the parent's type.
func (p *Population) Birth(rng *rand.Rand) error {
	if p.Size == 0 {
		return ErrEmptyPopulation
	}
	if p.pickAltruist(rng) {
		p.Altruists++
	}
	p.Size++
	return nil
}

// Loss removes a uniformly random individual. Death and out-migration both
// resolve to a loss since they change the state identically.
func (p *Population) Loss(rng *rand.Rand) error {
	if p.Size == 0 {
		return ErrEmptyPopulation
	}
	if p.pickAltruist(rng) {
		p.Altruists--
	}
	p.Size--
	return nil
}

// pickAltruist draws an individual uniformly from [1, Size] and reports whether
// it falls in the altruist range [1, Altruists]. Int63n is unbiased for any Size.
func (p *Population) pickAltruist(rng *rand.Rand) bool {
	return rng.Int63n(p.Size) < p.Altruists
}
