package sim

import (
	"fmt"
	"math/rand"
)

// EventKind is the category of event drawn for a population on one tick.
type EventKind int

const (
	// EventNone means every event interval had zero width (empty population, phi == 0).
	EventNone EventKind = iota
	// EventInMigration adds one immigrant.
	EventInMigration
	// EventBirth adds one newborn of a random parent's type.
	EventBirth
	// EventLoss removes one random individual (death or out-migration).
	EventLoss
)

// String returns a short name for the event kind.
func (k EventKind) String() string {
	switch k {
	case EventNone:
		return "none"
	case EventInMigration:
		return "in-migration"
	case EventBirth:
		return "birth"
	case EventLoss:
		return "loss"
	}
	return fmt.Sprintf("EventKind(%d)", int(k))
}

// EventWeights holds the widths of the three event intervals for one draw.
type EventWeights struct {
	InMigration float64 // phi
	Birth       float64 // size * b
	Loss        float64 // size * (d + m)
}

// Total returns the total event rate.
func (w EventWeights) Total() float64 {
	return w.InMigration + w.Birth + w.Loss
}

// WeightsFor computes the event interval widths for a population of the given
// size. The total is phi + n*(b+d+m) with the rates as given, so a negative
// birth rate (from an unclamped frequency-dependent policy) shrinks the total
// while its own interval has zero width. If that total is not positive, only
// the in-migration interval remains.
func WeightsFor(size int64, rates RateConfig) EventWeights {
	n := float64(size)
	phi := max(0, rates.InMigration)
	birth := max(0, n*rates.Birth)
	total := phi + n*(rates.Birth+rates.Death+rates.OutMigration)
	return EventWeights{
		InMigration: phi,
		Birth:       birth,
		Loss:        max(0, total-phi-birth),
	}
}

// SelectEvent maps a uniform draw u in [0, 1) onto the partition
// [0, phi) in-migration, [phi, phi+n*b) birth, [phi+n*b, total) loss.
// Returns EventNone if every interval is empty. A zero-width interval is never
// returned, so birth and loss cannot be chosen for an empty population.
func SelectEvent(u float64, w EventWeights) EventKind {
	total := w.Total()
	if total <= 0 {
		return EventNone
	}
	r := u * total
	if r < w.InMigration {
		return EventInMigration
	}
	if r < w.InMigration+w.Birth {
		return EventBirth
	}
	if w.Loss > 0 {
		return EventLoss
	}
	// r landed on total through rounding; fall back to the last non-empty interval.
	if w.Birth > 0 {
		return EventBirth
	}
	return EventInMigration
}

// ApplyEvent draws one event for p under the given rates and applies it.
func (p *Population) ApplyEvent(rng *rand.Rand, rates RateConfig) (EventKind, error) {
	kind := SelectEvent(rng.Float64(), WeightsFor(p.Size, rates))
	var err error
	switch kind {
	case EventInMigration:
		p.MigrateIn(rng, rates.ImmigrantAltruists)
	case EventBirth:
		err = p.Birth(rng)
	case EventLoss:
		err = p.Loss(rng)
	}
	return kind, err
}
