// Package trace provides event-count recording for population simulations.
// This package has no dependencies on sim/ — it stores pure data types.
package trace

// EventCounts tallies what happened to one or more populations over a run.
type EventCounts struct {
	InMigrations   int64 // in-migration events
	Births         int64 // birth events
	Losses         int64 // death or out-migration events
	Idle           int64 // draws where every event interval had zero width
	Fissions       int64 // fissions applied before event draws
	RateExcursions int64 // draws made with a recomputed birth or death rate outside [0, 1]
}

// Draws returns the number of event draws recorded, idle draws included.
func (c EventCounts) Draws() int64 {
	return c.InMigrations + c.Births + c.Losses + c.Idle
}

// Merge adds other into c.
func (c *EventCounts) Merge(other EventCounts) {
	c.InMigrations += other.InMigrations
	c.Births += other.Births
	c.Losses += other.Losses
	c.Idle += other.Idle
	c.Fissions += other.Fissions
	c.RateExcursions += other.RateExcursions
}
