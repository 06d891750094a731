package sim

// ForSize returns the rates in effect for one event draw on a population of
// the given size. Frequency-dependent policies recompute b or d from the
// configured base rates; the receiver is never modified, so no population
// sees a value left behind by another.
//
// The recomputed rate is not clamped. With size > K the frequency-dependent
// birth rate turns negative, and with size > K/b the frequency-dependent
// death rate exceeds 1. SelectEvent treats a negative interval as zero-width.
func (rc RateConfig) ForSize(size int64) RateConfig {
	switch rc.Policy {
	case PolicyFreqDeath:
		rc.Death = rc.Birth * (float64(size) / float64(rc.CarryingCapacity))
	case PolicyFreqBirth:
		rc.Birth = 1 - (float64(size)/float64(rc.CarryingCapacity))*(1-rc.Death)
	}
	return rc
}

// outOfUnitRange reports whether a recomputed birth or death rate left [0, 1].
func (rc RateConfig) outOfUnitRange() bool {
	switch rc.Policy {
	case PolicyFreqDeath:
		return rc.Death < 0 || rc.Death > 1
	case PolicyFreqBirth:
		return rc.Birth < 0 || rc.Birth > 1
	}
	return false
}
