package trace

// TraceSummary aggregates statistics from a SimulationTrace.
type TraceSummary struct {
	TotalDraws          int64
	InMigrationFraction float64
	BirthFraction       float64
	LossFraction        float64
	IdleFraction        float64
	Fissions            int64
	RateExcursions      int64
	MaxFissions         int64 // most fissions seen in a single population (0 without per-population data)
	MaxFissionsIndex    int   // index of that population, -1 if unknown
}

// Summarize computes aggregate statistics from a SimulationTrace.
// Safe for nil or empty traces (returns zero-value fields).
func Summarize(st *SimulationTrace) *TraceSummary {
	summary := &TraceSummary{MaxFissionsIndex: -1}
	if st == nil {
		return summary
	}

	c := st.Totals
	summary.TotalDraws = c.Draws()
	summary.Fissions = c.Fissions
	summary.RateExcursions = c.RateExcursions
	if summary.TotalDraws > 0 {
		total := float64(summary.TotalDraws)
		summary.InMigrationFraction = float64(c.InMigrations) / total
		summary.BirthFraction = float64(c.Births) / total
		summary.LossFraction = float64(c.Losses) / total
		summary.IdleFraction = float64(c.Idle) / total
	}

	for i, pc := range st.PerPopulation {
		if pc.Fissions > summary.MaxFissions {
			summary.MaxFissions = pc.Fissions
			summary.MaxFissionsIndex = i
		}
	}

	return summary
}
