package trace

// TraceLevel controls the verbosity of event tracing.
type TraceLevel string

const (
	// TraceLevelNone disables tracing (zero overhead).
	TraceLevelNone TraceLevel = "none"
	// TraceLevelEvents captures run-wide event counts.
	TraceLevelEvents TraceLevel = "events"
	// TraceLevelPopulations captures event counts per population as well.
	TraceLevelPopulations TraceLevel = "populations"
)

// validTraceLevels maps accepted trace level strings.
var validTraceLevels = map[TraceLevel]bool{
	TraceLevelNone:        true,
	TraceLevelEvents:      true,
	TraceLevelPopulations: true,
	"":                    true, // empty defaults to none
}

// IsValidTraceLevel returns true if the given level string is a recognized trace level.
func IsValidTraceLevel(level string) bool {
	return validTraceLevels[TraceLevel(level)]
}

// TraceConfig controls trace collection behavior.
type TraceConfig struct {
	Level TraceLevel
}

// SimulationTrace collects event counts during a simulation run.
type SimulationTrace struct {
	Config        TraceConfig
	Totals        EventCounts
	PerPopulation []EventCounts // nil unless Level is TraceLevelPopulations
}

// NewSimulationTrace creates a SimulationTrace ready for recording.
// numPopulations sizes PerPopulation when per-population tracing is enabled.
func NewSimulationTrace(config TraceConfig, numPopulations int) *SimulationTrace {
	st := &SimulationTrace{Config: config}
	if config.Level == TraceLevelPopulations {
		st.PerPopulation = make([]EventCounts, numPopulations)
	}
	return st
}

// RecordPopulation adds the counts of population i to the trace.
// Concurrent calls must use distinct i and must not overlap with Totals reads.
func (st *SimulationTrace) RecordPopulation(i int, counts EventCounts) {
	if st.PerPopulation != nil {
		st.PerPopulation[i].Merge(counts)
	}
}

// RecordTotals adds counts to the run-wide totals.
func (st *SimulationTrace) RecordTotals(counts EventCounts) {
	st.Totals.Merge(counts)
}
