package sim

import (
	"fmt"
	"math"
	"strconv"
)

// RatePolicy selects how birth and death rates respond to population size.
type RatePolicy int

const (
	// PolicyConstant keeps birth and death rates at their configured values.
	PolicyConstant RatePolicy = iota
	// PolicyFreqDeath recomputes the death rate as b * n / K before every draw.
	PolicyFreqDeath
	// PolicyFreqBirth recomputes the birth rate as 1 - (n / K) * (1 - d) before every draw.
	PolicyFreqBirth
)

var ratePolicyNames = map[RatePolicy]string{
	PolicyConstant:  "constant",
	PolicyFreqDeath: "freq-death",
	PolicyFreqBirth: "freq-birth",
}

// String returns the policy name used in config files and logs.
func (p RatePolicy) String() string {
	if name, ok := ratePolicyNames[p]; ok {
		return name
	}
	return fmt.Sprintf("RatePolicy(%d)", int(p))
}

// IsValid reports whether p is one of the known policies.
func (p RatePolicy) IsValid() bool {
	_, ok := ratePolicyNames[p]
	return ok
}

// IsFrequencyDependent reports whether p recomputes rates from population size.
func (p RatePolicy) IsFrequencyDependent() bool {
	return p == PolicyFreqDeath || p == PolicyFreqBirth
}

// ParseRatePolicy accepts either the numeric simulation type (0, 1, 2) or the policy name.
func ParseRatePolicy(s string) (RatePolicy, error) {
	for p, name := range ratePolicyNames {
		if name == s {
			return p, nil
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("unknown rate policy %q; valid: 0/constant, 1/freq-death, 2/freq-birth", s)
	}
	p := RatePolicy(n)
	if !p.IsValid() {
		return 0, fmt.Errorf("unknown rate policy %d; valid: 0/constant, 1/freq-death, 2/freq-birth", n)
	}
	return p, nil
}

// MarshalText implements encoding.TextMarshaler.
func (p RatePolicy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *RatePolicy) UnmarshalText(text []byte) error {
	parsed, err := ParseRatePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// RateConfig groups the event rates shared by every population in a run.
// It is a value type: rate policies return a modified copy, never mutate it.
type RateConfig struct {
	Birth              float64    // per-capita birth rate (b)
	Death              float64    // per-capita death rate (d)
	OutMigration       float64    // per-capita out-migration rate (m)
	InMigration        float64    // absolute in-migration rate (phi), independent of size
	ImmigrantAltruists float64    // probability that an immigrant is an altruist (q)
	CarryingCapacity   int64      // K, used by frequency-dependent policies
	FissionSize        int64      // populations larger than this fission (M)
	Policy             RatePolicy // rate policy for the whole run
}

// SimConfig is the full configuration of a simulation run.
type SimConfig struct {
	RateConfig
	Ticks            int64 // T: number of ticks; each tick applies one event to every population
	NumPopulations   int   // N: number of independent populations
	InitialSize      int64 // n0
	InitialAltruists int64 // a0
	Seed             int64 // master seed for the per-population RNG streams
	Workers          int   // goroutines used to advance populations (1 = sequential)
}

// Defaults for a simulation run.
const (
	DefaultBirth              = 1.0
	DefaultDeath              = 0.5
	DefaultOutMigration       = 0.01
	DefaultImmigrantAltruists = 0.5
	DefaultInitialSize        = 500
	DefaultInitialAltruists   = 250
	DefaultCarryingCapacity   = 1050
	DefaultFissionSize        = 1000
	DefaultTicks              = 100000
	DefaultNumPopulations     = 1000

	// inMigrationFactor scales m * M into the derived in-migration rate.
	inMigrationFactor = 0.75
)

// DefaultSimConfig returns the documented default configuration.
// InMigration is left at zero so Normalize derives it.
func DefaultSimConfig() SimConfig {
	return SimConfig{
		RateConfig: RateConfig{
			Birth:              DefaultBirth,
			Death:              DefaultDeath,
			OutMigration:       DefaultOutMigration,
			ImmigrantAltruists: DefaultImmigrantAltruists,
			CarryingCapacity:   DefaultCarryingCapacity,
			FissionSize:        DefaultFissionSize,
			Policy:             PolicyConstant,
		},
		Ticks:            DefaultTicks,
		NumPopulations:   DefaultNumPopulations,
		InitialSize:      DefaultInitialSize,
		InitialAltruists: DefaultInitialAltruists,
		Workers:          1,
	}
}

// DerivedInMigration returns the in-migration rate used when none is configured: m * M * 0.75.
func (rc RateConfig) DerivedInMigration() float64 {
	return rc.OutMigration * float64(rc.FissionSize) * inMigrationFactor
}

// Normalize fills derived fields. A non-positive InMigration is replaced by DerivedInMigration.
func (c *SimConfig) Normalize() {
	if c.InMigration <= 0 {
		c.InMigration = c.DerivedInMigration()
	}
	if c.Workers == 0 {
		c.Workers = 1
	}
}

// Validate checks the configuration before a run starts.
func (c *SimConfig) Validate() error {
	if err := c.RateConfig.Validate(); err != nil {
		return err
	}
	if c.Ticks < 0 {
		return fmt.Errorf("ticks must be non-negative, got %d", c.Ticks)
	}
	if c.NumPopulations <= 0 {
		return fmt.Errorf("populations must be positive, got %d", c.NumPopulations)
	}
	if c.InitialSize < 0 {
		return fmt.Errorf("initial size must be non-negative, got %d", c.InitialSize)
	}
	if c.InitialAltruists < 0 || c.InitialAltruists > c.InitialSize {
		return fmt.Errorf("initial altruists must be in [0, %d], got %d", c.InitialSize, c.InitialAltruists)
	}
	if c.Workers < 1 {
		return fmt.Errorf("workers must be at least 1, got %d", c.Workers)
	}
	return nil
}

// Validate checks that every rate is finite and non-negative and that the
// policy and size thresholds are usable.
func (rc RateConfig) Validate() error {
	rates := []struct {
		name string
		val  float64
	}{
		{"birth rate", rc.Birth},
		{"death rate", rc.Death},
		{"out-migration rate", rc.OutMigration},
		{"in-migration rate", rc.InMigration},
	}
	for _, r := range rates {
		if err := validateFiniteNonNegative(r.name, r.val); err != nil {
			return err
		}
	}
	if err := validateFiniteNonNegative("immigrant altruist fraction", rc.ImmigrantAltruists); err != nil {
		return err
	}
	if rc.ImmigrantAltruists > 1 {
		return fmt.Errorf("immigrant altruist fraction must be in [0, 1], got %f", rc.ImmigrantAltruists)
	}
	if rc.CarryingCapacity <= 0 {
		return fmt.Errorf("carrying capacity must be positive, got %d", rc.CarryingCapacity)
	}
	if rc.FissionSize <= 0 {
		return fmt.Errorf("fission size must be positive, got %d", rc.FissionSize)
	}
	if !rc.Policy.IsValid() {
		return fmt.Errorf("unknown rate policy %d; valid: 0/constant, 1/freq-death, 2/freq-birth", int(rc.Policy))
	}
	return nil
}

func validateFiniteNonNegative(name string, val float64) error {
	if math.IsNaN(val) || math.IsInf(val, 0) {
		return fmt.Errorf("%s must be a finite number, got %f", name, val)
	}
	if val < 0 {
		return fmt.Errorf("%s must be non-negative, got %f", name, val)
	}
	return nil
}
