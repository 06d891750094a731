package sim

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultSimConfig_DocumentedDefaults(t *testing.T) {
	cfg := DefaultSimConfig()

	assert.Equal(t, 1.0, cfg.Birth)
	assert.Equal(t, 0.5, cfg.Death)
	assert.Equal(t, 0.01, cfg.OutMigration)
	assert.Equal(t, 0.5, cfg.ImmigrantAltruists)
	assert.Equal(t, int64(1050), cfg.CarryingCapacity)
	assert.Equal(t, int64(1000), cfg.FissionSize)
	assert.Equal(t, int64(100000), cfg.Ticks)
	assert.Equal(t, 1000, cfg.NumPopulations)
	assert.Equal(t, int64(500), cfg.InitialSize)
	assert.Equal(t, int64(250), cfg.InitialAltruists)
	assert.Equal(t, PolicyConstant, cfg.Policy)
	assert.Equal(t, 1, cfg.Workers)
	assert.NoError(t, cfg.Validate())
}

func TestSimConfig_Normalize_DerivesInMigration(t *testing.T) {
	tests := []struct {
		name string
		phi  float64
		want float64
	}{
		{"unset derives m*M*0.75", 0, 7.5},
		{"negative derives m*M*0.75", -3, 7.5},
		{"positive is kept", 2.5, 2.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSimConfig()
			cfg.InMigration = tt.phi
			cfg.Normalize()
			assert.InDelta(t, tt.want, cfg.InMigration, 1e-12)
		})
	}
}

func TestSimConfig_Normalize_ZeroOutMigrationLeavesPhiZero(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.OutMigration = 0
	cfg.Normalize()
	assert.Equal(t, 0.0, cfg.InMigration)
}

func TestSimConfig_Validate_RejectsInvalidFields(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*SimConfig)
	}{
		{"negative birth", func(c *SimConfig) { c.Birth = -1 }},
		{"negative death", func(c *SimConfig) { c.Death = -0.1 }},
		{"NaN death", func(c *SimConfig) { c.Death = math.NaN() }},
		{"infinite out-migration", func(c *SimConfig) { c.OutMigration = math.Inf(1) }},
		{"negative in-migration", func(c *SimConfig) { c.InMigration = -2 }},
		{"q above one", func(c *SimConfig) { c.ImmigrantAltruists = 1.5 }},
		{"q negative", func(c *SimConfig) { c.ImmigrantAltruists = -0.5 }},
		{"zero carrying capacity", func(c *SimConfig) { c.CarryingCapacity = 0 }},
		{"zero fission size", func(c *SimConfig) { c.FissionSize = 0 }},
		{"unknown policy", func(c *SimConfig) { c.Policy = RatePolicy(7) }},
		{"negative ticks", func(c *SimConfig) { c.Ticks = -1 }},
		{"zero populations", func(c *SimConfig) { c.NumPopulations = 0 }},
		{"negative initial size", func(c *SimConfig) { c.InitialSize = -1; c.InitialAltruists = 0 }},
		{"negative initial altruists", func(c *SimConfig) { c.InitialAltruists = -1 }},
		{"more altruists than individuals", func(c *SimConfig) { c.InitialAltruists = 501 }},
		{"zero workers", func(c *SimConfig) { c.Workers = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultSimConfig()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestSimConfig_Validate_AcceptsBoundaryValues(t *testing.T) {
	cfg := DefaultSimConfig()
	cfg.Birth, cfg.Death, cfg.OutMigration, cfg.InMigration = 0, 0, 0, 0
	cfg.ImmigrantAltruists = 1
	cfg.Ticks = 0
	cfg.InitialSize, cfg.InitialAltruists = 0, 0
	assert.NoError(t, cfg.Validate())
}

func TestParseRatePolicy(t *testing.T) {
	tests := []struct {
		in   string
		want RatePolicy
	}{
		{"0", PolicyConstant},
		{"1", PolicyFreqDeath},
		{"2", PolicyFreqBirth},
		{"constant", PolicyConstant},
		{"freq-death", PolicyFreqDeath},
		{"freq-birth", PolicyFreqBirth},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseRatePolicy(tt.in)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"3", "-1", "logistic", ""} {
		_, err := ParseRatePolicy(bad)
		assert.Error(t, err, "ParseRatePolicy(%q)", bad)
	}
}

func TestRatePolicy_TextRoundTrip(t *testing.T) {
	for _, p := range []RatePolicy{PolicyConstant, PolicyFreqDeath, PolicyFreqBirth} {
		text, err := p.MarshalText()
		require.NoError(t, err)
		var got RatePolicy
		require.NoError(t, got.UnmarshalText(text))
		assert.Equal(t, p, got)
	}
	assert.Equal(t, "RatePolicy(9)", RatePolicy(9).String())
}

func TestRatePolicy_IsFrequencyDependent(t *testing.T) {
	assert.False(t, PolicyConstant.IsFrequencyDependent())
	assert.True(t, PolicyFreqDeath.IsFrequencyDependent())
	assert.True(t, PolicyFreqBirth.IsFrequencyDependent())
}
