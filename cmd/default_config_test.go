package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghostsim/ghostsim/sim"
)

func writeParamFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "params.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadParamFile_AppliesOnlySetFields(t *testing.T) {
	// GIVEN a file that sets a few parameters
	path := writeParamFile(t, `
birth: 0.8
out_migration: 0.05
populations: 4
sim_type: freq-birth
seed: 11
`)

	// WHEN it is loaded and applied over the defaults
	pf, err := LoadParamFile(path)
	require.NoError(t, err)
	cfg := sim.DefaultSimConfig()
	pf.Apply(&cfg)

	// THEN set fields change and the rest keep their defaults
	assert.Equal(t, 0.8, cfg.Birth)
	assert.Equal(t, 0.05, cfg.OutMigration)
	assert.Equal(t, 4, cfg.NumPopulations)
	assert.Equal(t, sim.PolicyFreqBirth, cfg.Policy)
	assert.Equal(t, int64(11), cfg.Seed)
	assert.Equal(t, sim.DefaultDeath, cfg.Death)
	assert.Equal(t, int64(sim.DefaultFissionSize), cfg.FissionSize)
}

func TestLoadParamFile_NumericSimType(t *testing.T) {
	path := writeParamFile(t, "sim_type: 1\n")

	pf, err := LoadParamFile(path)
	require.NoError(t, err)
	require.NotNil(t, pf.SimType)
	assert.Equal(t, sim.PolicyFreqDeath, *pf.SimType)
}

func TestLoadParamFile_UnknownKey_ReturnsError(t *testing.T) {
	// GIVEN a typo in a key name
	path := writeParamFile(t, "birht: 0.8\n")

	// WHEN loaded
	_, err := LoadParamFile(path)

	// THEN strict parsing rejects it
	assert.Error(t, err)
}

func TestLoadParamFile_InvalidSimType_ReturnsError(t *testing.T) {
	path := writeParamFile(t, "sim_type: logistic\n")

	_, err := LoadParamFile(path)

	assert.Error(t, err)
}

func TestLoadParamFile_MissingFile_ReturnsError(t *testing.T) {
	_, err := LoadParamFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
