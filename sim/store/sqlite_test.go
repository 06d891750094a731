package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ghostsim/ghostsim/sim"
)

func TestStore_SaveRun_RoundTripsResultsAndConfig(t *testing.T) {
	ctx := context.Background()

	// GIVEN a fresh database and a finished run
	s, err := Open(ctx, filepath.Join(t.TempDir(), "runs", "ghostsim.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	cfg := sim.DefaultSimConfig()
	cfg.Seed = 7
	cfg.Policy = sim.PolicyFreqBirth
	cfg.NumPopulations = 3
	results := []sim.PopulationResult{
		{Size: 500, Altruists: 250, Frequency: 0.5},
		{Size: 0, Altruists: 0, Frequency: 0},
		{Size: 4, Altruists: 1, Frequency: 0.25},
	}

	// WHEN the run is saved and read back
	runID, err := s.SaveRun(ctx, cfg, results)
	require.NoError(t, err)

	got, err := s.Results(ctx, runID)
	require.NoError(t, err)
	rec, err := s.Run(ctx, runID)
	require.NoError(t, err)

	// THEN the table and metadata match what was stored
	assert.Equal(t, results, got)
	assert.Equal(t, runID, rec.ID)
	assert.Equal(t, int64(7), rec.Seed)
	assert.Equal(t, "freq-birth", rec.Policy)
	assert.Equal(t, 3, rec.Populations)
	assert.Equal(t, cfg, rec.Config)
}

func TestStore_SaveRun_SeparatesRuns(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "ghostsim.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	cfg := sim.DefaultSimConfig()
	first, err := s.SaveRun(ctx, cfg, []sim.PopulationResult{{Size: 1, Altruists: 1, Frequency: 1}})
	require.NoError(t, err)
	second, err := s.SaveRun(ctx, cfg, []sim.PopulationResult{{Size: 2, Altruists: 0, Frequency: 0}, {Size: 3, Altruists: 3, Frequency: 1}})
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	r1, err := s.Results(ctx, first)
	require.NoError(t, err)
	r2, err := s.Results(ctx, second)
	require.NoError(t, err)
	assert.Len(t, r1, 1)
	assert.Len(t, r2, 2)
}

func TestStore_Run_UnknownID_ReturnsError(t *testing.T) {
	ctx := context.Background()
	s, err := Open(ctx, filepath.Join(t.TempDir(), "ghostsim.db"))
	require.NoError(t, err)
	defer func() { _ = s.Close() }()

	_, err = s.Run(ctx, 42)
	assert.Error(t, err)
}
