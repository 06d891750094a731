package cmd

import (
	"bytes"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/ghostsim/ghostsim/sim"
)

// ParamFile is the structure of a YAML parameter file passed with --config.
// Every field is optional; set fields override the built-in defaults and are
// in turn overridden by flags given explicitly on the command line.
type ParamFile struct {
	Birth              *float64        `yaml:"birth"`
	Death              *float64        `yaml:"death"`
	OutMigration       *float64        `yaml:"out_migration"`
	InMigration        *float64        `yaml:"in_migration"`
	ImmigrantAltruists *float64        `yaml:"altruist_immigrants"`
	InitialSize        *int64          `yaml:"initial_size"`
	InitialAltruists   *int64          `yaml:"initial_altruists"`
	CarryingCapacity   *int64          `yaml:"carrying_capacity"`
	FissionSize        *int64          `yaml:"fission_size"`
	Ticks              *int64          `yaml:"ticks"`
	Populations        *int            `yaml:"populations"`
	SimType            *sim.RatePolicy `yaml:"sim_type"` // 0/1/2 or constant/freq-death/freq-birth
	Seed               *int64          `yaml:"seed"`
	Workers            *int            `yaml:"workers"`
}

// LoadParamFile reads a YAML parameter file.
// Uses strict parsing: unrecognized keys (typos) are rejected.
func LoadParamFile(path string) (*ParamFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading parameter file: %w", err)
	}
	var pf ParamFile
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&pf); err != nil {
		return nil, fmt.Errorf("parsing parameter file %s: %w", path, err)
	}
	return &pf, nil
}

// Apply overlays every field set in the file onto cfg.
func (pf *ParamFile) Apply(cfg *sim.SimConfig) {
	setFloat(&cfg.Birth, pf.Birth)
	setFloat(&cfg.Death, pf.Death)
	setFloat(&cfg.OutMigration, pf.OutMigration)
	setFloat(&cfg.InMigration, pf.InMigration)
	setFloat(&cfg.ImmigrantAltruists, pf.ImmigrantAltruists)
	setInt64(&cfg.InitialSize, pf.InitialSize)
	setInt64(&cfg.InitialAltruists, pf.InitialAltruists)
	setInt64(&cfg.CarryingCapacity, pf.CarryingCapacity)
	setInt64(&cfg.FissionSize, pf.FissionSize)
	setInt64(&cfg.Ticks, pf.Ticks)
	setInt64(&cfg.Seed, pf.Seed)
	if pf.Populations != nil {
		cfg.NumPopulations = *pf.Populations
	}
	if pf.Workers != nil {
		cfg.Workers = *pf.Workers
	}
	if pf.SimType != nil {
		cfg.Policy = *pf.SimType
	}
}

func setFloat(dst *float64, src *float64) {
	if src != nil {
		*dst = *src
	}
}

func setInt64(dst *int64, src *int64) {
	if src != nil {
		*dst = *src
	}
}
