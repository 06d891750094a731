package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ghostsim/ghostsim/sim"
	"github.com/ghostsim/ghostsim/sim/store"
	"github.com/ghostsim/ghostsim/sim/trace"
)

var (
	// Transition rates
	birthRate          float64 // Per-capita birth rate (b)
	deathRate          float64 // Per-capita death rate (d)
	outMigrationRate   float64 // Per-capita out-migration rate (m)
	inMigrationRate    float64 // Absolute in-migration rate (phi); <= 0 derives m*M*0.75
	immigrantAltruists float64 // Probability that an immigrant is an altruist (q)

	// Constants
	fissionSize      int64  // Size above which a population fissions (M)
	carryingCapacity int64  // Carrying capacity for frequency-dependent rates (K)
	ticks            int64  // Number of ticks to simulate (T)
	numPopulations   int    // Number of populations to simulate (N)
	simType          string // Rate policy: 0/constant, 1/freq-death, 2/freq-birth

	// Initialisation
	initialSize      int64 // Initial size of each population (n0)
	initialAltruists int64 // Initial altruists in each population (a0)

	// Run control and output
	seed       int64  // Master seed for per-population RNG streams
	workers    int    // Goroutines advancing populations
	configPath string // Optional YAML parameter file
	outputPath string // CSV destination; stdout when empty
	summary    bool   // Print a run summary to stderr
	traceLevel string // Event trace level
	sqlitePath string // Optional SQLite results database
	logLevel   string // Log verbosity level
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "ghostsim",
	Short: "Monte Carlo simulator for altruist frequency in fissioning populations",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:     "run",
	Short:   "Run the population simulation and print the final n,a,p table",
	Long:    runLong,
	Example: runExample,
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		if !trace.IsValidTraceLevel(traceLevel) {
			logrus.Fatalf("Invalid trace level %q; valid: none, events, populations", traceLevel)
		}

		cfg, err := buildConfig(cmd)
		if err != nil {
			logrus.Fatalf("Invalid configuration: %v", err)
		}

		out := io.Writer(os.Stdout)
		if outputPath != "" {
			f, err := os.Create(outputPath)
			if err != nil {
				logrus.Fatalf("Failed to create output file: %v", err)
			}
			defer func() { _ = f.Close() }()
			out = f
		}

		opts := runOptions{traceLevel: trace.TraceLevel(traceLevel), summary: summary, sqlitePath: sqlitePath}
		if err := runSimulation(cmd.Context(), cfg, opts, out, os.Stderr); err != nil {
			logrus.Fatalf("Simulation failed: %v", err)
		}
	},
}

// runOptions groups the reporting switches of a run.
type runOptions struct {
	traceLevel trace.TraceLevel
	summary    bool
	sqlitePath string
}

// buildConfig merges defaults, the optional parameter file, and flags that
// were set explicitly, in that order of precedence, then normalizes and
// validates the result.
func buildConfig(cmd *cobra.Command) (sim.SimConfig, error) {
	cfg := sim.DefaultSimConfig()
	seedSet := false

	if configPath != "" {
		pf, err := LoadParamFile(configPath)
		if err != nil {
			return cfg, err
		}
		pf.Apply(&cfg)
		seedSet = pf.Seed != nil
	}

	flags := cmd.Flags()
	if flags.Changed("birth") {
		cfg.Birth = birthRate
	}
	if flags.Changed("death") {
		cfg.Death = deathRate
	}
	if flags.Changed("out-migration") {
		cfg.OutMigration = outMigrationRate
	}
	if flags.Changed("in-migration") {
		cfg.InMigration = inMigrationRate
	}
	if flags.Changed("altruist-immigrants") {
		cfg.ImmigrantAltruists = immigrantAltruists
	}
	if flags.Changed("fission-size") {
		cfg.FissionSize = fissionSize
	}
	if flags.Changed("carrying-capacity") {
		cfg.CarryingCapacity = carryingCapacity
	}
	if flags.Changed("ticks") {
		cfg.Ticks = ticks
	}
	if flags.Changed("populations") {
		cfg.NumPopulations = numPopulations
	}
	if flags.Changed("initial-size") {
		cfg.InitialSize = initialSize
	}
	if flags.Changed("initial-altruists") {
		cfg.InitialAltruists = initialAltruists
	}
	if flags.Changed("sim-type") {
		policy, err := sim.ParseRatePolicy(simType)
		if err != nil {
			return cfg, err
		}
		cfg.Policy = policy
	}
	if flags.Changed("workers") {
		cfg.Workers = workers
	}
	if flags.Changed("seed") {
		cfg.Seed = seed
		seedSet = true
	}
	if !seedSet {
		cfg.Seed = time.Now().UnixNano()
	}

	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// runSimulation runs cfg, writes the results table to out and the optional
// summary to report, and stores the run in SQLite when requested.
func runSimulation(ctx context.Context, cfg sim.SimConfig, opts runOptions, out, report io.Writer) error {
	if ctx == nil {
		ctx = context.Background()
	}

	var st *trace.SimulationTrace
	if opts.traceLevel != "" && opts.traceLevel != trace.TraceLevelNone {
		st = trace.NewSimulationTrace(trace.TraceConfig{Level: opts.traceLevel}, cfg.NumPopulations)
	}

	s, err := sim.NewSimulator(cfg, st)
	if err != nil {
		return err
	}

	logrus.Infof("Starting simulation: seed=%d, policy=%s, N=%d, T=%d, b=%g, d=%g, m=%g, phi=%g, q=%g, K=%d, M=%d",
		s.Config.Seed, s.Config.Policy, s.Config.NumPopulations, s.Config.Ticks,
		s.Config.Birth, s.Config.Death, s.Config.OutMigration, s.Config.InMigration,
		s.Config.ImmigrantAltruists, s.Config.CarryingCapacity, s.Config.FissionSize)

	startTime := time.Now()
	s.Run()
	logrus.Infof("Simulation complete in %s", time.Since(startTime).Round(time.Millisecond))

	results := s.Results()
	if err := sim.WriteResultsCSV(out, results); err != nil {
		return err
	}

	if opts.summary {
		sim.Summarize(results).Print(report)
	}

	if st != nil {
		ts := trace.Summarize(st)
		logrus.Infof("Events: draws=%d in-migration=%.4f birth=%.4f loss=%.4f idle=%.4f fissions=%d",
			ts.TotalDraws, ts.InMigrationFraction, ts.BirthFraction, ts.LossFraction, ts.IdleFraction, ts.Fissions)
		if ts.MaxFissionsIndex >= 0 {
			logrus.Infof("Most fissions: population %d (%d)", ts.MaxFissionsIndex, ts.MaxFissions)
		}
		if ts.RateExcursions > 0 {
			logrus.Warnf("%d event draws used a recomputed rate outside [0, 1]; rates are not clamped", ts.RateExcursions)
		}
	}

	if opts.sqlitePath != "" {
		db, err := store.Open(ctx, opts.sqlitePath)
		if err != nil {
			return fmt.Errorf("opening results database: %w", err)
		}
		defer func() { _ = db.Close() }()
		runID, err := db.SaveRun(ctx, s.Config, results)
		if err != nil {
			return fmt.Errorf("saving run: %w", err)
		}
		logrus.Infof("Saved run %d to %s", runID, db.Path())
	}
	return nil
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	// Transition rates
	runCmd.Flags().Float64VarP(&birthRate, "birth", "b", sim.DefaultBirth, "Birth rate (b * n)")
	runCmd.Flags().Float64VarP(&deathRate, "death", "d", sim.DefaultDeath, "Death rate (d * n)")
	runCmd.Flags().Float64VarP(&outMigrationRate, "out-migration", "m", sim.DefaultOutMigration, "Out-migration rate (m * n)")
	runCmd.Flags().Float64VarP(&inMigrationRate, "in-migration", "i", 0, "Absolute in-migration rate phi (<= 0: m*M*0.75)")
	runCmd.Flags().Float64VarP(&immigrantAltruists, "altruist-immigrants", "q", sim.DefaultImmigrantAltruists, "Probability that an immigrant is an altruist")

	// Constants
	runCmd.Flags().Int64VarP(&fissionSize, "fission-size", "M", sim.DefaultFissionSize, "Size above which a population fissions")
	runCmd.Flags().Int64VarP(&carryingCapacity, "carrying-capacity", "K", sim.DefaultCarryingCapacity, "Carrying capacity for frequency-dependent rates")
	runCmd.Flags().Int64VarP(&ticks, "ticks", "T", sim.DefaultTicks, "Number of ticks (events per population) to simulate")
	runCmd.Flags().IntVarP(&numPopulations, "populations", "N", sim.DefaultNumPopulations, "Number of populations to simulate")
	runCmd.Flags().StringVarP(&simType, "sim-type", "S", "0", "Rate policy: 0/constant, 1/freq-death, 2/freq-birth")

	// Initialisation
	runCmd.Flags().Int64VarP(&initialSize, "initial-size", "n", sim.DefaultInitialSize, "Initial size of each population")
	runCmd.Flags().Int64VarP(&initialAltruists, "initial-altruists", "a", sim.DefaultInitialAltruists, "Initial number of altruists in each population")

	// Run control and output
	runCmd.Flags().Int64Var(&seed, "seed", 0, "Master seed (default: current time)")
	runCmd.Flags().IntVar(&workers, "workers", 1, "Goroutines advancing populations; results do not depend on it")
	runCmd.Flags().StringVar(&configPath, "config", "", "YAML parameter file; explicit flags override it")
	runCmd.Flags().StringVar(&outputPath, "output", "", "Write the n,a,p table to this file instead of stdout")
	runCmd.Flags().BoolVar(&summary, "summary", false, "Print a run summary to stderr")
	runCmd.Flags().StringVar(&traceLevel, "trace", "none", "Event trace level (none, events, populations)")
	runCmd.Flags().StringVar(&sqlitePath, "sqlite", "", "Store the finished run in this SQLite database")
	runCmd.Flags().StringVar(&logLevel, "log", "warn", "Log level (trace, debug, info, warn, error, fatal, panic)")

	// Attach `run` as a subcommand to `root`
	rootCmd.AddCommand(runCmd)
}
