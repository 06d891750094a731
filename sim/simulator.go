// sim/simulator.go
package sim

import (
	"fmt"
	"math/rand"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/ghostsim/ghostsim/sim/trace"
)

// progressSteps is how many progress lines a sequential run logs at debug level.
const progressSteps = 10

// Simulator holds the population collection and drives it through discrete ticks.
//
// On every tick each population, independently of the others:
//  1. fissions if it is larger than FissionSize,
//  2. refreshes its effective rates if the policy is frequency-dependent,
//  3. draws and applies one event.
type Simulator struct {
	Config      SimConfig
	Populations []Population
	// Trace receives event counts after Run or Step; nil disables tracing.
	Trace *trace.SimulationTrace
	// Clock is the number of ticks completed.
	Clock int64

	// rngs[i] is owned by population i, so results do not depend on worker count.
	rngs []*rand.Rand
}

// NewSimulator normalizes and validates cfg, then creates NumPopulations
// populations of (InitialSize, InitialAltruists) with their own RNG streams.
func NewSimulator(cfg SimConfig, tr *trace.SimulationTrace) (*Simulator, error) {
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid simulation config: %w", err)
	}

	partitioned := NewPartitionedRNG(NewSimulationKey(cfg.Seed))
	logrus.Debugf("Deriving %d population RNG streams from key %d", cfg.NumPopulations, partitioned.Key())
	pops := make([]Population, cfg.NumPopulations)
	rngs := make([]*rand.Rand, cfg.NumPopulations)
	for i := range pops {
		pops[i] = NewPopulation(cfg.InitialSize, cfg.InitialAltruists)
		rngs[i] = partitioned.ForPopulation(i)
	}

	return &Simulator{
		Config:      cfg,
		Populations: pops,
		Trace:       tr,
		rngs:        rngs,
	}, nil
}

// Run advances every population by Config.Ticks ticks.
// With Workers > 1 the populations are split into contiguous blocks, one goroutine each.
func (s *Simulator) Run() {
	n := len(s.Populations)
	counts := make([]trace.EventCounts, n)
	workers := min(s.Config.Workers, n)

	logrus.Debugf("Running %d populations for %d ticks on %d worker(s), policy=%s, phi=%g",
		n, s.Config.Ticks, max(workers, 1), s.Config.Policy, s.Config.InMigration)

	if workers <= 1 {
		s.runBlock(0, n, s.Config.Ticks, counts, true)
	} else {
		var wg sync.WaitGroup
		chunk := (n + workers - 1) / workers
		for lo := 0; lo < n; lo += chunk {
			hi := min(lo+chunk, n)
			wg.Add(1)
			go func() {
				defer wg.Done()
				s.runBlock(lo, hi, s.Config.Ticks, counts, false)
				logrus.Debugf("Populations [%d, %d) finished", lo, hi)
			}()
		}
		wg.Wait()
	}

	s.Clock += s.Config.Ticks
	s.recordTrace(counts)
}

// Step advances every population by a single tick, sequentially.
func (s *Simulator) Step() {
	counts := make([]trace.EventCounts, len(s.Populations))
	s.runBlock(0, len(s.Populations), 1, counts, false)
	s.Clock++
	s.recordTrace(counts)
}

// runBlock advances populations [lo, hi) by ticks ticks.
func (s *Simulator) runBlock(lo, hi int, ticks int64, counts []trace.EventCounts, logProgress bool) {
	progressEvery := ticks / progressSteps
	for t := int64(0); t < ticks; t++ {
		for i := lo; i < hi; i++ {
			s.tickPopulation(i, &counts[i])
		}
		if logProgress && progressEvery > 0 && (t+1)%progressEvery == 0 {
			logrus.Debugf("Tick %d/%d", t+1, ticks)
		}
	}
}

// tickPopulation applies fission, rate refresh and one event to population i.
func (s *Simulator) tickPopulation(i int, counts *trace.EventCounts) {
	p := &s.Populations[i]
	rng := s.rngs[i]

	if p.Fission(rng, s.Config.FissionSize) {
		counts.Fissions++
	}

	rates := s.Config.RateConfig
	if rates.Policy.IsFrequencyDependent() {
		rates = rates.ForSize(p.Size)
		if rates.outOfUnitRange() {
			counts.RateExcursions++
		}
	}

	kind, err := p.ApplyEvent(rng, rates)
	if err != nil {
		// SelectEvent never picks a zero-width interval, so this is a broken invariant.
		panic(fmt.Sprintf("population %d: %s event on %+v: %v", i, kind, *p, err))
	}
	countEvent(counts, kind)
}

func countEvent(c *trace.EventCounts, kind EventKind) {
	switch kind {
	case EventInMigration:
		c.InMigrations++
	case EventBirth:
		c.Births++
	case EventLoss:
		c.Losses++
	default:
		c.Idle++
	}
}

func (s *Simulator) recordTrace(counts []trace.EventCounts) {
	if s.Trace == nil {
		return
	}
	for i, c := range counts {
		s.Trace.RecordPopulation(i, c)
		s.Trace.RecordTotals(c)
	}
}
