// Collects the final per-population state and reports it as a CSV table and a run summary.

package sim

import (
	"fmt"
	"io"
	"sort"

	"github.com/gocarina/gocsv"
	"gonum.org/v1/gonum/stat"
)

// PopulationResult is the final state of one population, one row of the results table.
type PopulationResult struct {
	Size      int64   `csv:"n" json:"n"`
	Altruists int64   `csv:"a" json:"a"`
	Frequency float64 `csv:"p" json:"p"` // Altruists / Size, 0 for an empty population
}

// Results returns the current state of every population, in population order.
func (s *Simulator) Results() []PopulationResult {
	results := make([]PopulationResult, len(s.Populations))
	for i, p := range s.Populations {
		results[i] = PopulationResult{
			Size:      p.Size,
			Altruists: p.Altruists,
			Frequency: p.AltruistFrequency(),
		}
	}
	return results
}

// WriteResultsCSV writes results as CSV with the header n,a,p.
func WriteResultsCSV(w io.Writer, results []PopulationResult) error {
	if err := gocsv.Marshal(results, w); err != nil {
		return fmt.Errorf("writing results CSV: %w", err)
	}
	return nil
}

// Summary aggregates the final population states of a run.
type Summary struct {
	Populations      int
	Extinct          int // populations with size 0
	TotalIndividuals int64
	TotalAltruists   int64
	MeanSize         float64
	StdDevSize       float64
	MeanFrequency    float64 // unweighted mean of per-population altruist frequency, extinct excluded
	StdDevFrequency  float64
	MedianFrequency  float64
	PooledFrequency  float64 // TotalAltruists / TotalIndividuals
}

// Summarize computes run-level statistics from per-population results.
// Standard deviations are 0 when fewer than two values are available.
func Summarize(results []PopulationResult) Summary {
	sm := Summary{Populations: len(results)}
	if len(results) == 0 {
		return sm
	}

	sizes := make([]float64, 0, len(results))
	freqs := make([]float64, 0, len(results))
	for _, r := range results {
		sizes = append(sizes, float64(r.Size))
		sm.TotalIndividuals += r.Size
		sm.TotalAltruists += r.Altruists
		if r.Size == 0 {
			sm.Extinct++
			continue
		}
		freqs = append(freqs, r.Frequency)
	}

	sm.MeanSize, sm.StdDevSize = meanStdDev(sizes)
	if len(freqs) > 0 {
		sm.MeanFrequency, sm.StdDevFrequency = meanStdDev(freqs)
		sort.Float64s(freqs)
		sm.MedianFrequency = stat.Quantile(0.5, stat.Empirical, freqs, nil)
	}
	if sm.TotalIndividuals > 0 {
		sm.PooledFrequency = float64(sm.TotalAltruists) / float64(sm.TotalIndividuals)
	}
	return sm
}

func meanStdDev(x []float64) (mean, std float64) {
	if len(x) < 2 {
		return stat.Mean(x, nil), 0
	}
	return stat.MeanStdDev(x, nil)
}

// Print writes the summary in a human-readable form.
func (sm Summary) Print(w io.Writer) {
	fmt.Fprintln(w, "=== Simulation Summary ===")
	fmt.Fprintf(w, "Populations          : %d\n", sm.Populations)
	fmt.Fprintf(w, "Extinct              : %d\n", sm.Extinct)
	fmt.Fprintf(w, "Total Individuals    : %d\n", sm.TotalIndividuals)
	fmt.Fprintf(w, "Total Altruists      : %d\n", sm.TotalAltruists)
	fmt.Fprintf(w, "Size (mean ± sd)     : %.2f ± %.2f\n", sm.MeanSize, sm.StdDevSize)
	fmt.Fprintf(w, "Altruist p (mean ± sd): %.4f ± %.4f\n", sm.MeanFrequency, sm.StdDevFrequency)
	fmt.Fprintf(w, "Altruist p (median)  : %.4f\n", sm.MedianFrequency)
	fmt.Fprintf(w, "Altruist p (pooled)  : %.4f\n", sm.PooledFrequency)
}
