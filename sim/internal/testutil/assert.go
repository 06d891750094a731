// Package testutil provides shared test infrastructure for the ghostsim simulator.
// It holds the tolerance helpers used by the statistical tests in sim/ and its sub-packages.
package testutil

import (
	"math"
	"testing"
)

// AssertFloat64Equal compares two float64 values with relative tolerance.
func AssertFloat64Equal(t *testing.T, name string, want, got, relTol float64) {
	t.Helper()
	if want == 0 && got == 0 {
		return
	}
	diff := math.Abs(want - got)
	maxVal := math.Max(math.Abs(want), math.Abs(got))
	if diff/maxVal > relTol {
		t.Errorf("%s: got %v, want %v (diff=%v, relDiff=%v)", name, got, want, diff, diff/maxVal)
	}
}

// AssertProportion checks that successes out of trials is within k standard
// errors of the expected probability p, using the binomial standard error.
func AssertProportion(t *testing.T, name string, p float64, successes, trials int, k float64) {
	t.Helper()
	if trials <= 0 {
		t.Fatalf("%s: no trials", name)
	}
	got := float64(successes) / float64(trials)
	se := math.Sqrt(p * (1 - p) / float64(trials))
	if se == 0 {
		if got != p {
			t.Errorf("%s: got %v, want exactly %v", name, got, p)
		}
		return
	}
	if z := math.Abs(got-p) / se; z > k {
		t.Errorf("%s: got %v, want %v ± %v·%v (z=%.2f)", name, got, p, k, se, z)
	}
}
