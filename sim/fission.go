package sim

import (
	"math/bits"
	"math/rand"
)

// Fission splits p if it is larger than threshold: every individual is kept
// with probability 1/2, independently of the others and of its type. The
// individuals not kept leave the simulation; they do not form a new tracked
// population. Returns true if a fission happened.
func (p *Population) Fission(rng *rand.Rand, threshold int64) bool {
	if p.Size <= threshold {
		return false
	}
	keptAltruists := coinFlips(rng, p.Altruists)
	keptOthers := coinFlips(rng, p.Size-p.Altruists)
	p.Altruists = keptAltruists
	p.Size = keptAltruists + keptOthers
	return true
}

// coinFlips returns the number of heads in n fair coin flips, taking 64 flips
// from each Uint64 draw.
func coinFlips(rng *rand.Rand, n int64) int64 {
	var heads int64
	for ; n >= 64; n -= 64 {
		heads += int64(bits.OnesCount64(rng.Uint64()))
	}
	if n > 0 {
		mask := uint64(1)<<uint(n) - 1
		heads += int64(bits.OnesCount64(rng.Uint64() & mask))
	}
	return heads
}
