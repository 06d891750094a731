// Package sim provides the Monte Carlo engine for populations of altruists and non-altruists.
//
// # Reading Guide
//
// Start with these files to understand the simulation kernel:
//   - population.go: Population state and the in-migration, birth and loss mutators
//   - event.go: the rate-weighted event draw (in-migration | birth | loss)
//   - fission.go: splitting of populations that outgrow the fission size
//   - rates.go: constant and frequency-dependent rate policies
//   - simulator.go: the tick loop over all populations
//
// # Model
//
// Each population evolves independently. On every tick a population larger than
// the fission size keeps each of its individuals with probability 1/2 and loses
// the rest. Then one event is drawn with probability proportional to its rate:
// in-migration at the absolute rate phi, birth at n*b, and loss (death or
// out-migration) at n*(d+m). Newborns copy the type of a uniformly chosen
// parent; losses remove a uniformly chosen individual; an immigrant is an
// altruist with probability q.
//
// # Determinism
//
// Every population draws from its own RNG stream (rng.go), derived from the
// master seed and the population index. A run is therefore reproducible from
// its seed regardless of how many workers advance the populations.
//
// Sub-packages:
//   - sim/trace/: event-count recording
//   - sim/store/: SQLite results sink
package sim
