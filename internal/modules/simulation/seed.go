package simulation

import (
	"math/rand/v2"
	"time"

	"github.com/aristath/fleetcost/internal/modules/costs"
)

// independentStream offsets the seed of the second vehicle under independent sampling
const independentStream = 0x6a09e667f3bcc909

// splitSeed derives a well-mixed child seed (SplitMix64 finalizer)
func splitSeed(seed, stream uint64) uint64 {
	z := seed + (stream+1)*0x9e3779b97f4a7c15
	z = (z ^ (z >> 30)) * 0xbf58476d1ce4e5b9
	z = (z ^ (z >> 27)) * 0x94d049bb133111eb
	return z ^ (z >> 31)
}

// maxDerivedSeed keeps time-derived seeds exact in JSON numbers
const maxDerivedSeed = 1<<53 - 1

// resolveSeed replaces 0 with a time-derived seed
func resolveSeed(seed uint64) uint64 {
	for seed == 0 {
		seed = splitSeed(uint64(time.Now().UnixNano()), 0) & maxDerivedSeed
	}
	return seed
}

// sourceFor returns the random source for one parameter key within one trial.
// Draws depend only on (seed, trial, key), never on scheduling or declaration order.
func sourceFor(seed uint64, trial int, key costs.Key) rand.Source {
	return rand.NewPCG(splitSeed(seed, uint64(trial)), uint64(key)+1)
}

// sampleOverrides draws every parameter for one trial
func sampleOverrides(params []Parameter, seed uint64, trial int) costs.Overrides {
	o := costs.NoOverrides
	for _, p := range params {
		o = o.With(p.Key, p.Sample(sourceFor(seed, trial, p.Key)))
	}
	return o
}
