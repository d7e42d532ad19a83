package engine

import "math/rand/v2"

// Random is the source of the engine's uniform draws.
type Random interface {
	// IntN returns a uniformly random integer in [0, n).
	IntN(n int) int
}

// NewRandom returns a PCG-backed source. A zero seed picks a random one.
func NewRandom(seed uint64) *rand.Rand {
	if seed == 0 {
		seed = rand.Uint64()
	}

	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15)) //nolint:gosec // Simulation only.
}
