package ports

import (
	"gachasim/domain/core"
)

// RNGPort provides seeded random number generation for deterministic runs.
// Implementations derive independent streams from a base seed so that
// lifetime N produces identical draws whether runs execute serially or in
// parallel.
type RNGPort interface {
	// LifetimeStream returns the deterministic random stream for the
	// index-th lifetime of a run.
	LifetimeStream(index int) core.Rand
}
