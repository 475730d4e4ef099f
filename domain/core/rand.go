package core

// Rand is the subset of math/rand.Rand the simulation draws from.
// Every randomized operation takes an explicit Rand so that runs are
// reproducible under a seeded source; nothing reads the process-global
// generator.
type Rand interface {
	// Intn returns a uniform integer in [0, n). Panics if n <= 0.
	Intn(n int) int
	// Float64 returns a uniform float in [0.0, 1.0).
	Float64() float64
}
