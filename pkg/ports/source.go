package ports

// Source is the randomness capability injected into the engine.
//
// The engine calls Intn once per generated character. The production
// implementation reads from the operating system's cryptographically secure
// generator; substituting a non-secure generator there is a correctness
// defect, not a style choice, since the output is used as key material.
// Tests substitute a fixed, replayable source.
type Source interface {
	// Intn returns a uniformly distributed integer in [0, n). n must be > 0.
	Intn(n int) (int, error)
}
