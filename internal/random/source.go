// Package random provides the production randomness source for the engine.
package random

import (
	crand "crypto/rand"
	"fmt"
	"math/big"
)

// CryptoSource draws from the operating system's cryptographically secure
// generator via crypto/rand. It is stateless and safe for concurrent use;
// the underlying provider manages its own internal state.
type CryptoSource struct{}

// NewCryptoSource returns the OS-backed secure source.
func NewCryptoSource() CryptoSource {
	return CryptoSource{}
}

// Intn returns a uniformly distributed integer in [0, n).
// crypto/rand.Int performs rejection sampling internally, so there is no
// modulo bias regardless of n.
func (CryptoSource) Intn(n int) (int, error) {
	if n <= 0 {
		return 0, fmt.Errorf("random: invalid bound %d", n)
	}
	v, err := crand.Int(crand.Reader, big.NewInt(int64(n)))
	if err != nil {
		return 0, fmt.Errorf("random: read secure source: %w", err)
	}
	return int(v.Int64()), nil
}
