// Package entropy scores generated keys with a frequency-based Shannon
// entropy measure and a normalized quality tier.
package entropy

import (
	"math"

	"github.com/keyloom/keyloom/pkg/domain"
)

// Score computes the Shannon entropy of key, in bits, from its observed
// character frequencies: H = -sum(p_i * log2(p_i)) over the distinct
// characters present.
//
// The ceiling MaxBits is log2(alphabetSize), the entropy of a string whose
// positions are independently uniform over the full combined alphabet. The
// observed-distinct-character count is deliberately not used as the
// baseline: a key that only happened to use few characters still gets judged
// against the alphabet it was drawn from.
//
// Pure and stateless. Returns domain.ErrEmptyInput for an empty key, since
// an empty key is never a valid generation output.
func Score(key string, alphabetSize int) (*domain.EntropyResult, error) {
	if key == "" {
		return nil, domain.ErrEmptyInput
	}

	counts := make(map[rune]int)
	total := 0
	for _, c := range key {
		counts[c]++
		total++
	}

	bits := 0.0
	for _, n := range counts {
		p := float64(n) / float64(total)
		bits -= p * math.Log2(p)
	}

	maxBits := 0.0
	if alphabetSize > 1 {
		maxBits = math.Log2(float64(alphabetSize))
	}

	// A single-character alphabet has a zero ceiling; the ratio degenerates
	// to zero rather than dividing by it.
	ratio := 0.0
	if maxBits > 0 {
		ratio = bits / maxBits
	}

	return &domain.EntropyResult{
		Bits:    bits,
		MaxBits: maxBits,
		Ratio:   ratio,
		Tier:    domain.TierFor(ratio),
	}, nil
}
