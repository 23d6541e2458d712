package entropy

import (
	"math"
	"testing"

	"github.com/keyloom/keyloom/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScore(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		alphabetSize int
		wantBits     float64
		wantMaxBits  float64
		wantTier     domain.Tier
	}{
		{
			name:         "Single Distinct Character",
			key:          "aaaa",
			alphabetSize: 26,
			wantBits:     0,
			wantMaxBits:  math.Log2(26),
			wantTier:     domain.TierWeak,
		},
		{
			name:         "All Distinct Uniform",
			key:          "aB3!",
			alphabetSize: 88,
			wantBits:     2.0, // log2(4), independent of the alphabet size
			wantMaxBits:  math.Log2(88),
			wantTier:     domain.TierWeak,
		},
		{
			name:         "Uniform Over Small Alphabet",
			key:          "0123456789",
			alphabetSize: 10,
			wantBits:     math.Log2(10),
			wantMaxBits:  math.Log2(10),
			wantTier:     domain.TierStrong,
		},
		{
			name:         "Skewed Distribution",
			key:          "aab",
			alphabetSize: 4,
			wantBits:     -(2.0/3.0)*math.Log2(2.0/3.0) - (1.0/3.0)*math.Log2(1.0/3.0),
			wantMaxBits:  2.0,
			wantTier:     domain.TierWeak,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Score(tt.key, tt.alphabetSize)
			require.NoError(t, err)

			assert.InDelta(t, tt.wantBits, result.Bits, 1e-9)
			assert.InDelta(t, tt.wantMaxBits, result.MaxBits, 1e-9)
			assert.Equal(t, tt.wantTier, result.Tier)
			if result.MaxBits > 0 {
				assert.InDelta(t, result.Bits/result.MaxBits, result.Ratio, 1e-9)
			}
		})
	}
}

func TestScoreNumericCeiling(t *testing.T) {
	// modes={numeric}: maxEntropy = log2(10) ≈ 3.3219.
	result, err := Score("7093", 10)
	require.NoError(t, err)
	assert.InDelta(t, 3.3219, result.MaxBits, 1e-4)
}

func TestScoreEntropyBound(t *testing.T) {
	// 0 <= H <= log2(min(len, alphabetSize)) for any key.
	keys := []string{"a", "ab", "zzzzzz", "a1b2c3", "0123456789"}
	for _, key := range keys {
		result, err := Score(key, 62)
		require.NoError(t, err)

		bound := math.Log2(math.Min(float64(len(key)), 62))
		assert.GreaterOrEqual(t, result.Bits, 0.0, "key %q", key)
		assert.LessOrEqual(t, result.Bits, bound+1e-9, "key %q", key)
	}
}

func TestScoreEmptyInput(t *testing.T) {
	result, err := Score("", 10)
	assert.ErrorIs(t, err, domain.ErrEmptyInput)
	assert.Nil(t, result)
}

func TestScoreDegenerateAlphabet(t *testing.T) {
	result, err := Score("aaa", 1)
	require.NoError(t, err)
	assert.Zero(t, result.MaxBits)
	assert.Zero(t, result.Ratio)
	assert.Equal(t, domain.TierWeak, result.Tier)
}
