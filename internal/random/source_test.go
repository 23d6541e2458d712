package random

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCryptoSourceBounds(t *testing.T) {
	src := NewCryptoSource()

	for range 256 {
		v, err := src.Intn(10)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, v, 0)
		assert.Less(t, v, 10)
	}

	// n=1 has only one possible outcome.
	v, err := src.Intn(1)
	require.NoError(t, err)
	assert.Equal(t, 0, v)
}

func TestCryptoSourceRejectsInvalidBound(t *testing.T) {
	src := NewCryptoSource()

	_, err := src.Intn(0)
	assert.Error(t, err)

	_, err = src.Intn(-3)
	assert.Error(t, err)
}
