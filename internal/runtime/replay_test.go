package runtime

import (
	"context"
	"testing"

	"github.com/keyloom/keyloom/internal/testutils"
	"github.com/keyloom/keyloom/pkg/alphabet"
	"github.com/keyloom/keyloom/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func generateFixed(t *testing.T, length int) *domain.GenerationResult {
	t.Helper()

	values := make([]int, length)
	for i := range values {
		values[i] = (i * 3) % 10
	}
	engine := NewEngine(alphabet.Default(), &testutils.ScriptedSource{Values: values})
	result, err := engine.Generate(context.Background(), domain.GenerationRequest{
		Modes:  []string{alphabet.ModeNumeric},
		Length: length,
	})
	require.NoError(t, err)
	return result
}

func TestSnapshotAtFullLogEqualsGeneratedTree(t *testing.T) {
	result := generateFixed(t, 6)

	tree, err := SnapshotAt(result.Steps, 6, len(result.Steps))
	require.NoError(t, err)

	assert.True(t, tree.Equal(result.Tree), "full replay must reproduce the generated tree")
	assert.Equal(t, result.Key, tree.Yield())
}

func TestSnapshotAtPartial(t *testing.T) {
	result := generateFixed(t, 5)

	for k := 0; k <= 5; k++ {
		tree, err := SnapshotAt(result.Steps, 5, k)
		require.NoError(t, err, "k=%d", k)

		assert.Equal(t, k, tree.Resolved(), "k=%d", k)
		assert.Equal(t, result.Key[:k], tree.Yield(), "k=%d", k)

		// Unrewritten positions stay nonterminal.
		for pos, idx := range tree.Positions() {
			node := tree.Nodes[idx]
			if pos < k {
				assert.Len(t, node.Children, 1)
			} else {
				assert.Empty(t, node.Children)
				assert.True(t, node.Nonterminal())
			}
		}
	}
}

func TestSnapshotAtRandomAccess(t *testing.T) {
	result := generateFixed(t, 8)

	// Jumping backwards and forwards must be order-independent: every call
	// is a fresh pure computation over the same log.
	for _, k := range []int{8, 2, 5, 0, 8, 1} {
		tree, err := SnapshotAt(result.Steps, 8, k)
		require.NoError(t, err)
		assert.Equal(t, result.Key[:k], tree.Yield())
	}
}

func TestSnapshotAtDeterministicReplay(t *testing.T) {
	result := generateFixed(t, 4)

	first, err := SnapshotAt(result.Steps, 4, 4)
	require.NoError(t, err)
	second, err := SnapshotAt(result.Steps, 4, 4)
	require.NoError(t, err)

	assert.True(t, first.Equal(second), "replay must be identical on every call")
}

func TestSnapshotAtErrors(t *testing.T) {
	result := generateFixed(t, 3)

	_, err := SnapshotAt(result.Steps, 3, -1)
	assert.ErrorIs(t, err, domain.ErrStepOutOfRange)

	_, err = SnapshotAt(result.Steps, 3, 4)
	assert.ErrorIs(t, err, domain.ErrStepOutOfRange)

	_, err = SnapshotAt(result.Steps, 0, 0)
	assert.ErrorIs(t, err, domain.ErrInvalidLength)

	// A corrupted log pointing outside the tree is rejected.
	bad := []domain.Step{{Index: 0, Position: 9, AlphabetSize: 10, Char: "1"}}
	_, err = SnapshotAt(bad, 3, 1)
	assert.ErrorIs(t, err, domain.ErrStepOutOfRange)
}
