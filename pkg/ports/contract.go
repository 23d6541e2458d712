package ports

import (
	"context"
	"testing"
	"time"

	"github.com/keyloom/keyloom/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// RunStepStoreContract runs a suite of tests to verify that a StepStore
// implementation adheres to the defined interface contract.
func RunStepStoreContract(t *testing.T, store StepStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	rec := &domain.Recording{
		Length:       3,
		AlphabetSize: 10,
		Steps: []domain.Step{
			{Index: 0, Position: 0, AlphabetSize: 10, Char: "4"},
			{Index: 1, Position: 1, AlphabetSize: 10, Char: "0"},
			{Index: 2, Position: 2, AlphabetSize: 10, Char: "9"},
		},
	}

	t.Run("Save and Load", func(t *testing.T) {
		err := store.Save(ctx, sessionID, rec)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, rec.Length, loaded.Length)
		assert.Equal(t, rec.AlphabetSize, loaded.AlphabetSize)
		assert.Equal(t, rec.Steps, loaded.Steps)
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)

		// Mutating a loaded recording must not leak back into the store.
		loaded.Steps[0].Char = "tampered"

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "4", again.Steps[0].Char)
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, store.Save(ctx, sessionID, rec))

		err := store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})
}
