package ports

import (
	"context"

	"github.com/keyloom/keyloom/pkg/domain"
)

// StepStore defines the interface for persisting captured derivations.
// It backs the stepwise replay surface: a client that wants to animate a
// derivation saves the recording under a session ID and pages through
// snapshots afterwards. Generated keys are never stored, only the step log
// needed to rebuild the tree.
type StepStore interface {
	// Save persists the recording for a given session ID.
	Save(ctx context.Context, sessionID string, rec *domain.Recording) error

	// Load retrieves the recording for a given session ID.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.Recording, error)

	// Delete removes the recording for a given session ID.
	Delete(ctx context.Context, sessionID string) error
}
