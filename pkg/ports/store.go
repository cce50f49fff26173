package ports

import (
	"context"

	"github.com/akilivoice/pathrag/pkg/domain"
)

// SessionStore defines the interface for persisting diagnostic sessions.
// Implementations are TTL-bounded key-value stores with at-most-once
// overwrite semantics; the engine treats them as eventually-consistent
// single-key storage.
type SessionStore interface {
	// Save persists the session under its id.
	Save(ctx context.Context, session *domain.DiagnosticSession) error

	// Load retrieves the session for the given id.
	// Returns domain.ErrSessionNotFound if the session does not exist.
	Load(ctx context.Context, sessionID string) (*domain.DiagnosticSession, error)

	// Delete removes the session.
	Delete(ctx context.Context, sessionID string) error

	// List returns the ids of live sessions.
	List(ctx context.Context) ([]string, error)
}
