package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// SessionRepository defines the data-access contract for session operations.
// Implementations live in internal/core/repository (Core layer).
type SessionRepository interface {
	// Create inserts a new session for the given user. The id is the bearer
	// token; callers generate it.
	Create(ctx context.Context, id uuid.UUID, userID int, expiresAt time.Time) error

	// Get looks up a session by token.
	// Returns (nil, nil) when the token does not match any session.
	Get(ctx context.Context, id uuid.UUID) (*SessionRow, error)

	// Delete removes the session with the given token. Deleting a session
	// that does not exist is not an error.
	Delete(ctx context.Context, id uuid.UUID) error
}
