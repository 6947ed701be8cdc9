package domain

import "context"

// UserRepository defines the data-access contract for user operations.
// Implementations live in internal/core/repository (Core layer).
// The Logic layer depends on this interface only — never on SQL or pgx directly.
type UserRepository interface {
	// GetByID returns the user with the given id.
	// Returns (nil, nil) when no user is found.
	GetByID(ctx context.Context, id int) (*UserRow, error)

	// GetByEmail returns the user matching the given email.
	// The email is expected to be lowercased already.
	// Returns (nil, nil) when no user is found.
	GetByEmail(ctx context.Context, email string) (*UserRow, error)

	// EmailExists returns true when a user with the given email exists.
	EmailExists(ctx context.Context, email string) (bool, error)

	// CreateWithAccount inserts a fresh account and a user referencing it,
	// returning the inserted user row. A duplicate email is reported as
	// ErrEmailTaken. Combine with other writes via Store.WithTx.
	CreateWithAccount(ctx context.Context, email, passwordHash string) (*UserRow, error)
}
