package domain

import (
	"context"
	"errors"
)

// ErrEmailTaken is returned by user creation when the email is already
// registered, including when the unique constraint fires at commit time.
var ErrEmailTaken = errors.New("email already taken")

// Store gives the Logic layer access to all repositories through one
// handle. Implementations live in internal/core/repository.
type Store interface {
	Users() UserRepository
	Sessions() SessionRepository
	Stocks() StockRepository

	// WithTx runs fn with a Store whose repositories are bound to a single
	// database transaction. The transaction commits when fn returns nil and
	// rolls back otherwise; partial writes are never observable.
	WithTx(ctx context.Context, fn func(Store) error) error
}
