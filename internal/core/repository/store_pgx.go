// Package repository implements the domain repositories on pgx.
package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stocked/stocked/internal/core/domain"
)

// Querier is the query surface shared by *pgxpool.Pool and pgx.Tx, so the
// same repository code runs inside and outside transactions.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// DB is a Querier that can open transactions. *pgxpool.Pool satisfies it.
type DB interface {
	Querier
	Begin(ctx context.Context) (pgx.Tx, error)
}

// PgxStore implements domain.Store on a pgx pool.
type PgxStore struct {
	db DB      // nil when this store is bound to a transaction
	q  Querier // pool, or the active transaction
}

// NewStore creates a PgxStore over the given pool.
func NewStore(db DB) *PgxStore {
	return &PgxStore{db: db, q: db}
}

// Users returns the user repository bound to this store's querier.
func (s *PgxStore) Users() domain.UserRepository {
	return &PgxUserRepository{q: s.q}
}

// Sessions returns the session repository bound to this store's querier.
func (s *PgxStore) Sessions() domain.SessionRepository {
	return &PgxSessionRepository{q: s.q}
}

// Stocks returns the stock repository bound to this store's querier.
func (s *PgxStore) Stocks() domain.StockRepository {
	return &PgxStockRepository{q: s.q}
}

// WithTx runs fn with a store bound to a single transaction. A nested call
// joins the transaction already in progress.
func (s *PgxStore) WithTx(ctx context.Context, fn func(domain.Store) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	// Rollback after a successful commit returns pgx.ErrTxClosed, which is fine.
	defer tx.Rollback(ctx) //nolint:errcheck

	if err := fn(&PgxStore{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
