package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/stocked/stocked/internal/core/domain"
)

const userColumns = `id, account_id, email, password_hash, balance, delta, created_at`

// PgxUserRepository implements domain.UserRepository.
type PgxUserRepository struct {
	q Querier
}

// NewUserRepository creates a new PgxUserRepository.
func NewUserRepository(q Querier) *PgxUserRepository {
	return &PgxUserRepository{q: q}
}

// GetByID returns the user with the given id.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByID(ctx context.Context, id int) (*domain.UserRow, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	return r.scanUser(r.q.QueryRow(ctx, query, id))
}

// GetByEmail returns the user matching the given email.
// Returns (nil, nil) when no user is found.
func (r *PgxUserRepository) GetByEmail(ctx context.Context, email string) (*domain.UserRow, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	return r.scanUser(r.q.QueryRow(ctx, query, email))
}

// EmailExists returns true when a user with the given email exists.
func (r *PgxUserRepository) EmailExists(ctx context.Context, email string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`

	var exists bool
	if err := r.q.QueryRow(ctx, query, email).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

// CreateWithAccount inserts a fresh account and a user referencing it.
// A duplicate email — including one that slips past the existence check and
// hits the unique constraint — is reported as domain.ErrEmailTaken.
func (r *PgxUserRepository) CreateWithAccount(ctx context.Context, email, passwordHash string) (*domain.UserRow, error) {
	var accountID int
	err := r.q.QueryRow(ctx, `INSERT INTO accounts DEFAULT VALUES RETURNING id`).Scan(&accountID)
	if err != nil {
		return nil, fmt.Errorf("insert account: %w", err)
	}

	query := `
		INSERT INTO users (account_id, email, password_hash)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	row, err := r.scanUser(r.q.QueryRow(ctx, query, accountID, email, passwordHash))
	if err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgerrcode.UniqueViolation {
			return nil, domain.ErrEmailTaken
		}
		return nil, fmt.Errorf("insert user: %w", err)
	}
	if row == nil {
		// RETURNING always yields a row on success.
		return nil, fmt.Errorf("insert user: no row returned")
	}
	return row, nil
}

func (r *PgxUserRepository) scanUser(row pgx.Row) (*domain.UserRow, error) {
	var u domain.UserRow
	err := row.Scan(
		&u.ID, &u.AccountID, &u.Email, &u.PasswordHash, &u.Balance, &u.Delta, &u.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &u, nil
}
