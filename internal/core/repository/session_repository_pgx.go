package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/stocked/stocked/internal/core/domain"
)

// PgxSessionRepository implements domain.SessionRepository.
type PgxSessionRepository struct {
	q Querier
}

// NewSessionRepository creates a new PgxSessionRepository.
func NewSessionRepository(q Querier) *PgxSessionRepository {
	return &PgxSessionRepository{q: q}
}

// Create inserts a new session for the given user.
func (r *PgxSessionRepository) Create(ctx context.Context, id uuid.UUID, userID int, expiresAt time.Time) error {
	query := `INSERT INTO sessions (id, user_id, expires_at) VALUES ($1, $2, $3)`
	_, err := r.q.Exec(ctx, query, id, userID, expiresAt)
	return err
}

// Get looks up a session by token.
// Returns (nil, nil) when the token does not match any session.
func (r *PgxSessionRepository) Get(ctx context.Context, id uuid.UUID) (*domain.SessionRow, error) {
	query := `SELECT id, user_id, created_at, expires_at FROM sessions WHERE id = $1`

	var row domain.SessionRow
	err := r.q.QueryRow(ctx, query, id).Scan(
		&row.ID, &row.UserID, &row.CreatedAt, &row.ExpiresAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &row, nil
}

// Delete removes the session with the given token.
func (r *PgxSessionRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `DELETE FROM sessions WHERE id = $1`
	_, err := r.q.Exec(ctx, query, id)
	return err
}
