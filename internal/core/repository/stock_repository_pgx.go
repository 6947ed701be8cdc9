package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/stocked/stocked/internal/core/domain"
)

const stockColumns = `id, abbreviation, company, since, price, delta, last_update, created_at`

// PgxStockRepository implements domain.StockRepository.
type PgxStockRepository struct {
	q Querier
}

// NewStockRepository creates a new PgxStockRepository.
func NewStockRepository(q Querier) *PgxStockRepository {
	return &PgxStockRepository{q: q}
}

// List returns all stocks ordered by id.
func (r *PgxStockRepository) List(ctx context.Context) ([]domain.StockRow, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks ORDER BY id`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stocks []domain.StockRow
	for rows.Next() {
		var s domain.StockRow
		err := rows.Scan(
			&s.ID, &s.Abbreviation, &s.Company, &s.Since, &s.Price, &s.Delta, &s.LastUpdate, &s.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, s)
	}
	return stocks, rows.Err()
}

// Get returns the stock with the given id.
// Returns (nil, nil) when no stock is found.
func (r *PgxStockRepository) Get(ctx context.Context, id int32) (*domain.StockRow, error) {
	query := `SELECT ` + stockColumns + ` FROM stocks WHERE id = $1`

	var s domain.StockRow
	err := r.q.QueryRow(ctx, query, id).Scan(
		&s.ID, &s.Abbreviation, &s.Company, &s.Since, &s.Price, &s.Delta, &s.LastUpdate, &s.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}
	return &s, nil
}
