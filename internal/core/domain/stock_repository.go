package domain

import "context"

// StockRepository defines read-only access to the stocks listing.
type StockRepository interface {
	// List returns all stocks.
	List(ctx context.Context) ([]StockRow, error)

	// Get returns the stock with the given id.
	// Returns (nil, nil) when no stock is found.
	Get(ctx context.Context, id int32) (*StockRow, error)
}
