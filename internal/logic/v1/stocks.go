package v1

import (
	"context"
	"fmt"
	"math"
	"strconv"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stocked/stocked/internal/core/domain"
	"github.com/stocked/stocked/middleware"
)

// StockService serves the read-only stocks listing.
type StockService struct {
	store domain.Store
}

// NewStockService creates a new StockService.
func NewStockService(store domain.Store) *StockService {
	return &StockService{store: store}
}

// List returns all stocks.
func (s *StockService) List(ctx context.Context) ([]domain.StockRow, error) {
	ctx, span := middleware.StartSpan(ctx, "stocks.list", trace.WithAttributes(
		attribute.String("layer", "logic"),
	))
	defer span.End()

	stocks, err := s.store.Stocks().List(ctx)
	if err != nil {
		span.RecordError(err)
		return nil, internalError("list stocks", err)
	}

	span.SetAttributes(attribute.Int("stocks.count", len(stocks)))
	return stocks, nil
}

// Get returns one stock by its raw id path segment. Ids outside the
// positive serial range are a client error, not a lookup miss.
func (s *StockService) Get(ctx context.Context, rawID string) (*domain.StockRow, error) {
	ctx, span := middleware.StartSpan(ctx, "stocks.get", trace.WithAttributes(
		attribute.String("layer", "logic"),
		attribute.String("stock.id", rawID),
	))
	defer span.End()

	// Parse wide first: an id that overflows int32 would also never be a
	// valid serial, and must not turn into a 500.
	id, err := strconv.ParseInt(rawID, 10, 64)
	if err != nil || id < 1 || id > math.MaxInt32 {
		return nil, WrapError(KindClientError, fmt.Errorf("stock id %q not in serial range", rawID))
	}

	stock, err := s.store.Stocks().Get(ctx, int32(id))
	if err != nil {
		span.RecordError(err)
		return nil, internalError("query stock", err)
	}
	if stock == nil {
		return nil, NewError(KindNotFound)
	}
	return stock, nil
}
