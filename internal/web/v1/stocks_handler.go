package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/stocked/stocked/middleware"
)

// ListStocks handles GET /stocks.
func (h *Handler) ListStocks(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.stocks.list", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	stocks, err := h.stocks.List(ctx)
	if err != nil {
		span.RecordError(err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stocks)
}

// GetStock handles GET /stocks/:id.
func (h *Handler) GetStock(c *gin.Context) {
	ctx, span := middleware.StartSpan(c.Request.Context(), "http.stocks.get", trace.WithAttributes(
		attribute.String("layer", "web"),
		attribute.String("method", c.Request.Method),
		attribute.String("path", c.Request.URL.Path),
	))
	defer span.End()

	stock, err := h.stocks.Get(ctx, c.Param("id"))
	if err != nil {
		span.RecordError(err)
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, stock)
}
