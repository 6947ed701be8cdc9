package v1_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	v1 "github.com/stocked/stocked/internal/logic/v1"
)

func TestKindResponseMapping(t *testing.T) {
	tests := []struct {
		kind   v1.Kind
		status int
	}{
		{v1.KindMissingSessionCookie, http.StatusUnauthorized},
		{v1.KindInvalidSessionToken, http.StatusUnauthorized},
		{v1.KindMissingSession, http.StatusUnauthorized},
		{v1.KindSessionExpired, http.StatusUnauthorized},
		{v1.KindInvalidCredentials, http.StatusUnauthorized},
		{v1.KindPasswordRequirementsNotMet, http.StatusBadRequest},
		{v1.KindAlreadyAuthenticated, http.StatusBadRequest},
		{v1.KindClientError, http.StatusBadRequest},
		{v1.KindEmailTaken, http.StatusConflict},
		{v1.KindNotFound, http.StatusNotFound},
		{v1.KindInternal, http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			assert.Equal(t, tt.status, tt.kind.HTTPStatus())
			assert.NotEmpty(t, tt.kind.ClientMessage())
		})
	}
}

func TestErrorSourceChain(t *testing.T) {
	src := fmt.Errorf("pg: connection refused")
	err := v1.WrapError(v1.KindInvalidSessionToken, src)

	// The source stays reachable for logging...
	assert.ErrorIs(t, err, src)
	assert.Contains(t, err.Error(), "connection refused")

	// ...but never shapes the client message.
	assert.Equal(t, "Invalid session token", err.Kind().ClientMessage())
}

func TestErrorIsMatchesByKind(t *testing.T) {
	wrapped := v1.WrapError(v1.KindEmailTaken, errors.New("unique_violation"))
	assert.ErrorIs(t, wrapped, v1.NewError(v1.KindEmailTaken))
	assert.NotErrorIs(t, wrapped, v1.NewError(v1.KindInvalidCredentials))
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, v1.KindEmailTaken, v1.KindOf(v1.NewError(v1.KindEmailTaken)))

	// Wrapping in plain fmt errors keeps the classification.
	deep := fmt.Errorf("outer: %w", v1.NewError(v1.KindSessionExpired))
	assert.Equal(t, v1.KindSessionExpired, v1.KindOf(deep))

	// Anything unclassified is the internal catch-all.
	assert.Equal(t, v1.KindInternal, v1.KindOf(errors.New("boom")))
	assert.Equal(t, v1.KindInternal, v1.KindOf(nil))
}

func TestSessionExpiredErrorCarriesTimestamp(t *testing.T) {
	at := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	err := v1.SessionExpiredError(at)
	assert.Contains(t, err.Error(), "2024-03-01T12:00:00Z")
	assert.Equal(t, "Session expired", err.Kind().ClientMessage())
}
