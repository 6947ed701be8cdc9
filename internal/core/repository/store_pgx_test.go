package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stocked/stocked/internal/core/domain"
	"github.com/stocked/stocked/internal/core/repository"
)

func TestPgxStore_WithTx(t *testing.T) {
	t.Run("commits when fn succeeds", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		token := uuid.New()
		expiresAt := time.Now().Add(time.Hour)

		mock.ExpectBegin()
		mock.ExpectExec(`INSERT INTO sessions`).
			WithArgs(token, 1, expiresAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		store := repository.NewStore(mock)
		err = store.WithTx(context.Background(), func(tx domain.Store) error {
			return tx.Sessions().Create(context.Background(), token, 1, expiresAt)
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when fn fails", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		mock.ExpectBegin()
		mock.ExpectRollback()

		store := repository.NewStore(mock)
		err = store.WithTx(context.Background(), func(domain.Store) error {
			return assert.AnError
		})
		assert.ErrorIs(t, err, assert.AnError)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("registration sequence runs in one transaction", func(t *testing.T) {
		mock, err := pgxmock.NewPool()
		require.NoError(t, err)
		defer mock.Close()

		token := uuid.New()
		expiresAt := time.Now().Add(time.Hour)

		mock.ExpectBegin()
		mock.ExpectQuery(`SELECT EXISTS`).
			WithArgs("new@example.com").
			WillReturnRows(pgxmock.NewRows([]string{"exists"}).AddRow(false))
		mock.ExpectQuery(`INSERT INTO accounts DEFAULT VALUES RETURNING id`).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(1))
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs(1, "new@example.com", "hash").
			WillReturnRows(userRow(1, "new@example.com"))
		mock.ExpectExec(`INSERT INTO sessions`).
			WithArgs(token, 1, expiresAt).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectCommit()

		store := repository.NewStore(mock)
		err = store.WithTx(context.Background(), func(tx domain.Store) error {
			ctx := context.Background()
			exists, err := tx.Users().EmailExists(ctx, "new@example.com")
			require.NoError(t, err)
			require.False(t, exists)

			user, err := tx.Users().CreateWithAccount(ctx, "new@example.com", "hash")
			require.NoError(t, err)

			return tx.Sessions().Create(ctx, token, user.ID, expiresAt)
		})
		require.NoError(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
