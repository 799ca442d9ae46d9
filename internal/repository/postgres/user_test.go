package postgres

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Adambhr/Socpanel/internal/domain"
)

func TestUserRepository_CreateUser(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "login", "password_hash", "created_at"}).
			AddRow(int64(1), "alice", "hashed", testTime())

		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("alice", "hashed").
			WillReturnRows(rows)

		user, err := repo.CreateUser(ctx, "alice", "hashed")
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)
		assert.Equal(t, "alice", user.Login)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Duplicate login", func(t *testing.T) {
		mock.ExpectQuery(`INSERT INTO users`).
			WithArgs("alice", "hashed").
			WillReturnError(&pgconn.PgError{Code: "23505"})

		user, err := repo.CreateUser(ctx, "alice", "hashed")
		assert.ErrorIs(t, err, domain.ErrUserExists)
		assert.Nil(t, user)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetUserByLogin(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "login", "password_hash", "created_at"}).
			AddRow(int64(1), "alice", "hashed", testTime())

		mock.ExpectQuery(`SELECT .+ FROM users`).
			WithArgs("alice").
			WillReturnRows(rows)

		user, err := repo.GetUserByLogin(ctx, "alice")
		require.NoError(t, err)
		assert.Equal(t, "alice", user.Login)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .+ FROM users`).
			WithArgs("bob").
			WillReturnError(pgx.ErrNoRows)

		user, err := repo.GetUserByLogin(ctx, "bob")
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.Nil(t, user)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUserRepository_GetUserByID(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	repo := NewUserRepository(mock)
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		rows := pgxmock.NewRows([]string{"id", "login", "password_hash", "created_at"}).
			AddRow(int64(1), "alice", "hashed", testTime())

		mock.ExpectQuery(`SELECT .+ FROM users`).
			WithArgs(int64(1)).
			WillReturnRows(rows)

		user, err := repo.GetUserByID(ctx, 1)
		require.NoError(t, err)
		assert.Equal(t, int64(1), user.ID)

		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("Not found", func(t *testing.T) {
		mock.ExpectQuery(`SELECT .+ FROM users`).
			WithArgs(int64(99)).
			WillReturnError(pgx.ErrNoRows)

		user, err := repo.GetUserByID(ctx, 99)
		assert.ErrorIs(t, err, domain.ErrUserNotFound)
		assert.Nil(t, user)

		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
