package service

import (
	"io"
	"log/slog"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bank-ledger/internal/auth"
	"bank-ledger/internal/errors"
)

var userColumns = []string{"id", "username", "password_hash", "created_at"}

func newUserService(t *testing.T) (*UserService, sqlmock.Sqlmock) {
	t.Helper()
	store, mock := newTestStore(t)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	tokens := auth.NewTokenManager("test-secret", time.Minute)
	return NewUserService(store, tokens, logger), mock
}

func TestRegister(t *testing.T) {
	t.Run("hashes the password and stores the user", func(t *testing.T) {
		svc, mock := newUserService(t)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users (username, password_hash, created_at) VALUES ($1, $2, $3) RETURNING id`)).
			WithArgs("alice", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(int64(7)))

		user, err := svc.Register("alice", "hunter2")
		require.NoError(t, err)

		assert.Equal(t, int64(7), user.ID)
		assert.NotEqual(t, "hunter2", user.PasswordHash)
		assert.True(t, auth.VerifyPassword("hunter2", user.PasswordHash))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("duplicate username", func(t *testing.T) {
		svc, mock := newUserService(t)

		mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO users`)).
			WithArgs("alice", sqlmock.AnyArg(), sqlmock.AnyArg()).
			WillReturnError(&pq.Error{Code: "23505"})

		_, err := svc.Register("alice", "hunter2")
		assert.Equal(t, errors.ErrUsernameTaken, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("blank credentials rejected", func(t *testing.T) {
		svc, mock := newUserService(t)

		for _, pair := range [][2]string{{"", "pw"}, {"alice", ""}, {"   ", "pw"}} {
			_, err := svc.Register(pair[0], pair[1])
			require.Error(t, err)
		}
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestLogin(t *testing.T) {
	hash, err := auth.HashPassword("hunter2")
	require.NoError(t, err)

	t.Run("issues a token the manager accepts", func(t *testing.T) {
		svc, mock := newUserService(t)

		mock.ExpectQuery(regexp.QuoteMeta(`SELECT id, username, password_hash, created_at FROM users WHERE username = $1`)).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(7), "alice", hash, time.Now()))

		token, err := svc.Login("alice", "hunter2")
		require.NoError(t, err)

		tokens := auth.NewTokenManager("test-secret", time.Minute)
		identity, err := tokens.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, int64(7), identity.UserID)
		assert.Equal(t, "alice", identity.Username)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("wrong password and unknown user fail identically", func(t *testing.T) {
		svc, mock := newUserService(t)

		mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE username = $1`)).
			WithArgs("alice").
			WillReturnRows(sqlmock.NewRows(userColumns).AddRow(int64(7), "alice", hash, time.Now()))
		mock.ExpectQuery(regexp.QuoteMeta(`FROM users WHERE username = $1`)).
			WithArgs("mallory").
			WillReturnRows(sqlmock.NewRows(userColumns))

		_, wrongPassword := svc.Login("alice", "nope")
		_, unknownUser := svc.Login("mallory", "nope")

		assert.Equal(t, errors.ErrUnauthorized, wrongPassword)
		assert.Equal(t, errors.ErrUnauthorized, unknownUser)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestUsernameExists(t *testing.T) {
	svc, mock := newUserService(t)

	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM users WHERE username = $1`)).
		WithArgs("alice").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	mock.ExpectQuery(regexp.QuoteMeta(`SELECT 1 FROM users WHERE username = $1`)).
		WithArgs("nobody").
		WillReturnRows(sqlmock.NewRows([]string{"?column?"}))

	exists, err := svc.UsernameExists("alice")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = svc.UsernameExists("nobody")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.NoError(t, mock.ExpectationsWereMet())
}
