package service

import (
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"bank-ledger/internal/repository"
)

var (
	accountColumns     = []string{"id", "user_id", "balance", "created_at", "updated_at"}
	transactionColumns = []string{"id", "from_account_id", "to_account_id", "amount", "idempotency_key", "created_at"}
)

func newTestStore(t *testing.T) (*repository.Store, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	return repository.NewStore(db, logger), mock
}
