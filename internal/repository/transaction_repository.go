package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
)

type transactionRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewTransactionRepository(db SQLExecutor, logger *slog.Logger) domain.TransactionRepository {
	return &transactionRepository{
		db:     db,
		logger: logger,
	}
}

func (r *transactionRepository) RecordTransaction(tx *domain.Transaction) error {
	query := `
		INSERT INTO transactions
		(from_account_id, to_account_id, amount, idempotency_key, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	now := time.Now()

	// Handle optional idempotency key
	var idempotencyKey interface{}
	if tx.IdempotencyKey != nil {
		idempotencyKey = *tx.IdempotencyKey
	} else {
		idempotencyKey = nil
	}

	err := r.db.QueryRow(
		query,
		nullableID(tx.FromAccountID),
		nullableID(tx.ToAccountID),
		tx.Amount.String(),
		idempotencyKey,
		now,
	).Scan(&tx.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				r.logger.Warn("Duplicate idempotency key", "idempotency_key", tx.IdempotencyKey)
				return errors.ErrDuplicateTransaction
			}
		}
		r.logger.Error("Failed to record transaction",
			"from_account_id", tx.FromAccountID,
			"to_account_id", tx.ToAccountID,
			"amount", tx.Amount,
			"error", err)
		return errors.NewAppError(errors.InternalError, "failed to record transaction").WithDetails(err.Error())
	}

	tx.CreatedAt = now
	r.logger.Info("Transaction recorded", "transaction_id", tx.ID)
	return nil
}

func nullableID(id *int64) interface{} {
	if id == nil {
		return nil
	}
	return *id
}

// ListByAccount returns entries where the account appears as either
// endpoint, newest first. Visibility is the caller's concern.
func (r *transactionRepository) ListByAccount(accountID int64) ([]domain.Transaction, error) {
	query := `
		SELECT id, from_account_id, to_account_id, amount, idempotency_key, created_at
		FROM transactions
		WHERE from_account_id = $1 OR to_account_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(query, accountID)
	if err != nil {
		r.logger.Error("Failed to list transactions", "account_id", accountID, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to list transactions").WithDetails(err.Error())
	}
	defer rows.Close()

	transactions := []domain.Transaction{}
	for rows.Next() {
		transaction, err := scanTransactionRow(rows.Scan)
		if err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to scan transaction").WithDetails(err.Error())
		}
		transactions = append(transactions, *transaction)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to list transactions").WithDetails(err.Error())
	}

	return transactions, nil
}

// GetByIdempotencyKey looks up a previously recorded transaction by its
// key, restricted to transactions touching an account the given user
// owns. A foreign key answers like a missing one.
func (r *transactionRepository) GetByIdempotencyKey(key uuid.UUID, ownerID int64) (*domain.Transaction, error) {
	query := `
		SELECT t.id, t.from_account_id, t.to_account_id, t.amount, t.idempotency_key, t.created_at
		FROM transactions t
		WHERE t.idempotency_key = $1
		AND EXISTS (
			SELECT 1 FROM accounts a
			WHERE a.user_id = $2 AND a.id IN (t.from_account_id, t.to_account_id)
		)
	`

	transaction, err := scanTransactionRow(r.db.QueryRow(query, key, ownerID).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		r.logger.Error("Failed to get transaction by idempotency key", "idempotency_key", key, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to get transaction").WithDetails(err.Error())
	}
	return transaction, nil
}

// scanTransactionRow scans one transaction row; sql.ErrNoRows passes
// through untouched so callers can map it.
func scanTransactionRow(scan func(...interface{}) error) (*domain.Transaction, error) {
	var transaction domain.Transaction
	var fromID, toID sql.NullInt64
	var amountStr string
	var idempotencyKey sql.NullString

	if err := scan(
		&transaction.ID,
		&fromID,
		&toID,
		&amountStr,
		&idempotencyKey,
		&transaction.CreatedAt,
	); err != nil {
		return nil, err
	}

	if fromID.Valid {
		transaction.FromAccountID = &fromID.Int64
	}
	if toID.Valid {
		transaction.ToAccountID = &toID.Int64
	}

	amount, err := decimal.NewFromString(amountStr)
	if err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to parse amount").WithDetails(err.Error())
	}
	transaction.Amount = amount

	if idempotencyKey.Valid {
		key, err := uuid.Parse(idempotencyKey.String)
		if err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to parse idempotency key").WithDetails(err.Error())
		}
		transaction.IdempotencyKey = &key
	}

	return &transaction, nil
}
