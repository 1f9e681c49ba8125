package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Transaction is one immutable entry in the append-only money-movement
// log. A deposit has only ToAccountID set, a withdrawal only
// FromAccountID, a transfer both. Amount is always positive; direction
// is carried by which endpoint is populated.
type Transaction struct {
	ID             int64           `json:"id"`
	FromAccountID  *int64          `json:"from_account_id,omitempty"`
	ToAccountID    *int64          `json:"to_account_id,omitempty"`
	Amount         decimal.Decimal `json:"amount"`
	IdempotencyKey *uuid.UUID      `json:"idempotency_key,omitempty"`
	CreatedAt      time.Time       `json:"created_at"`
}

type TransactionRepository interface {
	RecordTransaction(tx *Transaction) error
	ListByAccount(accountID int64) ([]Transaction, error)
	GetByIdempotencyKey(key uuid.UUID, ownerID int64) (*Transaction, error)
}
