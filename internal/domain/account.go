package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Account struct {
	ID        int64           `json:"id"`
	OwnerID   int64           `json:"-"`
	Balance   decimal.Decimal `json:"balance"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"-"`
}

type AccountRepository interface {
	CreateAccount(ownerID int64) (*Account, error)
	// GetOwnedAccount returns the account only when it exists and belongs
	// to ownerID; a missing account and a foreign one are the same error.
	GetOwnedAccount(id, ownerID int64) (*Account, error)
	ListOwnedAccounts(ownerID int64) ([]Account, error)
	// LockAccount takes a row lock on the account for the duration of the
	// enclosing transaction.
	LockAccount(id int64) (*Account, error)
	// ApplyBalanceDelta adds delta (which may be negative) to the balance
	// and returns the resulting balance. Non-negativity is not enforced
	// here; the caller aborts the transaction if the result is below zero.
	ApplyBalanceDelta(id int64, delta decimal.Decimal) (decimal.Decimal, error)
}
