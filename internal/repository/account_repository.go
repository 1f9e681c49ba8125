package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
)

type accountRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewAccountRepository(db SQLExecutor, logger *slog.Logger) domain.AccountRepository {
	return &accountRepository{
		db:     db,
		logger: logger,
	}
}

func (r *accountRepository) CreateAccount(ownerID int64) (*domain.Account, error) {
	query := `
		INSERT INTO accounts (user_id, balance, created_at, updated_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	now := time.Now()
	account := &domain.Account{
		OwnerID:   ownerID,
		Balance:   decimal.Zero,
		CreatedAt: now,
		UpdatedAt: now,
	}

	err := r.db.QueryRow(query, ownerID, account.Balance.String(), now, now).Scan(&account.ID)
	if err != nil {
		r.logger.Error("Failed to create account", "owner_id", ownerID, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to create account").WithDetails(err.Error())
	}

	r.logger.Info("Account created successfully", "account_id", account.ID, "owner_id", ownerID)
	return account, nil
}

// GetOwnedAccount deliberately folds the ownership filter into the
// lookup: a foreign account scans as no rows, so callers cannot tell a
// missing account from someone else's.
func (r *accountRepository) GetOwnedAccount(id, ownerID int64) (*domain.Account, error) {
	query := `
		SELECT id, user_id, balance, created_at, updated_at
		FROM accounts WHERE id = $1 AND user_id = $2
	`

	return r.scanAccount(query, id, ownerID)
}

func (r *accountRepository) LockAccount(id int64) (*domain.Account, error) {
	query := `
		SELECT id, user_id, balance, created_at, updated_at
		FROM accounts WHERE id = $1 FOR UPDATE
	`

	return r.scanAccount(query, id)
}

func (r *accountRepository) scanAccount(query string, args ...interface{}) (*domain.Account, error) {
	var account domain.Account
	var balanceStr string

	err := r.db.QueryRow(query, args...).Scan(
		&account.ID,
		&account.OwnerID,
		&balanceStr,
		&account.CreatedAt,
		&account.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrAccountNotFound
		}
		r.logger.Error("Failed to get account", "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to get account").WithDetails(err.Error())
	}

	balance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		r.logger.Error("Failed to parse balance", "account_id", account.ID, "balance_str", balanceStr, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to parse balance").WithDetails(err.Error())
	}

	account.Balance = balance
	return &account, nil
}

func (r *accountRepository) ListOwnedAccounts(ownerID int64) ([]domain.Account, error) {
	query := `
		SELECT id, user_id, balance, created_at, updated_at
		FROM accounts
		WHERE user_id = $1
		ORDER BY created_at DESC, id DESC
	`

	rows, err := r.db.Query(query, ownerID)
	if err != nil {
		r.logger.Error("Failed to list accounts", "owner_id", ownerID, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to list accounts").WithDetails(err.Error())
	}
	defer rows.Close()

	accounts := []domain.Account{}
	for rows.Next() {
		var account domain.Account
		var balanceStr string

		if err := rows.Scan(
			&account.ID,
			&account.OwnerID,
			&balanceStr,
			&account.CreatedAt,
			&account.UpdatedAt,
		); err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to scan account").WithDetails(err.Error())
		}

		balance, err := decimal.NewFromString(balanceStr)
		if err != nil {
			return nil, errors.NewAppError(errors.InternalError, "failed to parse balance").WithDetails(err.Error())
		}
		account.Balance = balance

		accounts = append(accounts, account)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.NewAppError(errors.InternalError, "failed to list accounts").WithDetails(err.Error())
	}

	return accounts, nil
}

func (r *accountRepository) ApplyBalanceDelta(id int64, delta decimal.Decimal) (decimal.Decimal, error) {
	query := `
		UPDATE accounts
		SET balance = balance + $1, updated_at = $2
		WHERE id = $3
		RETURNING balance
	`

	var balanceStr string
	err := r.db.QueryRow(query, delta.String(), time.Now(), id).Scan(&balanceStr)
	if err != nil {
		if err == sql.ErrNoRows {
			r.logger.Warn("No account found to update", "account_id", id)
			return decimal.Zero, errors.ErrAccountNotFound
		}
		r.logger.Error("Failed to update account balance", "account_id", id, "error", err)
		return decimal.Zero, errors.NewAppError(errors.InternalError, "failed to update account balance").WithDetails(err.Error())
	}

	newBalance, err := decimal.NewFromString(balanceStr)
	if err != nil {
		return decimal.Zero, errors.NewAppError(errors.InternalError, "failed to parse balance").WithDetails(err.Error())
	}

	return newBalance, nil
}
