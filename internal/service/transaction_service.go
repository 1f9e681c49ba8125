package service

import (
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
	"bank-ledger/internal/repository"
)

// TransactionService implements the money-movement protocol: every
// deposit, withdrawal, and transfer runs as one database transaction
// that either lands the balance change together with its log entry or
// leaves no trace at all.
type TransactionService struct {
	store  *repository.Store
	logger *slog.Logger
}

func NewTransactionService(store *repository.Store, logger *slog.Logger) *TransactionService {
	return &TransactionService{
		store:  store,
		logger: logger,
	}
}

type DepositRequest struct {
	AccountID      int64
	Amount         decimal.Decimal
	IdempotencyKey *uuid.UUID
}

type WithdrawalRequest struct {
	AccountID      int64
	Amount         decimal.Decimal
	IdempotencyKey *uuid.UUID
}

type TransferRequest struct {
	FromAccountID  int64
	ToAccountID    int64
	Amount         decimal.Decimal
	IdempotencyKey *uuid.UUID
}

func (s *TransactionService) Deposit(caller *domain.Identity, req *DepositRequest) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}

	if existing, err := s.findReplay(caller, req.IdempotencyKey); existing != nil || err != nil {
		return existing, err
	}

	transaction := &domain.Transaction{
		ToAccountID:    &req.AccountID,
		Amount:         req.Amount,
		IdempotencyKey: req.IdempotencyKey,
	}

	err := s.store.WithTransaction(func(ts *repository.Store) error {
		if err := lockOwnedAccount(ts, req.AccountID, caller); err != nil {
			return err
		}

		if _, err := ts.Account().ApplyBalanceDelta(req.AccountID, req.Amount); err != nil {
			return err
		}

		return ts.Transaction().RecordTransaction(transaction)
	})
	if err != nil {
		s.logger.Warn("Deposit rejected", "account_id", req.AccountID, "error", err)
		return nil, err
	}

	s.logger.Info("Deposit completed", "transaction_id", transaction.ID, "account_id", req.AccountID, "amount", req.Amount)
	return transaction, nil
}

func (s *TransactionService) Withdraw(caller *domain.Identity, req *WithdrawalRequest) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}

	if existing, err := s.findReplay(caller, req.IdempotencyKey); existing != nil || err != nil {
		return existing, err
	}

	transaction := &domain.Transaction{
		FromAccountID:  &req.AccountID,
		Amount:         req.Amount,
		IdempotencyKey: req.IdempotencyKey,
	}

	err := s.store.WithTransaction(func(ts *repository.Store) error {
		if err := lockOwnedAccount(ts, req.AccountID, caller); err != nil {
			return err
		}

		// Apply first, then check: the row lock guarantees the returned
		// balance already includes every committed concurrent withdrawal,
		// and returning an error here rolls the tentative write back.
		newBalance, err := ts.Account().ApplyBalanceDelta(req.AccountID, req.Amount.Neg())
		if err != nil {
			return err
		}
		if newBalance.IsNegative() {
			return errors.ErrInsufficientFunds
		}

		return ts.Transaction().RecordTransaction(transaction)
	})
	if err != nil {
		s.logger.Warn("Withdrawal rejected", "account_id", req.AccountID, "error", err)
		return nil, err
	}

	s.logger.Info("Withdrawal completed", "transaction_id", transaction.ID, "account_id", req.AccountID, "amount", req.Amount)
	return transaction, nil
}

func (s *TransactionService) Transfer(caller *domain.Identity, req *TransferRequest) (*domain.Transaction, error) {
	if !req.Amount.IsPositive() {
		return nil, errors.ErrInvalidAmount
	}
	if req.FromAccountID == req.ToAccountID {
		return nil, errors.ErrSameAccountTransfer
	}

	if existing, err := s.findReplay(caller, req.IdempotencyKey); existing != nil || err != nil {
		return existing, err
	}

	transaction := &domain.Transaction{
		FromAccountID:  &req.FromAccountID,
		ToAccountID:    &req.ToAccountID,
		Amount:         req.Amount,
		IdempotencyKey: req.IdempotencyKey,
	}

	err := s.store.WithTransaction(func(ts *repository.Store) error {
		// Lock both rows in ascending id order so opposite-direction
		// transfers cannot deadlock each other.
		accounts := make(map[int64]*domain.Account, 2)
		for _, id := range lockOrder(req.FromAccountID, req.ToAccountID) {
			account, err := ts.Account().LockAccount(id)
			if err != nil {
				return err
			}
			accounts[id] = account
		}

		// Only the source is ownership-checked; the destination may
		// belong to anyone.
		if accounts[req.FromAccountID].OwnerID != caller.UserID {
			return errors.ErrAccountNotFound
		}

		newBalance, err := ts.Account().ApplyBalanceDelta(req.FromAccountID, req.Amount.Neg())
		if err != nil {
			return err
		}
		if newBalance.IsNegative() {
			return errors.ErrInsufficientFunds
		}

		if _, err := ts.Account().ApplyBalanceDelta(req.ToAccountID, req.Amount); err != nil {
			return err
		}

		return ts.Transaction().RecordTransaction(transaction)
	})
	if err != nil {
		s.logger.Warn("Transfer rejected",
			"from_account_id", req.FromAccountID,
			"to_account_id", req.ToAccountID,
			"error", err)
		return nil, err
	}

	s.logger.Info("Transfer completed",
		"transaction_id", transaction.ID,
		"from_account_id", req.FromAccountID,
		"to_account_id", req.ToAccountID,
		"amount", req.Amount)
	return transaction, nil
}

// ListForAccount returns the account's history newest first. The
// visibility check runs first so a foreign account answers exactly like
// a missing one.
func (s *TransactionService) ListForAccount(caller *domain.Identity, accountID string) ([]domain.Transaction, error) {
	id, err := parseAccountID(accountID)
	if err != nil {
		return nil, err
	}

	if _, err := s.store.Account().GetOwnedAccount(id, caller.UserID); err != nil {
		return nil, err
	}

	return s.store.Transaction().ListByAccount(id)
}

// findReplay returns the previously recorded transaction when the
// client supplied an idempotency key it has used before. The lookup is
// scoped to accounts the caller owns, so a key copied from another user
// finds nothing and the request falls through to normal processing.
func (s *TransactionService) findReplay(caller *domain.Identity, key *uuid.UUID) (*domain.Transaction, error) {
	if key == nil {
		return nil, nil
	}

	existing, err := s.store.Transaction().GetByIdempotencyKey(*key, caller.UserID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		s.logger.Info("Returning existing transaction for idempotency key",
			"idempotency_key", *key,
			"transaction_id", existing.ID)
	}
	return existing, nil
}

func lockOwnedAccount(ts *repository.Store, accountID int64, caller *domain.Identity) error {
	account, err := ts.Account().LockAccount(accountID)
	if err != nil {
		return err
	}
	if account.OwnerID != caller.UserID {
		return errors.ErrAccountNotFound
	}
	return nil
}

func lockOrder(a, b int64) [2]int64 {
	if a < b {
		return [2]int64{a, b}
	}
	return [2]int64{b, a}
}
