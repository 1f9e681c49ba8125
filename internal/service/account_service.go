package service

import (
	"log/slog"
	"strconv"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
	"bank-ledger/internal/repository"
)

type AccountService struct {
	store  *repository.Store
	logger *slog.Logger
}

func NewAccountService(store *repository.Store, logger *slog.Logger) *AccountService {
	return &AccountService{
		store:  store,
		logger: logger,
	}
}

// CreateAccount opens a zero-balance account owned by the caller.
func (s *AccountService) CreateAccount(caller *domain.Identity) (*domain.Account, error) {
	account, err := s.store.Account().CreateAccount(caller.UserID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Account opened", "account_id", account.ID, "owner_id", caller.UserID)
	return account, nil
}

func (s *AccountService) GetAccount(caller *domain.Identity, accountID string) (*domain.Account, error) {
	id, err := parseAccountID(accountID)
	if err != nil {
		return nil, err
	}

	return s.store.Account().GetOwnedAccount(id, caller.UserID)
}

// ListAccounts returns the caller's accounts newest first. Owning no
// accounts is an empty list, not an error.
func (s *AccountService) ListAccounts(caller *domain.Identity) ([]domain.Account, error) {
	return s.store.Account().ListOwnedAccounts(caller.UserID)
}

func parseAccountID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.NewAppError(errors.InvalidInput, "account ID must be a positive integer")
	}
	return id, nil
}
