package service

import (
	"log/slog"
	"strings"

	"bank-ledger/internal/auth"
	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
	"bank-ledger/internal/repository"
)

type UserService struct {
	store  *repository.Store
	tokens *auth.TokenManager
	logger *slog.Logger
}

func NewUserService(store *repository.Store, tokens *auth.TokenManager, logger *slog.Logger) *UserService {
	return &UserService{
		store:  store,
		tokens: tokens,
		logger: logger,
	}
}

func (s *UserService) Register(username, password string) (*domain.User, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, errors.NewAppError(errors.InvalidInput, "username and password are required")
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		s.logger.Error("Failed to hash password", "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to hash password").WithDetails(err.Error())
	}

	user := &domain.User{
		Username:     username,
		PasswordHash: hash,
	}

	if err := s.store.User().CreateUser(user); err != nil {
		return nil, err
	}

	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	return user, nil
}

// Login checks the credentials and issues a signed token. Unknown
// usernames and wrong passwords are indistinguishable to the caller,
// and both cost a bcrypt comparison.
func (s *UserService) Login(username, password string) (string, error) {
	user, err := s.store.User().GetUserByUsername(username)
	if err != nil {
		if appErr, ok := err.(*errors.AppError); ok && appErr.Code == errors.UserNotFound {
			auth.CompareDummy()
			return "", errors.ErrUnauthorized
		}
		return "", err
	}

	if !auth.VerifyPassword(password, user.PasswordHash) {
		return "", errors.ErrUnauthorized
	}

	token, err := s.tokens.GenerateToken(user)
	if err != nil {
		s.logger.Error("Failed to generate token", "user_id", user.ID, "error", err)
		return "", errors.NewAppError(errors.InternalError, "failed to generate token").WithDetails(err.Error())
	}

	return token, nil
}

func (s *UserService) UsernameExists(username string) (bool, error) {
	return s.store.User().UsernameExists(username)
}
