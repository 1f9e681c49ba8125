package repository

import (
	"database/sql"
	"log/slog"
	"time"

	"github.com/lib/pq"

	"bank-ledger/internal/domain"
	"bank-ledger/internal/errors"
)

type userRepository struct {
	db     SQLExecutor
	logger *slog.Logger
}

func NewUserRepository(db SQLExecutor, logger *slog.Logger) domain.UserRepository {
	return &userRepository{
		db:     db,
		logger: logger,
	}
}

func (r *userRepository) CreateUser(user *domain.User) error {
	query := `
		INSERT INTO users (username, password_hash, created_at)
		VALUES ($1, $2, $3)
		RETURNING id
	`

	now := time.Now()
	err := r.db.QueryRow(query, user.Username, user.PasswordHash, now).Scan(&user.ID)

	if err != nil {
		if pqErr, ok := err.(*pq.Error); ok {
			if pqErr.Code == "23505" { // unique_violation
				r.logger.Warn("Duplicate registration attempt", "username", user.Username)
				return errors.ErrUsernameTaken
			}
		}
		r.logger.Error("Failed to create user", "username", user.Username, "error", err)
		return errors.NewAppError(errors.InternalError, "failed to create user").WithDetails(err.Error())
	}

	user.CreatedAt = now
	r.logger.Info("User created successfully", "user_id", user.ID, "username", user.Username)
	return nil
}

func (r *userRepository) GetUserByUsername(username string) (*domain.User, error) {
	query := `
		SELECT id, username, password_hash, created_at
		FROM users WHERE username = $1
	`

	var user domain.User
	err := r.db.QueryRow(query, username).Scan(
		&user.ID,
		&user.Username,
		&user.PasswordHash,
		&user.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, errors.ErrUserNotFound
		}
		r.logger.Error("Failed to get user", "username", username, "error", err)
		return nil, errors.NewAppError(errors.InternalError, "failed to get user").WithDetails(err.Error())
	}

	return &user, nil
}

func (r *userRepository) UsernameExists(username string) (bool, error) {
	query := `SELECT 1 FROM users WHERE username = $1`

	var one int
	err := r.db.QueryRow(query, username).Scan(&one)
	if err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		r.logger.Error("Failed to check username", "username", username, "error", err)
		return false, errors.NewAppError(errors.InternalError, "failed to check username").WithDetails(err.Error())
	}

	return true, nil
}
