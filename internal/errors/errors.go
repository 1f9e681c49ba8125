package errors

import (
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	InvalidInput         ErrorCode = "invalid_input"
	InvalidAmount        ErrorCode = "invalid_amount"
	SameAccountTransfer  ErrorCode = "same_account_transfer"
	InsufficientFunds    ErrorCode = "insufficient_funds"
	AccountNotFound      ErrorCode = "account_not_found"
	UserNotFound         ErrorCode = "user_not_found"
	UsernameTaken        ErrorCode = "username_taken"
	DuplicateTransaction ErrorCode = "duplicate_transaction"
	Unauthorized         ErrorCode = "unauthorized"
	InternalError        ErrorCode = "internal_error"
)

type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Details string    `json:"details,omitempty"`
}

func (e AppError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func NewAppError(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

func NewAppErrorf(code ErrorCode, format string, args ...interface{}) *AppError {
	return &AppError{
		Code:    code,
		Message: fmt.Sprintf(format, args...),
	}
}

func (e *AppError) WithDetails(details string) *AppError {
	return &AppError{
		Code:    e.Code,
		Message: e.Message,
		Details: details,
	}
}

// HTTPStatus maps an error code to the response status. Validation
// failures are 400, ownership failures are indistinguishable from
// missing rows and map to 404.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case InvalidInput, InvalidAmount, SameAccountTransfer, InsufficientFunds:
		return http.StatusBadRequest
	case Unauthorized:
		return http.StatusUnauthorized
	case AccountNotFound, UserNotFound:
		return http.StatusNotFound
	case UsernameTaken, DuplicateTransaction:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// Predefined errors for common cases
var (
	ErrInvalidAmount          = NewAppError(InvalidAmount, "amount must be positive")
	ErrSameAccountTransfer    = NewAppError(SameAccountTransfer, "cannot transfer to the same account")
	ErrInsufficientFunds      = NewAppError(InsufficientFunds, "insufficient funds")
	ErrAccountNotFound        = NewAppError(AccountNotFound, "account not found")
	ErrUserNotFound           = NewAppError(UserNotFound, "user not found")
	ErrUsernameTaken          = NewAppError(UsernameTaken, "username already exists")
	ErrDuplicateTransaction   = NewAppError(DuplicateTransaction, "transaction already processed")
	ErrUnauthorized           = NewAppError(Unauthorized, "incorrect username or password")
	ErrCannotBeginTransaction = NewAppError(InternalError, "cannot begin transaction from within a transaction")
)
