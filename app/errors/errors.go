package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode identifies the outcome kind of a failed operation.
type ErrorCode string

const (
	ErrCodeInvalidInput       ErrorCode = "INVALID_INPUT"
	ErrCodeUsernameTaken      ErrorCode = "USERNAME_TAKEN"
	ErrCodeEmailTaken         ErrorCode = "EMAIL_TAKEN"
	ErrCodePersistenceFailed  ErrorCode = "PERSISTENCE_FAILED"
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	ErrCodeUnauthorized       ErrorCode = "UNAUTHORIZED"
	ErrCodeInternal           ErrorCode = "INTERNAL_ERROR"
)

// AppError is an application error carrying an outcome code and the HTTP
// status it maps to. Nothing below the workflow layer returns one; the
// workflow converts storage, hashing, and token errors into these.
type AppError struct {
	Code    ErrorCode
	Message string
	Err     error
	Status  int
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// NewInvalidInput creates a new "invalid input" error
func NewInvalidInput(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInvalidInput,
		Message: message,
		Status:  http.StatusBadRequest,
	}
}

// NewUsernameTaken reports a signup against an already-registered username.
func NewUsernameTaken(username string) *AppError {
	return &AppError{
		Code:    ErrCodeUsernameTaken,
		Message: fmt.Sprintf("username %q is already taken", username),
		Status:  http.StatusBadRequest,
	}
}

// NewEmailTaken reports a signup against an already-registered email.
func NewEmailTaken(email string) *AppError {
	return &AppError{
		Code:    ErrCodeEmailTaken,
		Message: fmt.Sprintf("email %q is already registered", email),
		Status:  http.StatusBadRequest,
	}
}

// NewPersistenceFailed wraps a storage failure that is not a classified
// uniqueness violation.
func NewPersistenceFailed(err error) *AppError {
	return &AppError{
		Code:    ErrCodePersistenceFailed,
		Message: "could not save account",
		Err:     err,
		Status:  http.StatusBadRequest,
	}
}

// NewInvalidCredentials covers both unknown username and wrong password so
// the response does not reveal which one failed.
func NewInvalidCredentials() *AppError {
	return &AppError{
		Code:    ErrCodeInvalidCredentials,
		Message: "invalid username or password",
		Status:  http.StatusUnauthorized,
	}
}

// NewUnauthorized creates a new "unauthorized" error
func NewUnauthorized(message string) *AppError {
	return &AppError{
		Code:    ErrCodeUnauthorized,
		Message: message,
		Status:  http.StatusUnauthorized,
	}
}

// NewInternal creates a new "internal server" error
func NewInternal(message string) *AppError {
	return &AppError{
		Code:    ErrCodeInternal,
		Message: message,
		Status:  http.StatusInternalServerError,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(err error, code ErrorCode, message string, status int) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
		Status:  status,
	}
}
