package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound            = errors.New("resource not found")
	ErrAlreadyExists       = errors.New("resource already exists")
	ErrInvalidInput        = errors.New("invalid input")
	ErrBadRequest          = errors.New("bad request")
	ErrForeignKeyViolation = errors.New("referenced record does not exist")
	ErrInvalidTransition   = errors.New("invalid status transition")
	ErrInternal            = errors.New("internal error")
)

// Error codes returned to API clients
const (
	CodeNotFound      = "NOT_FOUND"
	CodeBadRequest    = "BAD_REQUEST"
	CodeInvalidInput  = "INVALID_INPUT"
	CodeConflict      = "CONFLICT"
	CodeInternalError = "INTERNAL_ERROR"

	// Collection synchronisation outcomes
	CodeNothingToSync       = "NOTHING_TO_SYNC"
	CodePendingConfirmation = "PENDING_CONFIRMATION"
	CodeTransactionReverted = "TRANSACTION_REVERTED"
	CodeEventNotFound       = "EVENT_NOT_FOUND"
	CodeUnknownError        = "UNKNOWN_ERROR"

	// Persistence conflicts, by constraint
	CodeSymbolConflict         = "SYMBOL_CONFLICT"
	CodeSymbolContractConflict = "SYMBOL_CONTRACT_CONFLICT"
	CodeForeignKeyViolation    = "FOREIGN_KEY_VIOLATION"
	CodeRecordNotFound         = "RECORD_NOT_FOUND"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "internal server error", err)
}

// SymbolConflict reports a symbol already used by another collection
func SymbolConflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeSymbolConflict, message, ErrAlreadyExists)
}

// SymbolContractConflict reports a symbol already used on the same smart contract
func SymbolContractConflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeSymbolContractConflict, message, ErrAlreadyExists)
}

// ForeignKeyViolation reports a missing artist or smart contract
func ForeignKeyViolation(message string) *AppError {
	return NewAppError(http.StatusUnprocessableEntity, CodeForeignKeyViolation, message, ErrForeignKeyViolation)
}

// RecordNotFound reports a write that targeted a missing row
func RecordNotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeRecordNotFound, message, ErrNotFound)
}

// InvalidTransition reports a status change that would move backwards
func InvalidTransition(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeBadRequest, message, ErrInvalidTransition)
}

// CodeOf returns the code carried by err, or "" when err is not an AppError
func CodeOf(err error) string {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Code
	}
	return ""
}
