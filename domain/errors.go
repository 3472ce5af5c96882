package domain

import (
	"errors"
	"fmt"
)

// ErrorCode represents a semantic classification shared across transport layers.
type ErrorCode string

const (
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeInvalid      ErrorCode = "INVALID"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeRemote       ErrorCode = "REMOTE"
	ErrCodeBusy         ErrorCode = "BUSY"
	ErrCodeInternal     ErrorCode = "INTERNAL"
)

// Error represents a domain-level error.
type Error struct {
	Code    ErrorCode
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewError builds a domain error.
func NewError(code ErrorCode, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WrapError wraps an existing error with a domain classification.
func WrapError(code ErrorCode, message string, err error) *Error {
	return &Error{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// RemoteError classifies a failure reported by the store. The store's own
// message is kept verbatim so it can be shown to the user as-is.
func RemoteError(op string, err error) error {
	if err == nil {
		return nil
	}
	var dErr *Error
	if errors.As(err, &dErr) {
		return err
	}
	return &Error{Code: ErrCodeRemote, Message: err.Error(), Err: fmt.Errorf("%s: %w", op, err)}
}

// Common domain errors.
var (
	ErrProfileNotFound   = NewError(ErrCodeNotFound, "profile not found")
	ErrCategoryNotFound  = NewError(ErrCodeNotFound, "category not found")
	ErrGoalNotFound      = NewError(ErrCodeNotFound, "goal not found")
	ErrTaskNotFound      = NewError(ErrCodeNotFound, "task not found")
	ErrSessionNotFound   = NewError(ErrCodeNotFound, "session not found")
	ErrItemNotFound      = NewError(ErrCodeNotFound, "item not on board")
	ErrCategoryExists    = NewError(ErrCodeConflict, "category already exists")
	ErrEmptyTitle        = NewError(ErrCodeInvalid, "title must not be empty")
	ErrUnknownCategory   = NewError(ErrCodeInvalid, "category does not exist")
	ErrInvalidPayload    = NewError(ErrCodeInvalid, "invalid payload")
	ErrInvalidTransition = NewError(ErrCodeInvalid, "transition not available")
	ErrNotOwner          = NewError(ErrCodeForbidden, "only the owner may change this item")
	ErrUnauthorized      = NewError(ErrCodeUnauthorized, "unauthorized")
	ErrBusy              = NewError(ErrCodeBusy, "item has a request in flight")
	ErrBoardClosed       = NewError(ErrCodeInternal, "board closed")
)

// IsDomainError helps checking error codes.
func IsDomainError(err error, code ErrorCode) bool {
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Code == code
	}
	return false
}

// Message returns the user-facing text of err. Remote errors yield the store
// message unchanged.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var dErr *Error
	if errors.As(err, &dErr) {
		return dErr.Message
	}
	return err.Error()
}
