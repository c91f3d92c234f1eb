package domain

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateEntity       = errors.New("duplicate entity")
	ErrInvalidReference      = errors.New("invalid reference")
	ErrInvalidInput          = errors.New("invalid input")
	ErrInvalidCredential     = errors.New("invalid email or password")
	ErrNotApproved           = errors.New("account not approved")
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrForbidden             = errors.New("forbidden")
	ErrInvalidState          = errors.New("invalid state")
	ErrNotFound              = errors.New("not found")
	ErrInvalidOrExpiredToken = errors.New("invalid or expired token")

	// ErrCodeTaken is returned when a generated college code hits the unique index.
	ErrCodeTaken = fmt.Errorf("%w: college code taken", ErrDuplicateEntity)
)

// ApprovalError is returned when a user authenticates but is not yet approved.
type ApprovalError struct {
	Status ApprovalStatus
	Reason string
}

func (e *ApprovalError) Error() string {
	if e.Status == StatusRejected {
		return "your account has been rejected"
	}
	return "your account is pending approval"
}

func (e *ApprovalError) Unwrap() error {
	return ErrNotApproved
}

// Error attaches a client-facing message to one of the error kinds above.
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }

func NewError(kind error, format string, args ...any) error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...)}
}

func Invalid(format string, args ...any) error {
	return NewError(ErrInvalidInput, format, args...)
}
