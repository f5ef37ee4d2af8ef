package core

import (
	"github.com/mdobak/go-xerrors"
	"github.com/siahsang/yatube/internal/data"
)

var (
	NoRecordFound             = data.NoRecordFound
	ErrDuplicateUsername      = data.ErrDuplicateUsername
	ErrDuplicateSlug          = data.ErrDuplicateSlug
	ErrAuthenticationRequired = xerrors.Message("Authentication required")
	ErrNotAuthor              = xerrors.Message("Only the author can edit this post")
	ErrInvalidCredentials     = xerrors.Message("Invalid username or password")
)

// ValidationError carries the per-field messages of a rejected command.
// Nothing is persisted when it is returned.
type ValidationError struct {
	Errors map[string]string
}

func (e *ValidationError) Error() string {
	return "validation failed"
}

func newValidationError(errors map[string]string) error {
	return &ValidationError{Errors: errors}
}
