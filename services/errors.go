package services

import "fmt"

// ValidationError reports a bad request, such as target person ids that
// are missing, inactive, or owned by someone else.
type ValidationError struct {
	Detail string
}

func (e *ValidationError) Error() string { return e.Detail }

// NewValidationError builds a ValidationError with a formatted detail.
func NewValidationError(format string, args ...interface{}) *ValidationError {
	return &ValidationError{Detail: fmt.Sprintf(format, args...)}
}

// ConflictError reports a uniqueness violation, such as a second
// watcher for the same (owner, group) pair.
type ConflictError struct {
	Detail string
}

func (e *ConflictError) Error() string { return e.Detail }

// NotFoundError reports a missing record.
type NotFoundError struct {
	Detail string
}

func (e *NotFoundError) Error() string { return e.Detail }

// ForbiddenError reports an ownership mismatch on a registry operation.
type ForbiddenError struct {
	Detail string
}

func (e *ForbiddenError) Error() string { return e.Detail }
