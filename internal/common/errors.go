// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Storage errors.
	ErrNotFound = errors.New("not found")

	// Loader errors. These are structural: the source file cannot supply the
	// column vocabulary the pipeline needs, so the run halts.
	ErrMissingColumn    = errors.New("required column missing")
	ErrNoHourCategories = errors.New("no hour category columns found")
	ErrEmptySource      = errors.New("source file contains no data rows")
	ErrSheetNotFound    = errors.New("worksheet not found")

	// Reconciliation errors.
	ErrNoRecords     = errors.New("no records to reconcile")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}
