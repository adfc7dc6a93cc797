package models

import (
	"errors"
	"fmt"
)

// Statement parse failures, shared by both parser variants. File-level
// errors abort the whole parse; row-level problems are collected as
// RowWarnings instead.
var (
	// ErrInvalidFile marks input that is empty or not recognizably in
	// the declared format.
	ErrInvalidFile = errors.New("invalid or empty statement file")

	// ErrStructuralParse marks a file in the right format that is
	// missing required sections.
	ErrStructuralParse = errors.New("statement file is missing required sections")

	// ErrNoTransactions marks a well-formed file whose transaction block
	// is empty. Surfaced distinctly from true failure so callers can say
	// "nothing to import" instead of "broken file". Both formats use
	// this one policy.
	ErrNoTransactions = errors.New("statement contains no transactions")

	// ErrParse marks an unrecoverable low-level read failure.
	ErrParse = errors.New("failed to parse statement file")
)

// FieldValidationError names a missing or invalid mapping field. Raised
// before any row is processed.
type FieldValidationError struct {
	Field   string
	Message string
}

func (e *FieldValidationError) Error() string {
	return fmt.Sprintf("invalid field %q: %s", e.Field, e.Message)
}
