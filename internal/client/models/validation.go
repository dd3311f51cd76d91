package models

import (
	"fmt"

	"github.com/dmitrijs2005/farmdash/internal/common"
)

// ValidationError reports a failed client-side check on one field.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return common.ErrValidation }

func required(field, value string) error {
	if isBlank(value) {
		return &ValidationError{Field: field, Reason: "is required"}
	}
	return nil
}
