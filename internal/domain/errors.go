package domain

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidRuleSet = errors.New("invalid HOS rule set")
	ErrTripNotFound   = errors.New("trip not found")
)

// ValidationError reports a malformed or out-of-range input field.
// It is returned before any stop or log generation happens.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidationError reports whether err wraps a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
