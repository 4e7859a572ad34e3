package thinking

import (
	"errors"
	"fmt"
)

// ValidationError reports a missing or mistyped field in a thought input.
// It is the only error kind the store produces: validation runs to completion
// before any storage mutation, so a failed call leaves the store unchanged.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid thought: %s %s", e.Field, e.Reason)
}

// IsValidationError reports whether err is (or wraps) a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
