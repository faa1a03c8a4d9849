package domain

import (
	"errors"
	"fmt"
)

// ErrNotFound signals a missing quote, item or format. Callers that can
// tolerate the absence (item removal) translate it into a false return
// instead of surfacing it.
var ErrNotFound = errors.New("not found")

// ValidationError rejects an operation because of missing or invalid input.
// It is never fatal; the message is intended for the end user.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	}
	return e.Message
}

// NewValidationError builds a ValidationError for a named field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// StateTransitionError rejects a status change the state machine does not
// permit. Both statuses are named so staff tooling can present a specific
// message. No partial mutation occurs when this is returned.
type StateTransitionError struct {
	From Status
	To   Status
}

func (e *StateTransitionError) Error() string {
	return fmt.Sprintf("cannot transition quote from %q to %q", e.From, e.To)
}

// CalculationError reports a failed rate lookup for a single location. The
// aggregator recovers from it locally; it never crosses the pricing
// boundary.
type CalculationError struct {
	FormatSlug string
	Location   string
	Reason     string
}

func (e *CalculationError) Error() string {
	return fmt.Sprintf("rate calculation failed for format %q location %q: %s",
		e.FormatSlug, e.Location, e.Reason)
}
