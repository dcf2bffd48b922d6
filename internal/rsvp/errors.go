package rsvp

import (
	"errors"
	"fmt"
)

// ErrEventNotFound means the referenced event does not exist. Detected before
// any write.
var ErrEventNotFound = errors.New("event not found")

// ErrSurveyClosed means the event is not accepting submissions: it is not
// published, or the cutoff date has passed. A business-rule rejection,
// distinct from validation so callers can render a specific message.
var ErrSurveyClosed = errors.New("survey closed")

// ValidationError marks malformed or missing required input. The caller's
// fault; nothing was written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
