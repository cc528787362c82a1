package notion

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when the store answers 404 for a page or database.
var ErrNotFound = errors.New("notion: not found")

// TransientError covers every other failed call: transport errors and
// non-success statuses. Callers decide whether to degrade or propagate.
type TransientError struct {
	Op      string
	Status  int
	Code    string
	Message string
	Err     error
}

func (e *TransientError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("notion %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("notion %s: status %d %s: %s", e.Op, e.Status, e.Code, e.Message)
}

func (e *TransientError) Unwrap() error { return e.Err }

// IsTransient reports whether err came from a failed store call.
func IsTransient(err error) bool {
	var te *TransientError
	return errors.As(err, &te)
}
