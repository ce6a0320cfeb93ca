package publish

import (
	"errors"
	"fmt"
)

var (
	// ErrSearchFailed wraps listing and lookup failures. The reconciler
	// treats them as "no match" and moves on.
	ErrSearchFailed = errors.New("search failed")
	// ErrMutationFailed is wrapped by MutationError.
	ErrMutationFailed = errors.New("mutation failed")
)

// APIError is a non-success answer from a platform: an HTTP status outside
// 2xx or an API-level error payload (Status is 0 for the latter when the
// transport itself succeeded).
type APIError struct {
	Platform string
	Status   int
	Message  string
}

func (e *APIError) Error() string {
	if e.Status == 0 {
		return fmt.Sprintf("%s API error: %s", e.Platform, e.Message)
	}
	return fmt.Sprintf("%s API returned %d: %s", e.Platform, e.Status, e.Message)
}

// MutationError is returned when the create or update call fails. It keeps
// the run's hint so the caller can persist it unchanged.
type MutationError struct {
	Platform string
	Method   Method
	Status   int
	Hint     *Hint
	Err      error
}

func (e *MutationError) Error() string {
	verb := "creating"
	if e.Method == MethodUpdate {
		verb = "updating"
	}
	return fmt.Sprintf("%s %s post: %v", verb, e.Platform, e.Err)
}

func (e *MutationError) Unwrap() []error {
	return []error{ErrMutationFailed, e.Err}
}

// Failure is the structured error line a failed run prints on stdout.
type Failure struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
	Status  int    `json:"status,omitempty"`
	Hint
}

// NewFailure builds the failure line for err, echoing the hint fields.
func NewFailure(err error, hint *Hint) Failure {
	f := Failure{Error: true, Message: "Unknown error"}
	if err != nil {
		f.Message = err.Error()
	}
	var mutErr *MutationError
	if errors.As(err, &mutErr) {
		f.Status = mutErr.Status
	}
	if hint != nil {
		f.Hint = *hint
	}
	return f
}
