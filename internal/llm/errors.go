package llm

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyInput is returned by the prompt builders when a required
	// input is blank after trimming.
	ErrEmptyInput = errors.New("empty input")

	// ErrInvalidConfig is returned at construction time for a bad retry
	// budget or a missing generator/API key.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrRateLimitExceeded, ErrAuthentication, ErrTransient and
	// ErrEmptyResponse are the terminal failure classes of Caller.Call.
	ErrRateLimitExceeded = errors.New("rate limit exceeded")
	ErrAuthentication    = errors.New("authentication failed")
	ErrTransient         = errors.New("model call failed")
	ErrEmptyResponse     = errors.New("empty model response")

	// ErrNoJSONFound is returned by Extract when no JSON object can be
	// located in the model output.
	ErrNoJSONFound = errors.New("no json found in model response")
)

// CallError is the terminal error of a call attempt sequence. It wraps one
// of the failure sentinels above together with the last underlying error,
// so errors.Is matches both the class and the cause.
type CallError struct {
	Kind     error
	Attempts int
	Last     error
}

func (e *CallError) Error() string {
	if e.Last == nil {
		return fmt.Sprintf("%v after %d attempt(s)", e.Kind, e.Attempts)
	}
	return fmt.Sprintf("%v after %d attempt(s): %v", e.Kind, e.Attempts, e.Last)
}

func (e *CallError) Unwrap() []error {
	if e.Last == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Last}
}
