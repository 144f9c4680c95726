package models

import (
	"errors"
	"fmt"
)

var (
	ErrMissingField       = errors.New("missing required field")
	ErrConfiguration      = errors.New("configuration error")
	ErrTransport          = errors.New("ai service unavailable")
	ErrMalformedResponse  = errors.New("malformed ai response")
	ErrPersistence        = errors.New("persistence failure")
	ErrNotFound           = errors.New("not found")
	ErrGenerationInFlight = errors.New("plan generation already in progress")
)

// FieldError reports a required PlanRequest field that is absent or unusable.
type FieldError struct {
	Field  string
	Reason string
}

func (e *FieldError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func (e *FieldError) Is(target error) bool { return target == ErrMissingField }

// TransportError wraps a failed call to the AI provider.
type TransportError struct {
	Provider   string
	StatusCode int
	Err        error
}

func (e *TransportError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s request failed with status %d: %v", e.Provider, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s request failed: %v", e.Provider, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

func (e *TransportError) Is(target error) bool { return target == ErrTransport }

// Retryable is false only for client errors other than rate limiting.
func (e *TransportError) Retryable() bool {
	if e.StatusCode == 0 || e.StatusCode == 429 || e.StatusCode >= 500 {
		return true
	}
	return false
}

// MalformedResponseError keeps the raw model output for diagnostics.
type MalformedResponseError struct {
	Raw string
	Err error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("malformed ai response: %v", e.Err)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }

type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("failed to %s: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// ErrorKind maps an error onto the stable kind names returned to API clients.
func ErrorKind(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingField):
		return "missing_field"
	case errors.Is(err, ErrConfiguration):
		return "configuration"
	case errors.Is(err, ErrTransport):
		return "transport"
	case errors.Is(err, ErrMalformedResponse):
		return "malformed_response"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	case errors.Is(err, ErrGenerationInFlight):
		return "in_flight"
	case errors.Is(err, ErrPersistence):
		return "persistence"
	default:
		return "internal"
	}
}

// Hint tells the user what to do next for each error kind.
func Hint(err error) string {
	switch ErrorKind(err) {
	case "missing_field":
		return "Fill in the highlighted field and submit again."
	case "configuration":
		return "The AI service is not configured. Check the API key."
	case "transport":
		return "The AI service could not be reached. Wait a moment and retry."
	case "malformed_response":
		return "Failed to parse AI response. Try again."
	case "not_found":
		return "The requested item does not exist."
	case "in_flight":
		return "A plan is already being generated. Wait for it to finish."
	case "persistence":
		return "The plan was generated but could not be saved."
	default:
		return ""
	}
}
