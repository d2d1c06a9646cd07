package providers

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrMalformedResponse is returned when a provider answered with success but the
// body lacks a field the caller relies on.
var ErrMalformedResponse = errors.New("malformed_provider_response")

const maxErrorBody = 4 << 10

// Error is a non-success answer from a provider. Body holds the response text
// for diagnostics.
type Error struct {
	Provider   string
	Op         string
	StatusCode int
	Body       string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: status %d: %s", e.Provider, e.Op, e.StatusCode, e.Body)
}

// IsUpstream reports whether err came from a provider call, including transport
// failures and timeouts wrapped by Wrap.
func IsUpstream(err error) bool {
	var pe *Error
	if errors.As(err, &pe) {
		return true
	}
	var ue *unavailableError
	return errors.As(err, &ue) || errors.Is(err, ErrMalformedResponse)
}

type unavailableError struct {
	provider string
	op       string
	err      error
}

func (e *unavailableError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.provider, e.op, e.err)
}

func (e *unavailableError) Unwrap() error { return e.err }

// Unavailable marks a transport-level failure (dial error, timeout) as an upstream error.
func Unavailable(provider, op string, err error) error {
	if err == nil {
		return nil
	}
	return &unavailableError{provider: provider, op: op, err: err}
}

// Malformed wraps ErrMalformedResponse with the offending operation.
func Malformed(provider, op, detail string) error {
	return fmt.Errorf("%s %s: %s: %w", provider, op, detail, ErrMalformedResponse)
}

// IsNotFound reports whether the provider answered 404. Compensations treat it as
// the object already being gone.
func IsNotFound(err error) bool {
	var pe *Error
	return errors.As(err, &pe) && pe.StatusCode == http.StatusNotFound
}
