package backend

import (
	"errors"
	"fmt"
)

var ErrMalformedResponse = errors.New("malformed response body")

// StatusError is returned for any non-2xx answer from the platform backend.
type StatusError struct {
	Method     string
	Path       string
	StatusCode int
	Body       string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s returned status %d: %s", e.Method, e.Path, e.StatusCode, e.Body)
}

// MalformedResponseError carries the raw body of a 2xx response that was not valid JSON.
type MalformedResponseError struct {
	Path string
	Raw  string
	Err  error
}

func (e *MalformedResponseError) Error() string {
	return fmt.Sprintf("invalid JSON from %s: %v (raw body: %q)", e.Path, e.Err, e.Raw)
}

func (e *MalformedResponseError) Unwrap() error { return e.Err }

func (e *MalformedResponseError) Is(target error) bool { return target == ErrMalformedResponse }
