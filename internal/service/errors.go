package service

import (
	"errors"
	"fmt"
	"net/http"

	"canna-backoffice-requests/internal/backend"
	"canna-backoffice-requests/internal/domain"
)

var (
	ErrRequestNotFound = errors.New("pending request not found")
	ErrUnknownVerb     = errors.New("unknown action verb")
)

type ErrorKind string

const (
	ErrorKindTransport ErrorKind = "transport"
	ErrorKindStatus    ErrorKind = "status"
	ErrorKindMalformed ErrorKind = "malformed_response"
	ErrorKindNotFound  ErrorKind = "not_found"
	ErrorKindConflict  ErrorKind = "conflict"
)

// ActionError is the failure of one approve/reject dispatch.
type ActionError struct {
	Kind ErrorKind
	Key  domain.RequestKey
	Verb domain.Verb
	Err  error
}

func (e *ActionError) Error() string {
	return fmt.Sprintf("failed to %s %s (%s): %v", e.Verb, e.Key, e.Kind, e.Err)
}

func (e *ActionError) Unwrap() error { return e.Err }

// Classify maps a backend or lookup error onto an ErrorKind.
func Classify(err error) ErrorKind {
	var statusErr *backend.StatusError
	switch {
	case errors.Is(err, ErrRequestNotFound):
		return ErrorKindNotFound
	case errors.Is(err, backend.ErrMalformedResponse):
		return ErrorKindMalformed
	case errors.As(err, &statusErr):
		switch statusErr.StatusCode {
		case http.StatusConflict:
			return ErrorKindConflict
		case http.StatusNotFound:
			return ErrorKindNotFound
		}
		return ErrorKindStatus
	}
	return ErrorKindTransport
}
