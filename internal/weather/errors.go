package weather

import (
	"errors"
	"fmt"
	"net/http"
)

// Kind classifies a lookup failure. Callers match on the kind; the wrapped
// cause is diagnostic only.
type Kind int

const (
	KindUnknown Kind = iota
	KindInvalidURL
	KindNoData
	KindDecodingFailed
	KindNetworkError
	KindCityNotFound
	KindServerError
	KindInvalidInput
)

func (k Kind) String() string {
	switch k {
	case KindInvalidURL:
		return "invalid URL"
	case KindNoData:
		return "no data"
	case KindDecodingFailed:
		return "decoding failed"
	case KindNetworkError:
		return "network error"
	case KindCityNotFound:
		return "city not found"
	case KindServerError:
		return "server error"
	case KindInvalidInput:
		return "invalid input"
	default:
		return "unknown error"
	}
}

// ErrUnauthorized is the cause wrapped into a KindNetworkError when the
// provider rejects the API key (401/403).
var ErrUnauthorized = errors.New("provider rejected credentials")

// Error is the typed failure returned by every client and the orchestrator.
type Error struct {
	Kind Kind
	Op   string // "geocode", "current" or "icon"
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Op, e.Kind)
}

func (e *Error) Unwrap() error { return e.Err }

func newError(op string, kind Kind, cause error) *Error {
	return &Error{Kind: kind, Op: op, Err: cause}
}

// ErrKind extracts the Kind from an error chain, or KindUnknown.
func ErrKind(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// mapStatus translates a non-2xx provider status into a typed error.
// 404 means the provider has no record for the requested location.
func mapStatus(op string, status int) *Error {
	switch {
	case status == http.StatusNotFound:
		return newError(op, KindCityNotFound, fmt.Errorf("status %d", status))
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return newError(op, KindNetworkError, fmt.Errorf("%w: status %d", ErrUnauthorized, status))
	case status >= 500 && status <= 599:
		return newError(op, KindServerError, fmt.Errorf("status %d", status))
	default:
		return newError(op, KindServerError, fmt.Errorf("unexpected status %d", status))
	}
}
