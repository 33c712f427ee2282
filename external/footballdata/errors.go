package footballdata

import (
	"errors"
	"fmt"
	"net/http"

	crerr "github.com/cockroachdb/errors"
)

// ErrorKind classifies a failed provider call.
type ErrorKind string

const (
	KindRateLimited ErrorKind = "rate_limited"
	KindForbidden   ErrorKind = "forbidden"
	KindNotFound    ErrorKind = "not_found"
	KindTimeout     ErrorKind = "timeout"
	KindOther       ErrorKind = "other"
)

var errTransient = crerr.New("football-data transient failure")

// ExternalServiceError is returned for every failed call to football-data.org.
type ExternalServiceError struct {
	Kind       ErrorKind
	StatusCode int
	URL        string
	Err        error
}

func (e *ExternalServiceError) Error() string {
	if e == nil {
		return "<nil>"
	}
	msg := fmt.Sprintf("football-data %s", e.Kind)
	if e.StatusCode > 0 {
		msg += fmt.Sprintf(" status=%d", e.StatusCode)
	}
	if e.URL != "" {
		msg += " url=" + e.URL
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *ExternalServiceError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// Transient reports whether retrying the call may succeed.
func (e *ExternalServiceError) Transient() bool {
	if e == nil {
		return false
	}
	switch e.Kind {
	case KindRateLimited, KindTimeout:
		return true
	default:
		return e.StatusCode >= http.StatusInternalServerError
	}
}

func newExternalError(kind ErrorKind, status int, rawURL string, cause error) error {
	if cause == nil {
		cause = crerr.Newf("request failed")
	}
	return crerr.WithStack(&ExternalServiceError{
		Kind:       kind,
		StatusCode: status,
		URL:        rawURL,
		Err:        cause,
	})
}

func kindFromStatus(status int) ErrorKind {
	switch status {
	case http.StatusTooManyRequests:
		return KindRateLimited
	case http.StatusForbidden:
		return KindForbidden
	case http.StatusNotFound:
		return KindNotFound
	case http.StatusRequestTimeout, http.StatusGatewayTimeout:
		return KindTimeout
	default:
		return KindOther
	}
}

// AsExternalServiceError unwraps err to the provider error, if any.
func AsExternalServiceError(err error) (*ExternalServiceError, bool) {
	var target *ExternalServiceError
	if errors.As(err, &target) {
		return target, true
	}
	return nil, false
}

func hasKind(err error, kind ErrorKind) bool {
	target, ok := AsExternalServiceError(err)
	return ok && target.Kind == kind
}

func IsRateLimited(err error) bool { return hasKind(err, KindRateLimited) }
func IsForbidden(err error) bool   { return hasKind(err, KindForbidden) }
func IsNotFound(err error) bool    { return hasKind(err, KindNotFound) }
func IsTimeout(err error) bool     { return hasKind(err, KindTimeout) }

func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, errTransient) {
		return true
	}
	target, ok := AsExternalServiceError(err)
	return ok && target.Transient()
}
