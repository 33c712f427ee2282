package usecase

import crerr "github.com/cockroachdb/errors"

// Sentinel errors shared by all services. Callers wrap them with context
// and the HTTP layer maps them to status codes with errors.Is.
var (
	ErrInvalidInput          = crerr.New("invalid input")
	ErrNotFound              = crerr.New("resource not found")
	ErrUnauthorized          = crerr.New("unauthorized")
	ErrDependencyUnavailable = crerr.New("dependency unavailable")
)
