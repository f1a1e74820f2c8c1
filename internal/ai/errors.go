package ai

import "errors"

// Failure classes for the generation call. Timeout, RateLimited and
// ServiceError are transient and retried; Malformed is not.
var (
	ErrTimeout     = errors.New("ai: timeout")
	ErrRateLimited = errors.New("ai: rate limited")
	ErrService     = errors.New("ai: service error")
	ErrMalformed   = errors.New("ai: malformed response")
)

// Transient reports whether an error is worth retrying.
func Transient(err error) bool {
	return errors.Is(err, ErrTimeout) ||
		errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrService)
}

// Overload reports failures that should slow the request pacing down.
func Overload(err error) bool {
	return errors.Is(err, ErrRateLimited) || errors.Is(err, ErrService)
}
