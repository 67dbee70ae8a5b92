package session

import "errors"

// Session errors.
var (
	// ErrMalformed is returned when a token does not have the
	// "<id>-<expiry>-<digest>" shape or the expiry is not a number.
	ErrMalformed = errors.New("session: malformed token")

	// ErrExpired is returned when the token expiry is in the past.
	ErrExpired = errors.New("session: token expired")

	// ErrUnknownUser is returned when the token names a user that does not exist.
	ErrUnknownUser = errors.New("session: unknown user")

	// ErrDigestMismatch is returned when the token digest does not match.
	ErrDigestMismatch = errors.New("session: digest mismatch")

	ErrLookupFailed = errors.New("session: user lookup failed")
)
