package auth

import "errors"

var (
	// ErrInvalidToken is returned when the provided session token is invalid
	ErrInvalidToken = errors.New("invalid session token")
	// ErrMissingToken is returned when no Authorization header is present
	ErrMissingToken = errors.New("missing session token")
)
