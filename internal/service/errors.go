package service

import "errors"

var (
	// ErrSessionNotFound is returned for unknown or expired session ids.
	ErrSessionNotFound = errors.New("service: session not found")

	// ErrInvalidInput wraps client mistakes such as malformed locations.
	ErrInvalidInput = errors.New("service: invalid input")
)
