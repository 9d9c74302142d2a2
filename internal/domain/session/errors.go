package session

import "errors"

var (
	ErrMissingField = errors.New("required login field is empty")
	ErrInvalidRole  = errors.New("unknown role")
	ErrAuthFailed   = errors.New("credential verification failed")
	ErrNoSession    = errors.New("no active session")
)
