package apperrors

import "errors"

var (
	ErrInvalidInput  = errors.New("invalid input")
	ErrNotFound      = errors.New("session not found")
	ErrForbidden     = errors.New("session owned by another user")
	ErrNoOpenSession = errors.New("no open session")
	ErrSessionOpen   = errors.New("session already open")
)
