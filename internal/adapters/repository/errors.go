package repository

import "errors"

// Sentinel kinds for session store errors.
var (
	ErrNotFound       = errors.New("session not found")
	ErrInvalidSession = errors.New("invalid session")
	ErrDuplicate      = errors.New("session already exists")
)
