package core

import "errors"

// Error taxonomy. Every service error wraps exactly one of these so callers
// can discriminate with errors.Is; the HTTP layer maps them to status codes.
var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrInvalidState = errors.New("invalid state")
	ErrStorage      = errors.New("storage failure")
)
