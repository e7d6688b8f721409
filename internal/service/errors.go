package service

import "errors"

// Sentinel errors the handlers map onto HTTP statuses: validation → 400,
// bad credentials → 401, missing secrets → 500. Store errors pass through
// wrapped and surface as 500.
var (
	ErrValidation      = errors.New("validation error")
	ErrInvalidPassword = errors.New("invalid password")
	ErrNotConfigured   = errors.New("server not configured")
)
