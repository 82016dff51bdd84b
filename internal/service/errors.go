package service

import (
	"errors"
	"fmt"
)

// Error kinds surfaced to handlers. Handlers map these to status codes
// and user-visible messages; anything else is an internal error.
var (
	ErrConflict     = errors.New("handle already taken")
	ErrUnauthorized = errors.New("invalid credentials")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("file not found")
	ErrValidation   = errors.New("invalid request")
	ErrStorage      = errors.New("storage error")
)

// ErrContentMissing means the catalog row exists but the backing object
// is gone. It matches ErrNotFound so callers that only care about "no
// bytes to serve" keep working, while the message stays distinguishable.
var ErrContentMissing = fmt.Errorf("%w: content missing", ErrNotFound)

func validationErr(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}

func storageErr(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrStorage, op, err)
}
