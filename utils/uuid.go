package utils

import "github.com/google/uuid"

// NewSessionToken returns an unguessable session token.
func NewSessionToken() string {
	return uuid.NewString()
}

// NewStorageKey returns a fresh opaque object-store key suffix.
func NewStorageKey() string {
	return uuid.NewString()
}
