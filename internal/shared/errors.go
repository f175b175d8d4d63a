// Package shared holds error values common to services, repositories and handlers
package shared

import "errors"

var (
	// ErrNotFound is returned when a post or user does not exist
	ErrNotFound = errors.New("not found")
	// ErrDuplicateEmail is returned when registering with an email that is already taken
	ErrDuplicateEmail = errors.New("email already registered")
	// ErrInvalidCredential is returned when the password does not match the stored credential
	ErrInvalidCredential = errors.New("invalid credential")
	// ErrNotOwner is returned when a user tries to edit a post they did not write
	ErrNotOwner = errors.New("not the post owner")
	// ErrUnauthenticated is returned when a write operation is invoked without a resolved identity
	ErrUnauthenticated = errors.New("authentication required")
)
