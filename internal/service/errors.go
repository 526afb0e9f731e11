package service

import (
	"errors"
	"fmt"

	"gorev/internal/repository"
)

var (
	// ErrDuplicateIdentity is returned when a username, email or category name is taken.
	ErrDuplicateIdentity = errors.New("duplicate identity")
	// ErrNotFound is returned when a lookup matches nothing.
	ErrNotFound = repository.ErrNotFound
	// ErrInvalidCredentials is returned on a password mismatch.
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrNotAuthenticated is returned when an operation needs a session and none exists.
	ErrNotAuthenticated = errors.New("not authenticated")
	// ErrInvalidInput is returned when input fails validation.
	ErrInvalidInput = errors.New("invalid input")
)

// StoreError is an underlying persistence failure.
type StoreError = repository.StoreError

// identityTaken reports a unique index violation as ErrDuplicateIdentity.
// It catches the writes that race past an explicit existence check.
func identityTaken(err error) error {
	if errors.Is(err, repository.ErrDuplicateKey) {
		return fmt.Errorf("%w: %w", ErrDuplicateIdentity, err)
	}
	return err
}
