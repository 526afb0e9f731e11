package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("not found")
	// ErrDuplicateKey is wrapped in a StoreError when an insert or update hits a unique index.
	ErrDuplicateKey = gorm.ErrDuplicatedKey
)

// StoreError wraps a persistence failure (I/O, constraint violation) with the
// operation that hit it.
type StoreError struct {
	Op  string
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// wrap maps gorm.ErrRecordNotFound to ErrNotFound and everything else to a StoreError.
func wrap(op string, err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%s: %w", op, ErrNotFound)
	default:
		return &StoreError{Op: op, Err: err}
	}
}
