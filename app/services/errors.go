package services

import (
	"errors"
	"fmt"
)

// Business outcomes of ledger and catalog operations. Controllers map these
// to HTTP status codes; they are expected, recoverable conditions.
var (
	// ErrItemNotFound means the referenced stock row does not exist.
	ErrItemNotFound = errors.New("stock item not found")

	// ErrHistoryNotFound means the referenced ledger entry does not exist.
	ErrHistoryNotFound = errors.New("history entry not found")

	// ErrInsufficientStock means the operation would drive an item's
	// quantity negative. Nothing is written when this is returned.
	ErrInsufficientStock = errors.New("insufficient stock")

	// ErrNotFound covers missing users and suppliers.
	ErrNotFound = errors.New("record not found")
)

// StorageError wraps a failure of the underlying store. The transaction that
// produced it has been rolled back; callers may retry.
type StorageError struct {
	Op  string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage: %s: %v", e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func storageErr(op string, err error) error {
	return &StorageError{Op: op, Err: err}
}

// ValidationError reports malformed input detected before any store
// interaction, as a field → message map.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string { return "validation failed" }

func validationErr(field, msg string) error {
	return &ValidationError{Fields: map[string]string{field: msg}}
}
