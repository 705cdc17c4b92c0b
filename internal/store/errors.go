package store

import (
	"errors"
	"fmt"
)

// StoreError represents a failed durable-store operation.
//
// Every table check/create, lookup, upsert, and delete failure wraps as a
// StoreError so callers can report which operation on which table broke
// without parsing driver messages. The store never retries automatically.
type StoreError struct {
	// Op identifies the failed operation ("find", "upsert", ...).
	Op string

	// Table is the companion table involved.
	Table string

	// Key is the meta key involved, when the operation has one.
	Key string

	// Err is the underlying driver error.
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("store %s %s[%s]: %v", e.Op, e.Table, e.Key, e.Err)
	}
	return fmt.Sprintf("store %s %s: %v", e.Op, e.Table, e.Err)
}

// Unwrap returns the underlying error.
func (e *StoreError) Unwrap() error {
	return e.Err
}

// AsStoreError extracts a StoreError from an error chain.
func AsStoreError(err error) (*StoreError, bool) {
	var se *StoreError
	if errors.As(err, &se) {
		return se, true
	}
	return nil, false
}

func storeErr(op, table, key string, err error) error {
	return &StoreError{Op: op, Table: table, Key: key, Err: err}
}
