package store

import (
	"errors"
	"fmt"
)

// Common storage errors
var (
	// ErrUnknownBackend is returned by Open for an unsupported backend name.
	ErrUnknownBackend = errors.New("unknown storage backend")

	// ErrRecordNotFound is returned by lookups that require the record to exist.
	// Update and Remove never return it: a missing identifier is a no-op there.
	ErrRecordNotFound = errors.New("record not found")

	// ErrInvalidKey is returned when a key cannot be mapped onto the backend (e.g. path separators for files).
	ErrInvalidKey = errors.New("invalid storage key")
)

// StoreError wraps backend failures with the operation and the key involved.
type StoreError struct {
	// Op is the operation that failed (e.g., "Load", "Insert").
	Op string

	// Key is the storage key of the collection.
	Key string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *StoreError) Error() string {
	return fmt.Sprintf("store: %s %q failed: %v", e.Op, e.Key, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *StoreError) Unwrap() error {
	return e.Err
}

func newStoreError(op, key string, err error) error {
	if err == nil {
		return nil
	}
	var storeErr *StoreError
	if errors.As(err, &storeErr) {
		return err
	}
	return &StoreError{Op: op, Key: key, Err: err}
}

// Warning records a recovered problem, such as a corrupt collection that was replaced by an empty one.
type Warning struct {
	Key     string
	Message string
	Err     error
}

func (w Warning) String() string {
	if w.Err != nil {
		return fmt.Sprintf("%s: %s: %v", w.Key, w.Message, w.Err)
	}
	return fmt.Sprintf("%s: %s", w.Key, w.Message)
}
