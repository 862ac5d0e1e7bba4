package invoice

import (
	"errors"
	"fmt"
)

// Common invoice errors
var (
	// ErrInvalidDocument is returned when an invoice document file cannot be decoded.
	ErrInvalidDocument = errors.New("invalid invoice document")

	// ErrDuplicateItemID is returned by CheckDocument when two line items of one document share an identifier.
	ErrDuplicateItemID = errors.New("duplicate line item id")

	// ErrAmountMismatch is reported when a saved record's amount disagrees with its embedded document.
	ErrAmountMismatch = errors.New("saved amount does not match document total")
)

// DocumentError wraps errors with context about the document being processed.
type DocumentError struct {
	// Op is the operation that failed (e.g., "LoadDocument", "CheckDocument").
	Op string

	// Path is the document file, if the document came from disk.
	Path string

	// Err is the underlying error.
	Err error
}

// Error implements the error interface.
func (e *DocumentError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("invoice: %s failed (%s): %v", e.Op, e.Path, e.Err)
	}
	return fmt.Sprintf("invoice: %s failed: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *DocumentError) Unwrap() error {
	return e.Err
}

// NewDocumentError creates a new DocumentError.
func NewDocumentError(op, path string, err error) *DocumentError {
	return &DocumentError{
		Op:   op,
		Path: path,
		Err:  err,
	}
}
