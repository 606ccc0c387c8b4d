package interfaces

import "errors"

var (
	// ErrNotFound is returned when a document does not exist.
	ErrNotFound = errors.New("document not found")

	// ErrDuplicate is returned when a unique index rejects a write.
	ErrDuplicate = errors.New("duplicate document")
)
