package ops

import (
	"errors"
	"fmt"

	"github.com/jacksmith/snip/internal/storage"
)

// ErrorKind tells whether a storage failure happened while reading or
// writing the blob.
type ErrorKind string

const (
	KindRead  ErrorKind = "read"
	KindWrite ErrorKind = "write"
)

// ErrSessionClosed is returned for work submitted after Close.
var ErrSessionClosed = errors.New("session closed")

// StorageError wraps a failed store round trip. For writes, the in-memory
// state has already been restored when the caller sees it.
type StorageError struct {
	Op    string    // operation name, e.g. "moveTemplateToGroup"
	Kind  ErrorKind // read or write
	Cause error
}

func (e *StorageError) Error() string {
	verb := "save"
	if e.Kind == KindRead {
		verb = "load"
	}
	return fmt.Sprintf("%s: failed to %s data: %v", e.Op, verb, e.Cause)
}

func (e *StorageError) Unwrap() error {
	return e.Cause
}

// IsQuotaExceeded reports whether err was caused by the storage quota.
func IsQuotaExceeded(err error) bool {
	return errors.Is(err, storage.ErrQuotaExceeded)
}

// ValidationError indicates a local validation failure. It is raised before
// any store call.
type ValidationError struct {
	Field   string // the field that failed validation
	Message string // what went wrong
}

func (e *ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
	}
	return e.Message
}
