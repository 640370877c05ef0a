package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/jacksmith/snip/internal/ops"
)

// NotFoundError indicates a group or template was not found.
type NotFoundError struct {
	Type string // "group" or "template"
	ID   string // the reference that was not found
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Type, e.ID)
}

// AmbiguousError indicates a prefix matched more than one candidate.
type AmbiguousError struct {
	Type    string
	Prefix  string
	Matches []string
}

func (e *AmbiguousError) Error() string {
	return fmt.Sprintf("ambiguous %s %q matches: %s", e.Type, e.Prefix, strings.Join(e.Matches, ", "))
}

// FormatError returns a user-friendly error message prefixed with "error: ".
// Storage failures are reported as such, since the change they belong to
// has been rolled back.
func FormatError(err error) string {
	if err == nil {
		return ""
	}

	var storageErr *ops.StorageError
	switch {
	case ops.IsQuotaExceeded(err):
		return "error: storage quota exceeded, change not saved (delete or shorten templates)"
	case errors.As(err, &storageErr) && storageErr.Kind == ops.KindWrite:
		return fmt.Sprintf("error: change not saved: %v", storageErr.Cause)
	case errors.Is(err, ops.ErrSessionClosed):
		return "error: session closed"
	}
	return "error: " + err.Error()
}
