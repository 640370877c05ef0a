package ops

import (
	"strings"
	"unicode"
)

// ValidateTemplateName checks that a template name is not empty or
// whitespace-only.
func ValidateTemplateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return &ValidationError{Field: "name", Message: "template name must not be empty"}
	}
	return nil
}

// ValidateShortcutKey checks that a trigger key is non-empty and contains
// no whitespace, since the trigger must follow a space or line start.
func ValidateShortcutKey(key string) error {
	if key == "" {
		return &ValidationError{Field: "shortcut key", Message: "must not be empty"}
	}
	if strings.IndexFunc(key, unicode.IsSpace) >= 0 {
		return &ValidationError{Field: "shortcut key", Message: "must not contain whitespace"}
	}
	return nil
}
