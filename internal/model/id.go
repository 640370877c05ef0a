package model

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// RefKind distinguishes group references from template references.
type RefKind byte

const (
	RefGroup    RefKind = 'G'
	RefTemplate RefKind = 'T'
)

var (
	// ErrInvalidID is returned when an ID cannot be parsed.
	ErrInvalidID = errors.New("invalid ID format")

	// refRegex matches references like G-03, g3, T-12, t012 or a bare 12.
	refRegex = regexp.MustCompile(`^(?:([GgTt])-?)?(\d+)$`)
)

// ParseRef parses a group or template reference and returns its kind and
// number. A bare number takes the kind given by def.
// Accepts: G-03, g3, T-12, t012, 12.
func ParseRef(s string, def RefKind) (kind RefKind, num int, err error) {
	matches := refRegex.FindStringSubmatch(strings.TrimSpace(s))
	if matches == nil {
		return 0, 0, fmt.Errorf("%w: %q is not a valid ID", ErrInvalidID, s)
	}

	kind = def
	if matches[1] != "" {
		kind = RefKind(strings.ToUpper(matches[1])[0])
	}
	num, err = strconv.Atoi(matches[2])
	if err != nil || num <= 0 {
		return 0, 0, fmt.Errorf("%w: %q has invalid number", ErrInvalidID, s)
	}
	return kind, num, nil
}

// ParseGroupID parses a group reference. Template references are rejected.
func ParseGroupID(s string) (int, error) {
	kind, num, err := ParseRef(s, RefGroup)
	if err != nil {
		return 0, err
	}
	if kind != RefGroup {
		return 0, fmt.Errorf("%w: %q is a template ID, expected a group", ErrInvalidID, s)
	}
	return num, nil
}

// ParseTemplateID parses a template reference. Group references are rejected.
func ParseTemplateID(s string) (int, error) {
	kind, num, err := ParseRef(s, RefTemplate)
	if err != nil {
		return 0, err
	}
	if kind != RefTemplate {
		return 0, fmt.Errorf("%w: %q is a group ID, expected a template", ErrInvalidID, s)
	}
	return num, nil
}

// FormatRef formats a reference with zero-padding sized by maxNum:
// - maxNum < 100: 2 digits (T-01...T-99)
// - maxNum < 1000: 3 digits
// - etc.
func FormatRef(kind RefKind, num int, maxNum int) string {
	return fmt.Sprintf("%c-%0*d", kind, digitWidth(maxNum), num)
}

// digitWidth returns the number of digits needed to display maxNum.
// Minimum width is 2.
func digitWidth(maxNum int) int {
	width := 0
	for n := maxNum; n > 0; n /= 10 {
		width++
	}
	if width < 2 {
		return 2
	}
	return width
}
