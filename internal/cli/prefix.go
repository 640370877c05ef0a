// Package cli provides terminal helpers shared by the snip commands.
package cli

import (
	"fmt"
	"sort"
	"strings"
)

// MatchPrefix resolves a possibly abbreviated choice against candidates.
// An exact match (case-insensitive) wins, then a unique prefix. kind names
// the choice in error messages, e.g. "backend".
func MatchPrefix(kind, prefix string, candidates []string) (string, error) {
	p := strings.ToLower(strings.TrimSpace(prefix))
	if p == "" {
		return "", fmt.Errorf("empty %s (expected one of: %s)", kind, strings.Join(candidates, ", "))
	}

	var matches []string
	for _, c := range candidates {
		lc := strings.ToLower(c)
		if lc == p {
			return c, nil
		}
		if strings.HasPrefix(lc, p) {
			matches = append(matches, c)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("unknown %s %q (expected one of: %s)", kind, prefix, strings.Join(candidates, ", "))
	case 1:
		return matches[0], nil
	}
	sort.Strings(matches)
	return "", &AmbiguousError{Type: kind, Prefix: prefix, Matches: matches}
}
