// Package insert detects the trigger key in typed text and inserts a chosen
// template into an editable surface, expanding {{placeholders}}.
package insert

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// Separators before the key and inside a query. Besides ASCII whitespace
// they cover no-break spaces from contenteditable surfaces and the
// ideographic space of CJK input.
const (
	space    = `[\s\v\p{Z}\x{FEFF}]`
	nonSpace = `[^\s\v\p{Z}\x{FEFF}]`
)

// Trigger matches "<key><query>" at the end of the text before the caret,
// where the key starts the text or follows a space and the query has no
// spaces.
type Trigger struct {
	key string
	re  *regexp.Regexp
}

// NewTrigger returns a Trigger for key.
func NewTrigger(key string) *Trigger {
	t := &Trigger{}
	t.SetKey(key)
	return t
}

// Key returns the trigger key.
func (t *Trigger) Key() string {
	return t.key
}

// SetKey changes the trigger key.
func (t *Trigger) SetKey(key string) {
	if t.re != nil && key == t.key {
		return
	}
	t.key = key
	t.re = regexp.MustCompile(`(?:^|` + space + `)` + regexp.QuoteMeta(key) + `(` + nonSpace + `*)$`)
}

// Query returns the text typed after the key. ok is false when the text
// does not end in a trigger.
func (t *Trigger) Query(text string) (query string, ok bool) {
	m := t.re.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// Replace swaps the trailing trigger and its query for content, keeping the
// whitespace in front of the key. ok is false when there is no trigger.
func (t *Trigger) Replace(text, content string) (string, bool) {
	loc := t.re.FindStringIndex(text)
	if loc == nil {
		return text, false
	}
	match := text[loc[0]:loc[1]]
	lead := ""
	if !strings.HasPrefix(match, t.key) {
		// The match starts with the space rune before the key.
		_, size := utf8.DecodeRuneInString(match)
		lead = match[:size]
	}
	return text[:loc[0]] + lead + content, true
}
