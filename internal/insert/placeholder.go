package insert

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"
)

var placeholderRe = regexp.MustCompile(`\{\{([^}]*)\}\}`)

// ErrBlankValue is returned when a prompted placeholder value is blank.
var ErrBlankValue = errors.New("placeholder value must not be blank")

// Prompter asks the user for placeholder values.
type Prompter interface {
	Prompt(ctx context.Context, name string) (string, error)
}

// Values is a Prompter backed by a map. Missing names are blank.
type Values map[string]string

func (v Values) Prompt(ctx context.Context, name string) (string, error) {
	return v[name], nil
}

// Placeholders returns the distinct placeholder names in content, in order
// of first appearance.
func Placeholders(content string) []string {
	var names []string
	seen := map[string]bool{}
	for _, m := range placeholderRe.FindAllStringSubmatch(content, -1) {
		if !seen[m[1]] {
			seen[m[1]] = true
			names = append(names, m[1])
		}
	}
	return names
}

// Expand resolves the placeholders of the just-inserted content on
// surface. A single placeholder marker is removed and the caret placed
// where it was. With several, each distinct name is prompted for and every
// marker replaced; a blank value aborts with ErrBlankValue and leaves the
// surface unchanged.
func Expand(ctx context.Context, surface Surface, content string, prompter Prompter) error {
	markers := placeholderRe.FindAllString(content, -1)
	switch len(markers) {
	case 0:
		return nil
	case 1:
		text := surface.ReadText()
		i := strings.LastIndex(text, markers[0])
		if i < 0 {
			return nil
		}
		if err := surface.WriteText(text[:i] + text[i+len(markers[0]):]); err != nil {
			return err
		}
		return surface.PlaceCaret(utf8.RuneCountInString(text[:i]))
	}

	if prompter == nil {
		return fmt.Errorf("content has %d placeholders and no prompter", len(markers))
	}
	values := map[string]string{}
	for _, name := range Placeholders(content) {
		v, err := prompter.Prompt(ctx, name)
		if err != nil {
			return err
		}
		if strings.TrimSpace(v) == "" {
			return fmt.Errorf("%w: %s", ErrBlankValue, name)
		}
		values[name] = v
	}

	text := placeholderRe.ReplaceAllStringFunc(surface.ReadText(), func(m string) string {
		name := placeholderRe.FindStringSubmatch(m)[1]
		if v, ok := values[name]; ok {
			return v
		}
		return m
	})
	if err := surface.WriteText(text); err != nil {
		return err
	}
	return surface.PlaceCaret(utf8.RuneCountInString(text))
}
