package cli

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"

	"golang.org/x/term"
)

// ANSI color codes
const (
	colorReset = "\033[0m"
	colorBold  = "\033[1m"
	colorRed   = "\033[31m"
	colorGreen = "\033[32m"
	colorCyan  = "\033[36m"
	colorGray  = "\033[90m"
)

const ellipsis = "..."

// colorEnabled is set from terminal detection on stdout and can be
// overridden with SetColorEnabled.
var colorEnabled = IsTerminal(os.Stdout)

// SetColorEnabled overrides the color output setting.
func SetColorEnabled(enabled bool) {
	colorEnabled = enabled
}

// ColorEnabled returns whether color output is currently enabled.
func ColorEnabled() bool {
	return colorEnabled
}

// IsTerminal returns true if w is a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func paint(code, s string) string {
	if !colorEnabled {
		return s
	}
	return code + s + colorReset
}

func Green(s string) string { return paint(colorGreen, s) }
func Red(s string) string   { return paint(colorRed, s) }
func Cyan(s string) string  { return paint(colorCyan, s) }
func Gray(s string) string  { return paint(colorGray, s) }
func Bold(s string) string  { return paint(colorBold, s) }

// DefaultPreviewWidth is the default visible width of content previews.
const DefaultPreviewWidth = 60

// Preview returns content flattened to one line (runs of whitespace become
// a single space) and truncated to width.
func Preview(content string, width int) string {
	return Truncate(strings.Join(strings.FieldsFunc(content, unicode.IsSpace), " "), width)
}

// GroupHeader formats the heading line of a group listing.
func GroupHeader(ref, name string, count int, orphan bool) string {
	noun := "templates"
	if count == 1 {
		noun = "template"
	}
	if orphan {
		return fmt.Sprintf("%s %s", Gray(name), Gray(fmt.Sprintf("(%d %s)", count, noun)))
	}
	return fmt.Sprintf("%s %s %s", Cyan(ref), Bold(name), Gray(fmt.Sprintf("(%d %s)", count, noun)))
}

// Table formats columnar output with automatic column width calculation.
type Table struct {
	rows      [][]string
	colWidths []int
	maxWidths map[int]int // optional per-column max visible width
	indent    string
}

// NewTable creates a new empty table.
func NewTable() *Table {
	return &Table{maxWidths: map[int]int{}}
}

// SetIndent sets a prefix written before every row.
func (t *Table) SetIndent(indent string) {
	t.indent = indent
}

// SetMaxWidth caps the visible width of a column. Longer cells are
// truncated with an ellipsis.
func (t *Table) SetMaxWidth(col, maxWidth int) {
	t.maxWidths[col] = maxWidth
}

// AddRow adds a row to the table.
func (t *Table) AddRow(cols ...string) {
	for i, col := range cols {
		if i == len(t.colWidths) {
			t.colWidths = append(t.colWidths, 0)
		}
		w := visibleWidth(col)
		if maxW, ok := t.maxWidths[i]; ok && w > maxW {
			w = maxW
		}
		t.colWidths[i] = max(t.colWidths[i], w)
	}
	t.rows = append(t.rows, cols)
}

// Len returns the number of rows added.
func (t *Table) Len() int {
	return len(t.rows)
}

// Render writes the table to w with columns separated by two spaces. The
// last column is not padded.
func (t *Table) Render(w io.Writer) {
	for _, row := range t.rows {
		var line strings.Builder
		line.WriteString(t.indent)
		for i, col := range row {
			if maxW, ok := t.maxWidths[i]; ok {
				col = Truncate(col, maxW)
			}
			if i > 0 {
				line.WriteString("  ")
			}
			line.WriteString(col)
			if i < len(t.colWidths)-1 {
				line.WriteString(strings.Repeat(" ", t.colWidths[i]-visibleWidth(col)))
			}
		}
		fmt.Fprintln(w, strings.TrimRight(line.String(), " "))
	}
}

// Truncate returns s cut to maxWidth visible characters. When s is cut and
// there is room, the last three visible characters become "...". ANSI
// escape codes are kept, and a reset is appended if any were seen.
func Truncate(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return ""
	}
	if visibleWidth(s) <= maxWidth {
		return s
	}
	if maxWidth < len(ellipsis) {
		out, _ := cut(s, maxWidth)
		return out
	}

	out, sawEscape := cut(s, maxWidth-len(ellipsis))
	out += ellipsis
	if sawEscape {
		out += colorReset
	}
	return out
}

// cut returns the prefix of s holding n visible characters, including any
// escape sequences before the cut point.
func cut(s string, n int) (string, bool) {
	var b strings.Builder
	visible := 0
	inEscape, sawEscape := false, false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape, sawEscape = true, true
		case inEscape:
			inEscape = r != 'm'
		case visible == n:
			return b.String(), sawEscape
		default:
			visible++
		}
		b.WriteRune(r)
	}
	return b.String(), sawEscape
}

// visibleWidth returns the visible width of s, excluding ANSI escape codes.
func visibleWidth(s string) int {
	width := 0
	inEscape := false
	for _, r := range s {
		switch {
		case r == '\033':
			inEscape = true
		case inEscape:
			inEscape = r != 'm'
		default:
			width++
		}
	}
	return width
}
