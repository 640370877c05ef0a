package insert

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// EditorKind identifies a rich-text editor framework.
type EditorKind string

const (
	EditorLexical     EditorKind = "lexical"
	EditorProseMirror EditorKind = "prosemirror"
	EditorTiptap      EditorKind = "tiptap"
	EditorUnknown     EditorKind = "unknown"
)

// Variant is the classified kind of an editable surface. The zero value is
// a plain-text field.
type Variant struct {
	Rich   bool
	Editor EditorKind // set only when Rich
}

// PlainText is the variant for textarea-like fields.
var PlainText = Variant{}

// RichText returns the variant for a contenteditable surface driven by the
// given editor.
func RichText(editor EditorKind) Variant {
	return Variant{Rich: true, Editor: editor}
}

func (v Variant) String() string {
	if !v.Rich {
		return "plain"
	}
	return string(v.Editor)
}

// ParseVariant parses a variant name as printed by String.
func ParseVariant(s string) (Variant, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "plain", "textarea":
		return PlainText, nil
	case string(EditorLexical):
		return RichText(EditorLexical), nil
	case string(EditorProseMirror):
		return RichText(EditorProseMirror), nil
	case string(EditorTiptap):
		return RichText(EditorTiptap), nil
	case string(EditorUnknown), "rich":
		return RichText(EditorUnknown), nil
	}
	return Variant{}, fmt.Errorf("unknown editor %q (expected plain, lexical, prosemirror, tiptap or unknown)", s)
}

// padded reports whether insertions into v get a trailing two-space pad.
// Editors driven through text insertion commands drop a single trailing
// space, so the pad keeps the caret clear of the inserted text.
func (v Variant) padded() bool {
	return v.Rich && v.Editor != EditorProseMirror
}

// Element describes one node of the page around an editable surface.
type Element struct {
	ID      string
	Attrs   map[string]string
	Classes []string
}

func (e Element) hasClass(name string) bool {
	for _, c := range e.Classes {
		if c == name {
			return true
		}
	}
	return false
}

// Hints are the facts Classify needs about a focused element.
type Hints struct {
	TextArea bool
	Element  Element
	// Ancestors lists enclosing elements, nearest first.
	Ancestors []Element
	// TiptapInstance is set when the element carries a tiptap editor
	// instance.
	TiptapInstance bool
}

// closest reports whether the element or an ancestor satisfies match.
func (h Hints) closest(match func(Element) bool) bool {
	if match(h.Element) {
		return true
	}
	for _, a := range h.Ancestors {
		if match(a) {
			return true
		}
	}
	return false
}

// Classify returns the surface variant for an element.
func Classify(h Hints) Variant {
	if h.TextArea {
		return PlainText
	}

	lexical := func(e Element) bool { return e.Attrs["data-lexical-editor"] == "true" }
	if h.closest(lexical) || h.Element.ID == "ask-input" {
		return RichText(EditorLexical)
	}

	if h.closest(func(e Element) bool { return e.hasClass("ProseMirror") }) {
		tiptap := func(e Element) bool { return e.hasClass("tiptap") || e.Attrs["data-editor"] == "tiptap" }
		if h.TiptapInstance || h.closest(tiptap) {
			return RichText(EditorTiptap)
		}
		return RichText(EditorProseMirror)
	}

	return RichText(EditorUnknown)
}

// Surface is an editable text field.
type Surface interface {
	ReadText() string
	WriteText(text string) error
	// PlaceCaret moves the caret to a rune offset; offsets past the end
	// clamp to the end.
	PlaceCaret(offset int) error
}

// Buffer is an in-memory Surface.
type Buffer struct {
	text  string
	caret int
}

// NewBuffer returns a Buffer holding text with the caret at the end.
func NewBuffer(text string) *Buffer {
	return &Buffer{text: text, caret: utf8.RuneCountInString(text)}
}

func (b *Buffer) ReadText() string { return b.text }

func (b *Buffer) WriteText(text string) error {
	b.text = text
	if n := utf8.RuneCountInString(text); b.caret > n {
		b.caret = n
	}
	return nil
}

func (b *Buffer) PlaceCaret(offset int) error {
	if offset < 0 {
		return fmt.Errorf("negative caret offset %d", offset)
	}
	if n := utf8.RuneCountInString(b.text); offset > n {
		offset = n
	}
	b.caret = offset
	return nil
}

// Caret returns the caret rune offset.
func (b *Buffer) Caret() int { return b.caret }
