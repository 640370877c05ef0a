package insert

import (
	"errors"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
)

// ErrNoTrigger is returned when the surface text does not end in a trigger.
var ErrNoTrigger = errors.New("no trigger before the caret")

// richPad is appended to insertions into command-driven rich editors.
const richPad = "  "

// Sink writes template content into a surface in place of the trigger.
type Sink struct {
	Surface  Surface
	Variant  Variant
	Trigger  *Trigger
	OnChange func(text string) // optional change notification
}

// Insert replaces the trailing trigger and query with content, puts the
// caret at the end and fires OnChange.
func (s *Sink) Insert(content string) error {
	if s.Variant.padded() {
		content += richPad
	}
	text, ok := s.Trigger.Replace(s.Surface.ReadText(), content)
	if !ok {
		return ErrNoTrigger
	}
	if err := s.Surface.WriteText(text); err != nil {
		return err
	}
	if err := s.Surface.PlaceCaret(utf8.RuneCountInString(text)); err != nil {
		return err
	}
	log.Debug().Stringer("variant", s.Variant).Int("bytes", len(content)).Msg("inserted template")
	if s.OnChange != nil {
		s.OnChange(text)
	}
	return nil
}
