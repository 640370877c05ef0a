package insert

import (
	"context"
	"errors"

	"github.com/jacksmith/snip/internal/model"
	"github.com/jacksmith/snip/internal/ops"
)

// ErrNoSurface is returned when no surface is attached.
var ErrNoSurface = errors.New("no active input")

// Suggester supplies templates for a query. *ops.Session implements it.
type Suggester interface {
	Suggest(query string, opts ops.SuggestOptions) []ops.Suggestion
}

// Controller manages the one active input surface: it watches for the
// trigger, offers suggestions and inserts the chosen template. Attaching a
// new surface replaces the old one.
type Controller struct {
	trigger  *Trigger
	source   Suggester
	opts     ops.SuggestOptions
	sink     *Sink
	onChange func(string)
}

// NewController returns a Controller using key as the trigger.
func NewController(key string, source Suggester, opts ops.SuggestOptions) *Controller {
	return &Controller{
		trigger: NewTrigger(key),
		source:  source,
		opts:    opts,
	}
}

// SetKey changes the trigger key.
func (c *Controller) SetKey(key string) {
	c.trigger.SetKey(key)
}

// OnChange registers a callback fired after every write to the surface.
func (c *Controller) OnChange(fn func(text string)) {
	c.onChange = fn
	if c.sink != nil {
		c.sink.OnChange = fn
	}
}

// Attach makes surface the active input, classified from hints.
func (c *Controller) Attach(surface Surface, hints Hints) {
	c.AttachVariant(surface, Classify(hints))
}

// AttachVariant makes surface the active input with a known variant.
func (c *Controller) AttachVariant(surface Surface, v Variant) {
	c.Detach()
	c.sink = &Sink{Surface: surface, Variant: v, Trigger: c.trigger, OnChange: c.onChange}
}

// Detach drops the active surface.
func (c *Controller) Detach() {
	c.sink = nil
}

// Active reports whether a surface is attached.
func (c *Controller) Active() bool {
	return c.sink != nil
}

// Query returns the current trigger query of the active surface.
func (c *Controller) Query() (string, bool) {
	if c.sink == nil {
		return "", false
	}
	return c.trigger.Query(c.sink.Surface.ReadText())
}

// Update re-reads the active surface after input. It returns the
// suggestions for the current query, or false when the text does not end
// in a trigger.
func (c *Controller) Update() ([]ops.Suggestion, bool) {
	q, ok := c.Query()
	if !ok {
		return nil, false
	}
	return c.source.Suggest(q, c.opts), true
}

// Choose inserts t into the active surface and expands its placeholders.
func (c *Controller) Choose(ctx context.Context, t model.Template, prompter Prompter) error {
	if c.sink == nil {
		return ErrNoSurface
	}
	if err := c.sink.Insert(t.Content); err != nil {
		return err
	}
	if err := Expand(ctx, c.sink.Surface, t.Content, prompter); err != nil {
		return err
	}
	if c.onChange != nil {
		c.onChange(c.sink.Surface.ReadText())
	}
	return nil
}

// Complete runs the whole flow on the active surface: read the query, pick
// the first suggestion and insert it. It returns the chosen template.
func (c *Controller) Complete(ctx context.Context, prompter Prompter) (model.Template, error) {
	if c.sink == nil {
		return model.Template{}, ErrNoSurface
	}
	suggestions, ok := c.Update()
	if !ok {
		return model.Template{}, ErrNoTrigger
	}
	if len(suggestions) == 0 {
		return model.Template{}, ErrNoMatch
	}
	t := suggestions[0].Template
	return t, c.Choose(ctx, t, prompter)
}

// ErrNoMatch is returned by Complete when no template matches the query.
var ErrNoMatch = errors.New("no template matches the query")
