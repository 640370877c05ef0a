// Package drag is the drag-and-drop state machine for reordering groups and
// templates. It holds no rendering state: callers report what the pointer
// is over and receive a single Commit on drop.
package drag

import (
	"context"
	"errors"
	"fmt"

	"github.com/jacksmith/snip/internal/model"
	"github.com/rs/zerolog/log"
)

// Kind is the kind of item being dragged.
type Kind int

const (
	KindGroup Kind = iota
	KindTemplate
)

func (k Kind) String() string {
	if k == KindGroup {
		return "group"
	}
	return "template"
}

// State is the machine state.
type State int

const (
	Idle State = iota
	Dragging
)

var (
	// ErrBusy is returned by Start while a drag is in progress.
	ErrBusy = errors.New("drag already in progress")
	// ErrNotDraggable is returned by Start for items that cannot be moved.
	ErrNotDraggable = errors.New("item cannot be dragged")
)

// Rect is the vertical extent of a rendered item.
type Rect struct {
	Top    float64
	Height float64
}

// OverType says what the pointer is over.
type OverType int

const (
	OverNone   OverType = iota
	OverGap             // a drop gap between items
	OverItem            // another template
	OverHeader          // a group header: insert at the front
	OverAppend          // a group's append control: insert at the end
)

// Over describes one hover report.
type Over struct {
	Type OverType

	// Gap: Kind says whether it is a group gap or a template gap; GroupID
	// and Index locate a template gap, Index alone a group gap.
	Kind    Kind
	GroupID int
	Index   int

	// Item: the hovered template and where the pointer is relative to it.
	ItemID   int
	PointerY float64
	Rect     Rect
}

// Target is a resolved drop gap. For group drags GroupID is unused.
type Target struct {
	Kind    Kind
	GroupID int
	Index   int
}

// Expansion tracks which groups are expanded in the view.
type Expansion interface {
	IsExpanded(groupID int) bool
	SetExpanded(groupID int, expanded bool)
}

// ExpandedSet is a map-backed Expansion. Missing groups are collapsed.
type ExpandedSet map[int]bool

func (e ExpandedSet) IsExpanded(groupID int) bool { return e[groupID] }

func (e ExpandedSet) SetExpanded(groupID int, expanded bool) {
	if expanded {
		e[groupID] = true
	} else {
		delete(e, groupID)
	}
}

// Machine is one drag session. The zero value is not usable; use New.
type Machine struct {
	expansion Expansion

	state       State
	kind        Kind
	activeID    int
	data        *model.StorageData
	target      *Target
	wasExpanded bool
}

// New returns an idle machine that collapses dragged groups in expansion.
func New(expansion Expansion) *Machine {
	if expansion == nil {
		expansion = ExpandedSet{}
	}
	return &Machine{expansion: expansion}
}

// State returns the current state.
func (m *Machine) State() State { return m.state }

// Active returns the kind and id of the dragged item.
func (m *Machine) Active() (Kind, int, bool) {
	return m.kind, m.activeID, m.state == Dragging
}

// Target returns the current drop gap, if any.
func (m *Machine) Target() (Target, bool) {
	if m.target == nil {
		return Target{}, false
	}
	return *m.target, true
}

// Start begins dragging item id of the given kind. data is the state the
// drag is computed against; it is not modified. Dragging a group collapses
// it until the drag ends.
func (m *Machine) Start(kind Kind, id int, data *model.StorageData) error {
	if m.state != Idle {
		return ErrBusy
	}
	switch kind {
	case KindGroup:
		if data.FindGroup(id) == nil {
			return fmt.Errorf("%w: %d", model.ErrGroupNotFound, id)
		}
	case KindTemplate:
		t := data.FindTemplate(id)
		if t == nil {
			return fmt.Errorf("%w: %d", model.ErrTemplateNotFound, id)
		}
		if data.IsOrphan(*t) {
			return fmt.Errorf("%w: template %d has no group", ErrNotDraggable, id)
		}
	}

	m.state = Dragging
	m.kind = kind
	m.activeID = id
	m.data = data
	m.target = nil
	if kind == KindGroup {
		m.wasExpanded = m.expansion.IsExpanded(id)
		m.expansion.SetExpanded(id, false)
	}
	log.Debug().Stringer("kind", kind).Int("id", id).Msg("drag start")
	return nil
}

// Hover records what the pointer is over and returns the resulting drop
// gap. Anything that is not a valid drop position clears the target.
func (m *Machine) Hover(over Over) (Target, bool) {
	if m.state != Dragging {
		return Target{}, false
	}
	m.target = m.resolve(over)
	return m.Target()
}

func (m *Machine) resolve(over Over) *Target {
	if m.kind == KindGroup {
		if over.Type != OverGap || over.Kind != KindGroup {
			return nil
		}
		return &Target{Kind: KindGroup, Index: clamp(over.Index, len(m.data.Groups))}
	}

	switch over.Type {
	case OverGap:
		if over.Kind != KindTemplate || m.data.FindGroup(over.GroupID) == nil {
			return nil
		}
		n := len(m.siblings(over.GroupID))
		return &Target{Kind: KindTemplate, GroupID: over.GroupID, Index: clamp(over.Index, n)}

	case OverItem:
		if over.ItemID == m.activeID {
			return nil
		}
		t := m.data.FindTemplate(over.ItemID)
		if t == nil || m.data.IsOrphan(*t) {
			return nil
		}
		index := m.data.TemplateIndex(t.ID)
		if over.PointerY >= over.Rect.Top+over.Rect.Height/2 {
			index++
		}
		return &Target{Kind: KindTemplate, GroupID: *t.GroupID, Index: index}

	case OverHeader:
		if m.data.FindGroup(over.GroupID) == nil {
			return nil
		}
		return &Target{Kind: KindTemplate, GroupID: over.GroupID, Index: 0}

	case OverAppend:
		if m.data.FindGroup(over.GroupID) == nil {
			return nil
		}
		return &Target{Kind: KindTemplate, GroupID: over.GroupID, Index: len(m.siblings(over.GroupID))}
	}
	return nil
}

// Drop ends the drag. It returns the commit to apply, or false when there
// is no target or the item would land where it already is.
func (m *Machine) Drop() (Commit, bool) {
	if m.state != Dragging {
		return Commit{}, false
	}
	defer m.reset()

	if m.target == nil {
		log.Debug().Msg("drop without target")
		return Commit{}, false
	}

	c, ok := m.commit(*m.target)
	if ok {
		log.Debug().Stringer("commit", c.Kind).Int("id", m.activeID).Msg("drop")
	}
	return c, ok
}

func (m *Machine) commit(target Target) (Commit, bool) {
	if m.kind == KindGroup {
		ids := make([]int, 0, len(m.data.Groups))
		for _, g := range m.data.SortedGroups() {
			ids = append(ids, g.ID)
		}
		old := m.data.GroupIndex(m.activeID)
		final := model.DropIndexToFinal(old, target.Index, true)
		if final == old {
			return Commit{}, false
		}
		return Commit{Kind: CommitReorderGroups, IDs: model.ArrayMove(ids, old, final)}, true
	}

	t := m.data.FindTemplate(m.activeID)
	source := *t.GroupID
	same := source == target.GroupID
	old := m.data.TemplateIndex(m.activeID)
	final := model.DropIndexToFinal(old, target.Index, same)

	if !same {
		return Commit{
			Kind:       CommitMoveTemplate,
			TemplateID: m.activeID,
			GroupID:    target.GroupID,
			Index:      final,
		}, true
	}
	if final == old {
		return Commit{}, false
	}
	var ids []int
	for _, sib := range m.siblings(source) {
		ids = append(ids, sib.ID)
	}
	return Commit{
		Kind:    CommitReorderTemplates,
		GroupID: source,
		IDs:     model.ArrayMove(ids, old, final),
	}, true
}

// Cancel abandons the drag.
func (m *Machine) Cancel() {
	if m.state != Dragging {
		return
	}
	log.Debug().Msg("drag cancelled")
	m.reset()
}

// reset restores the dragged group's expansion and returns to Idle.
func (m *Machine) reset() {
	if m.kind == KindGroup {
		m.expansion.SetExpanded(m.activeID, m.wasExpanded)
	}
	m.state = Idle
	m.activeID = 0
	m.data = nil
	m.target = nil
	m.wasExpanded = false
}

func (m *Machine) siblings(gid int) []model.Template {
	return m.data.TemplatesInGroup(model.GroupRef(gid))
}

func clamp(i, max int) int {
	if i < 0 {
		return 0
	}
	if i > max {
		return max
	}
	return i
}

// Committer applies drop results. *ops.Session implements it.
type Committer interface {
	ReorderGroups(ctx context.Context, orderedIDs []int) error
	ReorderTemplates(ctx context.Context, gid int, orderedIDs []int) error
	MoveTemplateToGroup(ctx context.Context, id, gid, index int) error
}
