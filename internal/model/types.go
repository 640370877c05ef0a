// Package model defines the core data structures for snip and the pure
// ordering logic over them.
package model

// DefaultShortcutKey is the trigger key used when none has been configured.
const DefaultShortcutKey = "#"

// OrphanGroupName is the display name of the catch-all bucket holding
// templates whose group is missing.
const OrphanGroupName = "other"

// Group is an ordered container of templates.
type Group struct {
	ID    int    `json:"id" yaml:"id"`
	Name  string `json:"name" yaml:"name"`
	Order int    `json:"order" yaml:"order"`
}

// Template is a reusable text snippet.
// GroupID is nil for legacy ungrouped templates.
type Template struct {
	ID      int    `json:"id" yaml:"id"`
	GroupID *int   `json:"groupId" yaml:"group_id"`
	Name    string `json:"name" yaml:"name"`
	Content string `json:"content" yaml:"content"`
	Order   int    `json:"order" yaml:"order"`
}

// StorageData is the single persisted aggregate. It is always read and
// written as a whole.
type StorageData struct {
	Templates   []Template `json:"templates" yaml:"templates"`
	Groups      []Group    `json:"groups" yaml:"groups"`
	ShortcutKey string     `json:"shortcutKey" yaml:"shortcut_key"`
}

// GroupPatch holds the group fields to change. Nil fields are left alone.
type GroupPatch struct {
	Name *string
}

// TemplatePatch holds the template fields to change. Nil fields are left alone.
type TemplatePatch struct {
	Name    *string
	Content *string
}

// NewStorageData returns an empty aggregate with the default shortcut key.
func NewStorageData() *StorageData {
	return &StorageData{
		Templates:   []Template{},
		Groups:      []Group{},
		ShortcutKey: DefaultShortcutKey,
	}
}

// Clone returns a deep copy of d.
func (d *StorageData) Clone() *StorageData {
	c := &StorageData{
		Templates:   make([]Template, len(d.Templates)),
		Groups:      make([]Group, len(d.Groups)),
		ShortcutKey: d.ShortcutKey,
	}
	copy(c.Groups, d.Groups)
	for i, t := range d.Templates {
		c.Templates[i] = t.clone()
	}
	return c
}

// Normalize fills in defaults for fields missing from a stored blob.
func (d *StorageData) Normalize() {
	if d.Templates == nil {
		d.Templates = []Template{}
	}
	if d.Groups == nil {
		d.Groups = []Group{}
	}
	if d.ShortcutKey == "" {
		d.ShortcutKey = DefaultShortcutKey
	}
}

// FindGroup returns a pointer to the group with the given id, or nil.
func (d *StorageData) FindGroup(id int) *Group {
	for i := range d.Groups {
		if d.Groups[i].ID == id {
			return &d.Groups[i]
		}
	}
	return nil
}

// FindTemplate returns a pointer to the template with the given id, or nil.
func (d *StorageData) FindTemplate(id int) *Template {
	for i := range d.Templates {
		if d.Templates[i].ID == id {
			return &d.Templates[i]
		}
	}
	return nil
}

// InGroup reports whether the template belongs to the group scope gid.
// A nil gid is the ungrouped scope.
func (t Template) InGroup(gid *int) bool {
	return SameGroup(t.GroupID, gid)
}

// SameGroup compares two nullable group ids.
func SameGroup(a, b *int) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}

// GroupRef returns a nullable group id for gid.
func GroupRef(gid int) *int {
	return &gid
}

func (t Template) clone() Template {
	if t.GroupID != nil {
		t.GroupID = GroupRef(*t.GroupID)
	}
	return t
}

// DisplayName returns the name shown for a group. Blank names are shown as
// "(unnamed)".
func (g Group) DisplayName() string {
	if isBlank(g.Name) {
		return "(unnamed)"
	}
	return g.Name
}

// ItemID implements Identified.
func (g Group) ItemID() int { return g.ID }

// ItemOrder implements Orderable.
func (g Group) ItemOrder() int { return g.Order }

// WithOrder implements Orderable.
func (g Group) WithOrder(order int) Group {
	g.Order = order
	return g
}

// ItemID implements Identified.
func (t Template) ItemID() int { return t.ID }

// ItemOrder implements Orderable.
func (t Template) ItemOrder() int { return t.Order }

// WithOrder implements Orderable.
func (t Template) WithOrder(order int) Template {
	t = t.clone()
	t.Order = order
	return t
}
