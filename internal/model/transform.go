package model

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrGroupNotFound is returned when an operation targets a group that
	// does not exist.
	ErrGroupNotFound = errors.New("group not found")

	// ErrTemplateNotFound is returned when a template lookup fails.
	ErrTemplateNotFound = errors.New("template not found")
)

// The methods below are the pure transformations behind every store
// operation. They mutate d in place; callers that need rollback apply them
// to a Clone.

// AddGroup appends a new group and returns it. Existing groups are
// compacted first so the appended order is free.
func (d *StorageData) AddGroup(name string) Group {
	d.Groups = Compact(d.Groups, nil)
	g := Group{
		ID:    NextID(d.Groups),
		Name:  name,
		Order: len(d.Groups),
	}
	d.Groups = append(d.Groups, g)
	return g
}

// DeleteGroup removes the group and every template that belongs to it, then
// renumbers the remaining groups. Returns false if the group does not exist.
func (d *StorageData) DeleteGroup(id int) bool {
	if d.FindGroup(id) == nil {
		return false
	}

	groups := make([]Group, 0, len(d.Groups))
	for _, g := range d.Groups {
		if g.ID != id {
			groups = append(groups, g)
		}
	}
	d.Groups = Compact(groups, nil)

	gid := GroupRef(id)
	templates := make([]Template, 0, len(d.Templates))
	for _, t := range d.Templates {
		if !t.InGroup(gid) {
			templates = append(templates, t)
		}
	}
	d.Templates = templates
	return true
}

// UpdateGroup merges patch into the group. Returns false if the group does
// not exist.
func (d *StorageData) UpdateGroup(id int, patch GroupPatch) bool {
	g := d.FindGroup(id)
	if g == nil {
		return false
	}
	if patch.Name != nil {
		g.Name = *patch.Name
	}
	return true
}

// ReorderGroups sets group orders from orderedIDs. Groups missing from
// orderedIDs keep their relative order and are placed after the listed ones.
func (d *StorageData) ReorderGroups(orderedIDs []int) {
	ids := completeSequence(orderedIDs, SortedIDs(d.Groups, nil))
	d.Groups = ReindexToSequence(d.Groups, ids)
}

// AddTemplate appends a template to the end of group gid.
func (d *StorageData) AddTemplate(gid int, name, content string) (Template, error) {
	if d.FindGroup(gid) == nil {
		return Template{}, fmt.Errorf("%w: %d", ErrGroupNotFound, gid)
	}
	ref := GroupRef(gid)
	d.Templates = Compact(d.Templates, func(t Template) bool { return t.InGroup(ref) })
	t := Template{
		ID:      NextID(d.Templates),
		GroupID: ref,
		Name:    name,
		Content: content,
		Order:   countInGroup(d.Templates, ref, 0),
	}
	d.Templates = append(d.Templates, t)
	return t.clone(), nil
}

// UpdateTemplate merges patch into the template. Returns false if the
// template does not exist.
func (d *StorageData) UpdateTemplate(id int, patch TemplatePatch) bool {
	t := d.FindTemplate(id)
	if t == nil {
		return false
	}
	if patch.Name != nil {
		t.Name = *patch.Name
	}
	if patch.Content != nil {
		t.Content = *patch.Content
	}
	return true
}

// DeleteTemplate removes the template and renumbers its former siblings to
// 0..n-1. Returns false if the template does not exist.
func (d *StorageData) DeleteTemplate(id int) bool {
	victim := d.FindTemplate(id)
	if victim == nil {
		return false
	}
	gid := victim.GroupID

	templates := make([]Template, 0, len(d.Templates))
	for _, t := range d.Templates {
		if t.ID != id {
			templates = append(templates, t)
		}
	}
	d.Templates = Compact(templates, func(t Template) bool { return t.InGroup(gid) })
	return true
}

// ReorderTemplates sets the orders of the templates in group gid from
// orderedIDs. Ids belonging to other groups are ignored; members of gid
// missing from orderedIDs keep their relative order after the listed ones.
func (d *StorageData) ReorderTemplates(gid int, orderedIDs []int) {
	ref := GroupRef(gid)
	current := SortedIDs(d.Templates, func(t Template) bool { return t.InGroup(ref) })
	d.Templates = ReindexToSequence(d.Templates, completeSequence(orderedIDs, current))
}

// MoveTemplate moves a template to position index of group gid, which may
// be its current group. Both affected groups are compacted first so the
// sibling shift rule starts from dense orders. Returns false when nothing
// changed.
func (d *StorageData) MoveTemplate(id, gid, index int) (bool, error) {
	if d.FindGroup(gid) == nil {
		return false, fmt.Errorf("%w: %d", ErrGroupNotFound, gid)
	}
	t := d.FindTemplate(id)
	if t == nil {
		return false, nil
	}

	source := t.GroupID
	target := GroupRef(gid)
	templates := Compact(d.Templates, func(t Template) bool { return t.InGroup(source) })
	if !SameGroup(source, target) {
		templates = Compact(templates, func(t Template) bool { return t.InGroup(target) })
	}

	moved, changed := MoveTemplate(templates, id, target, index)
	d.Templates = moved
	return changed, nil
}

// DeleteAllTemplates removes every template.
func (d *StorageData) DeleteAllTemplates() {
	d.Templates = []Template{}
}

// DeleteAllGroups removes every group and, by cascade, every grouped
// template. Ungrouped templates survive.
func (d *StorageData) DeleteAllGroups() {
	d.Groups = []Group{}
	templates := make([]Template, 0, len(d.Templates))
	for _, t := range d.Templates {
		if t.GroupID == nil {
			templates = append(templates, t)
		}
	}
	d.Templates = templates
}

// completeSequence returns the ids of head that appear in all, followed by
// the remaining ids of all, without duplicates.
func completeSequence(head, all []int) []int {
	member := make(map[int]bool, len(all))
	for _, id := range all {
		member[id] = true
	}
	seen := make(map[int]bool, len(all))
	out := make([]int, 0, len(all))
	for _, id := range head {
		if member[id] && !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	for _, id := range all {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}

func isBlank(s string) bool {
	return strings.TrimSpace(s) == ""
}
