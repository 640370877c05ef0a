package model

import "sort"

// Bucket is one display section: a group and its templates in order.
// The orphan bucket collects templates whose group is null or missing; its
// Group has ID 0 and the name OrphanGroupName.
type Bucket struct {
	Group     Group
	Orphan    bool
	Templates []Template
}

// SortedGroups returns the groups sorted by order (ties by id).
func (d *StorageData) SortedGroups() []Group {
	groups := make([]Group, len(d.Groups))
	copy(groups, d.Groups)
	sort.SliceStable(groups, func(i, j int) bool {
		if groups[i].Order != groups[j].Order {
			return groups[i].Order < groups[j].Order
		}
		return groups[i].ID < groups[j].ID
	})
	return groups
}

// TemplatesInGroup returns the templates of group gid sorted by order.
// A nil gid selects the ungrouped templates.
func (d *StorageData) TemplatesInGroup(gid *int) []Template {
	var out []Template
	for _, t := range d.Templates {
		if t.InGroup(gid) {
			out = append(out, t.clone())
		}
	}
	sortTemplates(out)
	return out
}

// IsOrphan reports whether t has no live group.
func (d *StorageData) IsOrphan(t Template) bool {
	return t.GroupID == nil || d.FindGroup(*t.GroupID) == nil
}

// Buckets groups the templates for display: one bucket per group in group
// order, then an orphan bucket if any template has no live group. Empty
// groups still get a bucket.
func (d *StorageData) Buckets() []Bucket {
	var buckets []Bucket
	for _, g := range d.SortedGroups() {
		buckets = append(buckets, Bucket{
			Group:     g,
			Templates: d.TemplatesInGroup(GroupRef(g.ID)),
		})
	}

	var orphans []Template
	for _, t := range d.Templates {
		if d.IsOrphan(t) {
			orphans = append(orphans, t.clone())
		}
	}
	if len(orphans) > 0 {
		sortTemplates(orphans)
		buckets = append(buckets, Bucket{
			Group:     Group{Name: OrphanGroupName},
			Orphan:    true,
			Templates: orphans,
		})
	}
	return buckets
}

// GroupIndex returns the position of group id in display order, or -1.
func (d *StorageData) GroupIndex(id int) int {
	for i, g := range d.SortedGroups() {
		if g.ID == id {
			return i
		}
	}
	return -1
}

// TemplateIndex returns the position of template id within its group in
// display order, or -1.
func (d *StorageData) TemplateIndex(id int) int {
	t := d.FindTemplate(id)
	if t == nil {
		return -1
	}
	for i, sib := range d.TemplatesInGroup(t.GroupID) {
		if sib.ID == id {
			return i
		}
	}
	return -1
}

func sortTemplates(ts []Template) {
	sort.SliceStable(ts, func(i, j int) bool {
		if ts[i].Order != ts[j].Order {
			return ts[i].Order < ts[j].Order
		}
		return ts[i].ID < ts[j].ID
	})
}
