package model

import "fmt"

// ViolationType names a kind of integrity problem.
type ViolationType string

const (
	ViolationDuplicateID         ViolationType = "duplicate_id"
	ViolationDuplicateGroupOrder ViolationType = "duplicate_group_order"
	ViolationDuplicateOrder      ViolationType = "duplicate_template_order"
	ViolationDanglingGroup       ViolationType = "dangling_group"
	ViolationSparseOrder         ViolationType = "sparse_order"
)

// Violation describes one integrity problem found by Check.
type Violation struct {
	Type    ViolationType
	ItemID  int
	Message string
}

func (v Violation) Error() string {
	return fmt.Sprintf("%d: %s - %s", v.ItemID, v.Type, v.Message)
}

// Fix describes one repair made by Repair.
type Fix struct {
	Type        ViolationType
	ItemID      int
	Description string
}

// Check reports every integrity problem in d. An empty result means all
// ordering invariants hold and every scope is dense.
func (d *StorageData) Check() []Violation {
	var out []Violation

	groupIDs := make(map[int]bool)
	groupOrders := make(map[int]int)
	for _, g := range d.Groups {
		if groupIDs[g.ID] {
			out = append(out, Violation{ViolationDuplicateID, g.ID, "group id used more than once"})
		}
		groupIDs[g.ID] = true
		if other, ok := groupOrders[g.Order]; ok {
			out = append(out, Violation{ViolationDuplicateGroupOrder, g.ID,
				fmt.Sprintf("group order %d also used by group %d", g.Order, other)})
		} else {
			groupOrders[g.Order] = g.ID
		}
	}
	if len(d.Groups) > 0 && !IsDense(d.Groups, nil) {
		out = append(out, Violation{ViolationSparseOrder, 0, "group orders are not 0..n-1"})
	}

	templateIDs := make(map[int]bool)
	type slot struct{ group, order int }
	orders := make(map[slot]int)
	scopes := make(map[int]bool)
	for _, t := range d.Templates {
		if templateIDs[t.ID] {
			out = append(out, Violation{ViolationDuplicateID, t.ID, "template id used more than once"})
		}
		templateIDs[t.ID] = true

		if t.GroupID == nil {
			continue
		}
		gid := *t.GroupID
		if !groupIDs[gid] {
			out = append(out, Violation{ViolationDanglingGroup, t.ID,
				fmt.Sprintf("group %d does not exist", gid)})
			continue
		}
		scopes[gid] = true
		key := slot{gid, t.Order}
		if other, ok := orders[key]; ok {
			out = append(out, Violation{ViolationDuplicateOrder, t.ID,
				fmt.Sprintf("order %d in group %d also used by template %d", t.Order, gid, other)})
		} else {
			orders[key] = t.ID
		}
	}

	for _, g := range d.SortedGroups() {
		if !scopes[g.ID] {
			continue
		}
		ref := GroupRef(g.ID)
		if !IsDense(d.Templates, func(t Template) bool { return t.InGroup(ref) }) {
			out = append(out, Violation{ViolationSparseOrder, g.ID,
				fmt.Sprintf("template orders in group %d are not 0..n-1", g.ID)})
		}
	}

	return out
}

// Repair detaches templates that point at missing groups and compacts every
// scope. Duplicate ids are not repaired.
func (d *StorageData) Repair() []Fix {
	var fixes []Fix

	for i := range d.Templates {
		t := &d.Templates[i]
		if t.GroupID != nil && d.FindGroup(*t.GroupID) == nil {
			fixes = append(fixes, Fix{ViolationDanglingGroup, t.ID,
				fmt.Sprintf("detached from missing group %d", *t.GroupID)})
			t.GroupID = nil
		}
	}

	if !IsDense(d.Groups, nil) {
		d.Groups = Compact(d.Groups, nil)
		fixes = append(fixes, Fix{ViolationSparseOrder, 0, "renumbered group orders"})
	}

	scopes := []*int{nil}
	for _, g := range d.SortedGroups() {
		scopes = append(scopes, GroupRef(g.ID))
	}
	for _, ref := range scopes {
		inScope := func(t Template) bool { return t.InGroup(ref) }
		if IsDense(d.Templates, inScope) {
			continue
		}
		d.Templates = Compact(d.Templates, inScope)
		id := 0
		if ref != nil {
			id = *ref
		}
		fixes = append(fixes, Fix{ViolationSparseOrder, id,
			fmt.Sprintf("renumbered template orders in group %d", id)})
	}

	return fixes
}
