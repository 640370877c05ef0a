package model

// MoveTemplate moves template id to position index inside group target and
// shifts its siblings so orders stay unique in both the source and the
// target group. It makes a single pass over templates and returns a new
// slice; the input is not modified.
//
// index is the final position of the template after the move, not a raw
// drop index measured while the template is still in its old slot (see
// DropIndexToFinal). It is clamped to the valid range for the target group.
// The sibling rule assumes the orders in both scopes are dense.
//
// The second return value is false when nothing changed: the template does
// not exist or it is already at the requested position.
func MoveTemplate(templates []Template, id int, target *int, index int) ([]Template, bool) {
	var mover *Template
	for i := range templates {
		if templates[i].ID == id {
			mover = &templates[i]
			break
		}
	}
	if mover == nil {
		return templates, false
	}

	oldGroup := mover.GroupID
	oldPos := mover.Order
	sameGroup := SameGroup(oldGroup, target)

	index = clampIndex(index, countInGroup(templates, target, id))
	if sameGroup && oldPos == index {
		return templates, false
	}

	out := make([]Template, len(templates))
	for i, t := range templates {
		t = t.clone()
		switch {
		case t.ID == id:
			if target != nil {
				t.GroupID = GroupRef(*target)
			} else {
				t.GroupID = nil
			}
			t.Order = index

		case sameGroup:
			if !t.InGroup(target) {
				break
			}
			if oldPos < index && t.Order > oldPos && t.Order <= index {
				t.Order--
			} else if oldPos > index && t.Order >= index && t.Order < oldPos {
				t.Order++
			}

		default:
			if t.InGroup(oldGroup) && t.Order > oldPos {
				t.Order--
			} else if t.InGroup(target) && t.Order >= index {
				t.Order++
			}
		}
		out[i] = t
	}
	return out, true
}

// DropIndexToFinal converts a drop gap index into the final index of the
// moved item. Gap indexes are measured on the list as rendered during the
// drag, where the dragged item still occupies its old slot; when moving
// forward inside the same list that slot disappears, so the index shifts
// down by one.
func DropIndexToFinal(oldIndex, gapIndex int, sameScope bool) int {
	if sameScope && oldIndex >= 0 && oldIndex < gapIndex {
		return gapIndex - 1
	}
	return gapIndex
}

// ArrayMove returns a copy of ids with the element at from moved to to.
// Out-of-range indexes are clamped.
func ArrayMove(ids []int, from, to int) []int {
	out := make([]int, len(ids))
	copy(out, ids)
	if len(out) == 0 || from < 0 || from >= len(out) {
		return out
	}
	to = clampIndex(to, len(out)-1)
	v := out[from]
	out = append(out[:from], out[from+1:]...)
	out = append(out[:to], append([]int{v}, out[to:]...)...)
	return out
}

func countInGroup(templates []Template, gid *int, exclude int) int {
	n := 0
	for _, t := range templates {
		if t.ID != exclude && t.InGroup(gid) {
			n++
		}
	}
	return n
}

func clampIndex(index, max int) int {
	if index < 0 {
		return 0
	}
	if index > max {
		return max
	}
	return index
}
