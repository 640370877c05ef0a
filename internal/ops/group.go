package ops

import (
	"context"

	"github.com/jacksmith/snip/internal/model"
)

// AddGroup appends a group and returns its id.
func (s *Session) AddGroup(ctx context.Context, name string) (int, error) {
	var id int
	err := s.mutate(ctx, "addGroup", func(d *model.StorageData) error {
		id = d.AddGroup(name).ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// DeleteGroup removes a group and every template in it. Deleting a missing
// group is a no-op.
func (s *Session) DeleteGroup(ctx context.Context, id int) error {
	return s.mutate(ctx, "deleteGroup", func(d *model.StorageData) error {
		if !d.DeleteGroup(id) {
			return errNoop
		}
		return nil
	})
}

// UpdateGroup merges patch into a group. Updating a missing group is a
// no-op.
func (s *Session) UpdateGroup(ctx context.Context, id int, patch model.GroupPatch) error {
	return s.mutate(ctx, "updateGroup", func(d *model.StorageData) error {
		if !d.UpdateGroup(id, patch) {
			return errNoop
		}
		return nil
	})
}

// ReorderGroups renumbers groups to follow orderedIDs.
func (s *Session) ReorderGroups(ctx context.Context, orderedIDs []int) error {
	return s.mutate(ctx, "reorderGroups", func(d *model.StorageData) error {
		d.ReorderGroups(orderedIDs)
		return nil
	})
}

// DeleteAllGroups removes every group and its templates.
func (s *Session) DeleteAllGroups(ctx context.Context) error {
	return s.mutate(ctx, "deleteAllGroups", func(d *model.StorageData) error {
		d.DeleteAllGroups()
		return nil
	})
}

// SetShortcutKey changes the trigger key. Blank keys are rejected.
func (s *Session) SetShortcutKey(ctx context.Context, key string) error {
	if err := ValidateShortcutKey(key); err != nil {
		return err
	}
	return s.mutate(ctx, "setShortcutKey", func(d *model.StorageData) error {
		if d.ShortcutKey == key {
			return errNoop
		}
		d.ShortcutKey = key
		return nil
	})
}

// Groups returns the groups sorted by order.
func (s *Session) Groups() []model.Group {
	var out []model.Group
	s.view(func(d *model.StorageData) {
		out = d.SortedGroups()
	})
	return out
}

// FindGroup returns a copy of the group with the given id.
func (s *Session) FindGroup(id int) (model.Group, bool) {
	var (
		g  model.Group
		ok bool
	)
	s.view(func(d *model.StorageData) {
		if p := d.FindGroup(id); p != nil {
			g, ok = *p, true
		}
	})
	return g, ok
}

// ShortcutKey returns the current trigger key.
func (s *Session) ShortcutKey() string {
	var key string
	s.view(func(d *model.StorageData) {
		key = d.ShortcutKey
	})
	return key
}
