package ops

import (
	"context"

	"github.com/jacksmith/snip/internal/model"
)

// AddTemplate appends a template to group gid and returns its id. A blank
// name fails validation before anything is queued.
func (s *Session) AddTemplate(ctx context.Context, gid int, name, content string) (int, error) {
	if err := ValidateTemplateName(name); err != nil {
		return 0, err
	}
	var id int
	err := s.mutate(ctx, "addTemplate", func(d *model.StorageData) error {
		t, err := d.AddTemplate(gid, name, content)
		if err != nil {
			return err
		}
		id = t.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}

// UpdateTemplate merges patch into a template. Updating a missing template
// is a no-op.
func (s *Session) UpdateTemplate(ctx context.Context, id int, patch model.TemplatePatch) error {
	if patch.Name != nil {
		if err := ValidateTemplateName(*patch.Name); err != nil {
			return err
		}
	}
	return s.mutate(ctx, "updateTemplate", func(d *model.StorageData) error {
		if !d.UpdateTemplate(id, patch) {
			return errNoop
		}
		return nil
	})
}

// DeleteTemplate removes a template and renumbers its siblings. Deleting a
// missing template is a no-op.
func (s *Session) DeleteTemplate(ctx context.Context, id int) error {
	return s.mutate(ctx, "deleteTemplate", func(d *model.StorageData) error {
		if !d.DeleteTemplate(id) {
			return errNoop
		}
		return nil
	})
}

// ReorderTemplates renumbers the templates of group gid to follow
// orderedIDs.
func (s *Session) ReorderTemplates(ctx context.Context, gid int, orderedIDs []int) error {
	return s.mutate(ctx, "reorderTemplates", func(d *model.StorageData) error {
		d.ReorderTemplates(gid, orderedIDs)
		return nil
	})
}

// MoveTemplateToGroup moves a template to position index of group gid,
// shifting siblings in the source and target groups.
func (s *Session) MoveTemplateToGroup(ctx context.Context, id, gid, index int) error {
	return s.mutate(ctx, "moveTemplateToGroup", func(d *model.StorageData) error {
		changed, err := d.MoveTemplate(id, gid, index)
		if err != nil {
			return err
		}
		if !changed {
			return errNoop
		}
		return nil
	})
}

// DeleteAllTemplates removes every template.
func (s *Session) DeleteAllTemplates(ctx context.Context) error {
	return s.mutate(ctx, "deleteAllTemplates", func(d *model.StorageData) error {
		if len(d.Templates) == 0 {
			return errNoop
		}
		d.DeleteAllTemplates()
		return nil
	})
}

// Import replaces the whole state with d, keeping the current shortcut key
// when d has none.
func (s *Session) Import(ctx context.Context, imported *model.StorageData) error {
	in := imported.Clone()
	return s.mutate(ctx, "import", func(d *model.StorageData) error {
		key := d.ShortcutKey
		*d = *in
		if d.ShortcutKey == "" {
			d.ShortcutKey = key
		}
		d.Normalize()
		return nil
	})
}

// TemplatesInGroup returns the templates of group gid sorted by order.
func (s *Session) TemplatesInGroup(gid int) []model.Template {
	var out []model.Template
	s.view(func(d *model.StorageData) {
		out = d.TemplatesInGroup(model.GroupRef(gid))
	})
	return out
}

// FindTemplate returns a copy of the template with the given id.
func (s *Session) FindTemplate(id int) (model.Template, bool) {
	var (
		t  model.Template
		ok bool
	)
	s.view(func(d *model.StorageData) {
		if p := d.FindTemplate(id); p != nil {
			t, ok = *p, true
			if p.GroupID != nil {
				t.GroupID = model.GroupRef(*p.GroupID)
			}
		}
	})
	return t, ok
}

// Buckets returns the display sections: groups in order, orphans last.
func (s *Session) Buckets() []model.Bucket {
	var out []model.Bucket
	s.view(func(d *model.StorageData) {
		out = d.Buckets()
	})
	return out
}
