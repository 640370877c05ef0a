package drag

import (
	"context"
	"fmt"
)

// CommitKind selects the store operation a drop turns into.
type CommitKind int

const (
	CommitReorderGroups CommitKind = iota
	CommitReorderTemplates
	CommitMoveTemplate
)

func (k CommitKind) String() string {
	switch k {
	case CommitReorderGroups:
		return "reorderGroups"
	case CommitReorderTemplates:
		return "reorderTemplates"
	case CommitMoveTemplate:
		return "moveTemplateToGroup"
	}
	return fmt.Sprintf("CommitKind(%d)", int(k))
}

// Commit is the single store mutation produced by a drop.
type Commit struct {
	Kind CommitKind

	// IDs is the full new sequence for reorder commits.
	IDs []int
	// GroupID is the scope for CommitReorderTemplates and the target group
	// for CommitMoveTemplate.
	GroupID int

	TemplateID int
	Index      int
}

// Apply hands c to the store layer.
func Apply(ctx context.Context, c Commit, store Committer) error {
	switch c.Kind {
	case CommitReorderGroups:
		return store.ReorderGroups(ctx, c.IDs)
	case CommitReorderTemplates:
		return store.ReorderTemplates(ctx, c.GroupID, c.IDs)
	case CommitMoveTemplate:
		return store.MoveTemplateToGroup(ctx, c.TemplateID, c.GroupID, c.Index)
	}
	return fmt.Errorf("unknown commit kind %v", c.Kind)
}
