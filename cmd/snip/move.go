package main

import (
	"fmt"

	"github.com/jacksmith/snip/internal/drag"
	"github.com/jacksmith/snip/internal/model"
	"github.com/spf13/cobra"
)

var moveCmd = &cobra.Command{
	Use:   "move <id>",
	Short: "Move a template within or between groups",
	Long: `Move a template by dropping it into a gap of a group's template list.

Gap 0 is before the first template, gap N is after the Nth. Without --index
the template goes to the end. Without --group it stays in its own group.

Templates whose group no longer exists can be moved into a group too;
--index is then their final position.

Examples:
  snip move T-04 --index 0            # first in its group
  snip move T-04 --group Code         # last in Code
  snip move T-04 --group G-02 --index 1`,
	Args:              cobra.ExactArgs(1),
	RunE:              runMove,
	ValidArgsFunction: completeTemplateIDs,
}

var (
	moveGroup string
	moveIndex int
)

func init() {
	moveCmd.Flags().StringVarP(&moveGroup, "group", "g", "", "target group ID or name")
	moveCmd.Flags().IntVar(&moveIndex, "index", -1, "gap index in the target group (default: end)")
	moveCmd.RegisterFlagCompletionFunc("group", completeGroupRefs)
	rootCmd.AddCommand(moveCmd)
}

func runMove(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.resolveTemplate(args[0])
	if err != nil {
		return err
	}
	snap := a.session.Snapshot()
	orphan := snap.IsOrphan(t)

	var target model.Group
	switch {
	case moveGroup != "":
		if target, err = a.session.ResolveGroup(moveGroup); err != nil {
			return err
		}
	case orphan:
		return fmt.Errorf("template %s has no group; use --group to move it into one", args[0])
	default:
		target = *snap.FindGroup(*t.GroupID)
	}

	index := moveIndex
	if index < 0 {
		index = len(snap.TemplatesInGroup(model.GroupRef(target.ID)))
	}

	if orphan {
		if err := a.session.MoveTemplateToGroup(ctx, t.ID, target.ID, index); err != nil {
			return err
		}
	} else {
		m := drag.New(nil)
		if err := m.Start(drag.KindTemplate, t.ID, snap); err != nil {
			return err
		}
		m.Hover(drag.Over{Type: drag.OverGap, Kind: drag.KindTemplate, GroupID: target.ID, Index: index})
		c, ok := m.Drop()
		if !ok {
			fmt.Printf("%s is already there.\n", formatTemplateLine(snap, t))
			return nil
		}
		if err := drag.Apply(ctx, c, a.session); err != nil {
			return err
		}
	}

	after := a.session.Snapshot()
	moved := *after.FindTemplate(t.ID)
	fmt.Printf("Moved %s to position %d.\n", formatTemplateLine(after, moved), after.TemplateIndex(t.ID)+1)
	return nil
}
