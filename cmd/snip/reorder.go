package main

import (
	"fmt"

	"github.com/jacksmith/snip/internal/model"
	"github.com/spf13/cobra"
)

var reorderCmd = &cobra.Command{
	Use:   "reorder <group> <id>...",
	Short: "Set the order of a group's templates",
	Long: `Set the order of the templates in a group.

The listed templates come first, in the given order. Templates of the group
that are not listed keep their relative order after them. IDs from other
groups are ignored.

Examples:
  snip reorder Writing T-03 T-01`,
	Args:              cobra.MinimumNArgs(2),
	RunE:              runReorder,
	ValidArgsFunction: completeGroupThenTemplates,
}

func init() {
	rootCmd.AddCommand(reorderCmd)
}

func runReorder(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	g, err := a.session.ResolveGroup(args[0])
	if err != nil {
		return err
	}

	ids := make([]int, 0, len(args)-1)
	for _, ref := range args[1:] {
		id, err := model.ParseTemplateID(ref)
		if err != nil {
			return err
		}
		ids = append(ids, id)
	}

	if err := a.session.ReorderTemplates(ctx, g.ID, ids); err != nil {
		return err
	}

	d := a.session.Snapshot()
	r := newRefs(d)
	fmt.Printf("%s:", g.DisplayName())
	for _, t := range d.TemplatesInGroup(model.GroupRef(g.ID)) {
		fmt.Printf(" %s", r.template(t.ID))
	}
	fmt.Println()
	return nil
}
