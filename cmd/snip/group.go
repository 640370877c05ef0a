package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/snip/internal/cli"
	"github.com/jacksmith/snip/internal/drag"
	"github.com/jacksmith/snip/internal/model"
	"github.com/spf13/cobra"
)

var groupCmd = &cobra.Command{
	Use:   "group",
	Short: "Manage template groups",
	Long: `Manage the groups templates are filed under.

Groups are referenced by ID (G-01, g1, 1) or by a unique prefix of their
name. Deleting a group deletes its templates.`,
}

var groupAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a group at the end",
	Args:  cobra.ExactArgs(1),
	RunE:  runGroupAdd,
}

var groupRenameCmd = &cobra.Command{
	Use:               "rename <group> <name>",
	Short:             "Rename a group",
	Args:              cobra.ExactArgs(2),
	RunE:              runGroupRename,
	ValidArgsFunction: completeGroupRefs,
}

var groupDeleteCmd = &cobra.Command{
	Use:   "delete <group>",
	Short: "Delete a group and its templates",
	Long: `Delete a group. A group that still holds templates is only deleted
with --force, which deletes the templates too.`,
	Args:              cobra.ExactArgs(1),
	RunE:              runGroupDelete,
	ValidArgsFunction: completeGroupRefs,
}

var groupListCmd = &cobra.Command{
	Use:   "list",
	Short: "List groups in order",
	Args:  cobra.NoArgs,
	RunE:  runGroupList,
}

var groupMoveCmd = &cobra.Command{
	Use:   "move <group> --to <gap>",
	Short: "Move a group to another position",
	Long: `Move a group by dropping it into a gap of the group list.

Gap 0 is before the first group, gap N is after the Nth group.

Examples:
  snip group move Code --to 0     # make Code the first group
  snip group move G-01 --to 3     # place after the third group`,
	Args:              cobra.ExactArgs(1),
	RunE:              runGroupMove,
	ValidArgsFunction: completeGroupRefs,
}

var (
	groupDeleteForce bool
	groupMoveTo      int
)

func init() {
	groupDeleteCmd.Flags().BoolVarP(&groupDeleteForce, "force", "f", false, "also delete the group's templates")
	groupMoveCmd.Flags().IntVar(&groupMoveTo, "to", 0, "gap index to drop the group into")
	groupMoveCmd.MarkFlagRequired("to")

	groupCmd.AddCommand(groupAddCmd, groupRenameCmd, groupDeleteCmd, groupListCmd, groupMoveCmd)
	rootCmd.AddCommand(groupCmd)
}

func runGroupAdd(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	id, err := a.session.AddGroup(ctx, args[0])
	if err != nil {
		return err
	}
	g, _ := a.session.FindGroup(id)
	fmt.Printf("%s %s\n", newRefs(a.session.Snapshot()).group(id), g.DisplayName())
	return nil
}

func runGroupRename(cmd *cobra.Command, args []string) error {
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
	name := args[1]
	if err := a.session.UpdateGroup(ctx, g.ID, model.GroupPatch{Name: &name}); err != nil {
		return err
	}
	fmt.Printf("Renamed %q to %q.\n", g.DisplayName(), name)
	return nil
}

func runGroupDelete(cmd *cobra.Command, args []string) error {
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
	n := len(a.session.TemplatesInGroup(g.ID))
	if n > 0 && !groupDeleteForce {
		return fmt.Errorf("group %q has %s (use --force to delete them too)", g.DisplayName(), plural(n, "template", "templates"))
	}
	if err := a.session.DeleteGroup(ctx, g.ID); err != nil {
		return err
	}
	fmt.Printf("Deleted group %q", g.DisplayName())
	if n > 0 {
		fmt.Printf(" and %s", plural(n, "template", "templates"))
	}
	fmt.Println(".")
	return nil
}

func runGroupList(cmd *cobra.Command, args []string) error {
	a, err := openApp(commandContext(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	d := a.session.Snapshot()
	if len(d.Groups) == 0 {
		fmt.Println("No groups. Add one with 'snip group add <name>'.")
		return nil
	}

	r := newRefs(d)
	table := cli.NewTable()
	for _, g := range d.SortedGroups() {
		n := len(d.TemplatesInGroup(model.GroupRef(g.ID)))
		table.AddRow(cli.Cyan(r.group(g.ID)), g.DisplayName(), cli.Gray(plural(n, "template", "templates")))
	}
	table.Render(os.Stdout)
	return nil
}

func runGroupMove(cmd *cobra.Command, args []string) error {
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

	m := drag.New(nil)
	if err := m.Start(drag.KindGroup, g.ID, a.session.Snapshot()); err != nil {
		return err
	}
	m.Hover(drag.Over{Type: drag.OverGap, Kind: drag.KindGroup, Index: groupMoveTo})
	c, ok := m.Drop()
	if !ok {
		fmt.Printf("Group %q is already there.\n", g.DisplayName())
		return nil
	}
	if err := drag.Apply(ctx, c, a.session); err != nil {
		return err
	}
	fmt.Printf("Moved group %q to position %d.\n", g.DisplayName(), a.session.Snapshot().GroupIndex(g.ID)+1)
	return nil
}
