package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/snip/internal/cli"
	"github.com/jacksmith/snip/internal/model"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list [group]",
	Short: "List templates by group",
	Long: `List templates grouped and in order, with a preview of their content.

Templates whose group no longer exists are listed last under "other".
Give a group to list only that group.`,
	Args:              cobra.MaximumNArgs(1),
	RunE:              runList,
	ValidArgsFunction: completeGroupRefs,
}

var listWidth int

func init() {
	listCmd.Flags().IntVarP(&listWidth, "width", "w", cli.DefaultPreviewWidth, "maximum width of content previews")
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, args []string) error {
	a, err := openApp(commandContext(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	d := a.session.Snapshot()
	buckets := d.Buckets()
	if len(args) == 1 {
		g, err := a.session.ResolveGroup(args[0])
		if err != nil {
			return err
		}
		buckets = []model.Bucket{{Group: g, Templates: d.TemplatesInGroup(model.GroupRef(g.ID))}}
	}

	if len(buckets) == 0 {
		fmt.Println("No templates. Add a group with 'snip group add <name>'.")
		return nil
	}

	r := newRefs(d)
	for i, b := range buckets {
		if i > 0 {
			fmt.Println()
		}
		fmt.Println(cli.GroupHeader(r.group(b.Group.ID), b.Group.DisplayName(), len(b.Templates), b.Orphan))

		table := cli.NewTable()
		table.SetIndent("  ")
		table.SetMaxWidth(2, listWidth)
		for _, t := range b.Templates {
			table.AddRow(r.template(t.ID), t.Name, cli.Gray(cli.Preview(t.Content, listWidth)))
		}
		table.Render(os.Stdout)
	}
	return nil
}
