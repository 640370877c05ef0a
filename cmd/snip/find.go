package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/snip/internal/cli"
	"github.com/jacksmith/snip/internal/ops"
	"github.com/spf13/cobra"
)

var findCmd = &cobra.Command{
	Use:   "find <query>",
	Short: "Search templates",
	Long: `Search templates the way the trigger key does.

By default a template matches when its name or content contains the query,
ignoring case, and results keep list order. With --fuzzy (or fuzzy: true in
.snipconfig.yaml) names are matched as subsequences and ranked by closeness within each
group.

Examples:
  snip find sum
  snip find --fuzzy smz`,
	Args: cobra.ExactArgs(1),
	RunE: runFind,
}

var (
	findFuzzy bool
	findLimit int
)

func init() {
	findCmd.Flags().BoolVar(&findFuzzy, "fuzzy", false, "rank names by fuzzy match")
	findCmd.Flags().IntVarP(&findLimit, "limit", "n", 0, "maximum number of results (0 for all)")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	a, err := openApp(commandContext(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	opts := ops.SuggestOptions{Fuzzy: a.cfg.Fuzzy, Limit: findLimit}
	if findFuzzy || flagChanged(cmd, "fuzzy") {
		opts.Fuzzy = findFuzzy
	}

	results := a.session.Suggest(args[0], opts)
	if len(results) == 0 {
		fmt.Printf("No templates match %q.\n", args[0])
		return nil
	}

	r := newRefs(a.session.Snapshot())
	table := cli.NewTable()
	table.SetMaxWidth(3, cli.DefaultPreviewWidth)
	for _, s := range results {
		group := s.GroupName
		if s.Orphan {
			group = cli.Gray(group)
		}
		table.AddRow(r.template(s.Template.ID), s.Template.Name, group, cli.Gray(cli.Preview(s.Template.Content, cli.DefaultPreviewWidth)))
	}
	table.Render(os.Stdout)
	return nil
}
