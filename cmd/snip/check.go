package main

import (
	"fmt"

	"github.com/jacksmith/snip/internal/cli"
	"github.com/spf13/cobra"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the store for ordering problems",
	Long: `Check the stored data for integrity problems:

- duplicate group or template IDs
- groups or templates sharing an order
- templates pointing at a group that no longer exists
- orders with gaps

With --fix, dangling templates are detached (they show under "other") and
every order is renumbered. Duplicate IDs are reported but not fixed.

Examples:
  snip check
  snip check --fix`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var checkFix bool

func init() {
	checkCmd.Flags().BoolVar(&checkFix, "fix", false, "repair what can be repaired")
	rootCmd.AddCommand(checkCmd)
}

func runCheck(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	result := a.session.Check()
	if len(result.Violations) == 0 {
		fmt.Println(cli.Green("OK") + " no problems found.")
		return nil
	}

	for _, v := range result.Violations {
		fmt.Printf("%s %s\n", cli.Red("✗"), v.Error())
	}

	if !checkFix {
		return fmt.Errorf("found %s (run 'snip check --fix' to repair)", plural(len(result.Violations), "problem", "problems"))
	}

	fixed, err := a.session.Repair(ctx)
	if err != nil {
		return err
	}
	for _, f := range fixed.Fixes {
		fmt.Printf("%s %s\n", cli.Green("✓"), f.Description)
	}
	if remaining := a.session.Check().Violations; len(remaining) > 0 {
		return fmt.Errorf("%s could not be repaired", plural(len(remaining), "problem", "problems"))
	}
	return nil
}
