package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var rmCmd = &cobra.Command{
	Use:               "rm <id>",
	Short:             "Delete a template",
	Args:              cobra.ExactArgs(1),
	RunE:              runRm,
	ValidArgsFunction: completeTemplateIDs,
}

func init() {
	rootCmd.AddCommand(rmCmd)
}

func runRm(cmd *cobra.Command, args []string) error {
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
	line := formatTemplateLine(a.session.Snapshot(), t)
	if err := a.session.DeleteTemplate(ctx, t.ID); err != nil {
		return err
	}
	fmt.Printf("%s deleted.\n", line)
	return nil
}
