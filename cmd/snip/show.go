package main

import (
	"fmt"

	"github.com/jacksmith/snip/internal/cli"
	"github.com/jacksmith/snip/internal/insert"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:               "show <id>",
	Short:             "Show a template",
	Args:              cobra.ExactArgs(1),
	RunE:              runShow,
	ValidArgsFunction: completeTemplateIDs,
}

func init() {
	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	a, err := openApp(commandContext(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	t, err := a.resolveTemplate(args[0])
	if err != nil {
		return err
	}
	d := a.session.Snapshot()

	fmt.Printf("ID:       %s\n", newRefs(d).template(t.ID))
	fmt.Printf("Name:     %s\n", t.Name)
	fmt.Printf("Group:    %s\n", groupLabel(d, t))
	fmt.Printf("Position: %d\n", d.TemplateIndex(t.ID)+1)
	if names := insert.Placeholders(t.Content); len(names) > 0 {
		fmt.Printf("Fields:   %v\n", names)
	}
	fmt.Println()
	if t.Content == "" {
		fmt.Println(cli.Gray("(empty)"))
		return nil
	}
	fmt.Println(t.Content)
	return nil
}
