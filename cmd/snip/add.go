package main

import (
	"fmt"

	"github.com/jacksmith/snip/internal/model"
	"github.com/spf13/cobra"
)

var addCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Add a new template",
	Long: `Add a template at the end of a group.

If --group is not specified, uses default_group from .snipconfig.yaml.
Content may contain {{name}} placeholders.

Examples:
  snip add summarize -g Writing --content "Summarize {{text}} briefly"
  snip add reply -g Mail -i     # write the content in $EDITOR`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

var (
	addGroup       string
	addContent     string
	addInteractive bool
)

func init() {
	addCmd.Flags().StringVarP(&addGroup, "group", "g", "", "group ID or name")
	addCmd.Flags().StringVar(&addContent, "content", "", "template content")
	addCmd.Flags().BoolVarP(&addInteractive, "interactive", "i", false, "write the template in $EDITOR")

	addCmd.RegisterFlagCompletionFunc("group", completeGroupRefs)

	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	ref := addGroup
	if ref == "" {
		ref = a.cfg.DefaultGroup
	}
	if ref == "" {
		return fmt.Errorf("no group given (use --group or set default_group in .snipconfig.yaml)")
	}
	g, err := a.session.ResolveGroup(ref)
	if err != nil {
		return err
	}

	name, content := args[0], addContent
	if addInteractive {
		edited, err := editTemplate(ctx, fmt.Sprintf("new template in %s", g.DisplayName()),
			editableTemplate{Name: name, Content: content})
		if err != nil {
			return err
		}
		name, content = edited.Name, edited.Content
	}

	id, err := a.session.AddTemplate(ctx, g.ID, name, content)
	if err != nil {
		return err
	}
	fmt.Printf("%s %s (%s)\n", newRefs(a.session.Snapshot()).template(id), name, g.DisplayName())
	return nil
}

// formatTemplateLine is the one-line form used after writes.
func formatTemplateLine(d *model.StorageData, t model.Template) string {
	return fmt.Sprintf("%s %s (%s)", newRefs(d).template(t.ID), t.Name, groupLabel(d, t))
}
