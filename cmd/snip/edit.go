package main

import (
	"bytes"
	"context"
	"fmt"

	"github.com/jacksmith/snip/internal/cli"
	"github.com/jacksmith/snip/internal/model"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var editCmd = &cobra.Command{
	Use:   "edit <id>",
	Short: "Edit a template",
	Long: `Change a template's name or content.

Use flags to change specific fields, or -i to edit in $EDITOR.

Examples:
  snip edit T-03 --name=summary
  snip edit T-03 --content="Summarize {{text}} in one line"
  snip edit T-03 -i`,
	Args:              cobra.ExactArgs(1),
	RunE:              runEdit,
	ValidArgsFunction: completeTemplateIDs,
}

var (
	editName        string
	editContent     string
	editInteractive bool
)

func init() {
	editCmd.Flags().StringVar(&editName, "name", "", "set template name")
	editCmd.Flags().StringVar(&editContent, "content", "", "set template content")
	editCmd.Flags().BoolVarP(&editInteractive, "interactive", "i", false, "edit in $EDITOR")
	rootCmd.AddCommand(editCmd)
}

func runEdit(cmd *cobra.Command, args []string) error {
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

	var patch model.TemplatePatch
	if editInteractive {
		edited, err := editTemplate(ctx, "template "+args[0], editableTemplate{Name: t.Name, Content: t.Content})
		if err != nil {
			return err
		}
		if edited.Name != t.Name {
			patch.Name = &edited.Name
		}
		if edited.Content != t.Content {
			patch.Content = &edited.Content
		}
		if patch.Name == nil && patch.Content == nil {
			fmt.Println("No changes.")
			return nil
		}
	} else {
		if flagChanged(cmd, "name") {
			patch.Name = &editName
		}
		if flagChanged(cmd, "content") {
			patch.Content = &editContent
		}
		if patch.Name == nil && patch.Content == nil {
			return fmt.Errorf("no changes specified")
		}
	}

	if err := a.session.UpdateTemplate(ctx, t.ID, patch); err != nil {
		return err
	}
	updated, _ := a.session.FindTemplate(t.ID)
	fmt.Printf("%s updated.\n", formatTemplateLine(a.session.Snapshot(), updated))
	return nil
}

// editableTemplate is the document shown in $EDITOR.
type editableTemplate struct {
	Name    string `yaml:"name"`
	Content string `yaml:"content"`
}

// editTemplate opens t in the user's editor and returns the saved version.
func editTemplate(ctx context.Context, title string, t editableTemplate) (editableTemplate, error) {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# Editing %s\n# Save and close the editor to apply. Use {{name}} for placeholders.\n\n", title)
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(&t); err != nil {
		return editableTemplate{}, fmt.Errorf("failed to marshal template: %w", err)
	}
	enc.Close()

	edited, err := cli.EditInEditor(ctx, buf.Bytes(), ".yaml")
	if err != nil {
		return editableTemplate{}, err
	}

	var out editableTemplate
	if err := yaml.Unmarshal(edited, &out); err != nil {
		return editableTemplate{}, fmt.Errorf("invalid YAML: %w", err)
	}
	return out, nil
}
