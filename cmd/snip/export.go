package main

import (
	"fmt"
	"os"

	"github.com/jacksmith/snip/internal/model"
	"github.com/spf13/cobra"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export templates as YAML",
	Long: `Write every group and template as a YAML document, in display order.
Templates whose group no longer exists are written under "ungrouped".

The document can be read back with 'snip import'.`,
	Args: cobra.NoArgs,
	RunE: runExport,
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Replace all templates with an export",
	Long: `Replace the whole store with the contents of an export file.

List positions in the file become the order. When the file sets no
shortcut_key the current key is kept.`,
	Args: cobra.ExactArgs(1),
	RunE: runImport,
}

var exportOutput string

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write to file instead of stdout")
	rootCmd.AddCommand(exportCmd, importCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	a, err := openApp(commandContext(cmd))
	if err != nil {
		return err
	}
	defer a.Close()

	d := a.session.Snapshot()
	if exportOutput != "" {
		if err := model.SaveExport(exportOutput, d); err != nil {
			return err
		}
		fmt.Printf("Exported %s and %s to %s\n",
			plural(len(d.Groups), "group", "groups"), plural(len(d.Templates), "template", "templates"), exportOutput)
		return nil
	}

	data, err := model.MarshalExport(d)
	if err != nil {
		return err
	}
	_, err = os.Stdout.Write(data)
	return err
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	imported, err := model.LoadExport(args[0])
	if err != nil {
		return err
	}

	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := a.session.Import(ctx, imported); err != nil {
		return err
	}
	fmt.Printf("Imported %s and %s.\n",
		plural(len(imported.Groups), "group", "groups"), plural(len(imported.Templates), "template", "templates"))
	return nil
}
