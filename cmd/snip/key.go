package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var keyCmd = &cobra.Command{
	Use:   "key [new-key]",
	Short: "Show or set the shortcut key",
	Long: `Show the shortcut key that starts a template query, or set a new one.

The key may be several characters but must not contain whitespace.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runKey,
}

func init() {
	rootCmd.AddCommand(keyCmd)
}

func runKey(cmd *cobra.Command, args []string) error {
	ctx := commandContext(cmd)
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	defer a.Close()

	if len(args) == 0 {
		fmt.Println(a.session.ShortcutKey())
		return nil
	}
	if err := a.session.SetShortcutKey(ctx, args[0]); err != nil {
		return err
	}
	fmt.Printf("Shortcut key set to %q.\n", args[0])
	return nil
}
