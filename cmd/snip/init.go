package main

import (
	"fmt"

	"github.com/jacksmith/snip/internal/cli"
	"github.com/jacksmith/snip/internal/storage"
	"github.com/spf13/cobra"
)

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize a new snip store",
	Long: `Create a .snip/ directory holding an empty template store.

The backend is taken from --backend, then from the backend setting in
.snipconfig.yaml, and defaults to "file". Backend names may be abbreviated.

  file    one JSON document in .snip/data.json
  pebble  a pebble key-value database in .snip/db/

Fails if .snip/ already exists in the current directory.`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

var initBackend string

var backendNames = []string{string(storage.BackendFile), string(storage.BackendPebble)}

func init() {
	initCmd.Flags().StringVar(&initBackend, "backend", "", "storage backend (file or pebble)")
	initCmd.RegisterFlagCompletionFunc("backend", cobra.FixedCompletions(backendNames, cobra.ShellCompDirectiveNoFileComp))
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	cfg, err := storage.LoadConfig(".")
	if err != nil {
		return err
	}

	backend := cfg.Backend
	if initBackend != "" {
		name, err := cli.MatchPrefix("backend", initBackend, backendNames)
		if err != nil {
			return err
		}
		backend = storage.Backend(name)
	}

	if _, err := storage.Init(".", backend); err != nil {
		return err
	}

	fmt.Printf("Initialized snip in .snip/ (backend: %s)\n", backend)
	return nil
}
