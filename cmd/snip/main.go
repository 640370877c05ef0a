// Package main is the entry point for the snip CLI.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/jacksmith/snip/internal/cli"
	"github.com/jacksmith/snip/internal/storage"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags.
var Version = "dev"

var verbose bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, cli.FormatError(err))
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "snip",
	Short: "snip - grouped text templates with trigger-key insertion",
	Long: `snip keeps reusable text templates in ordered groups.

Templates are inserted by typing the shortcut key (default "#") followed by
part of a template name. Content may carry {{name}} placeholders that are
filled in on insertion.

Data lives in .snip/ in the current directory; user settings are read from
.snipconfig.yaml, SNIP_ variables in .env and the environment.`,
	Version:           Version,
	SilenceErrors:     true,
	SilenceUsage:      true,
	PersistentPreRunE: setupLogging,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

func init() {
	rootCmd.CompletionOptions.DisableDefaultCmd = true
	rootCmd.SetVersionTemplate("snip version {{.Version}}\n")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
}

// setupLogging configures the global logger from the user config. A broken
// config is reported by the command that needs it, not here.
func setupLogging(cmd *cobra.Command, args []string) error {
	level := storage.DefaultLogLevel
	if cfg, err := storage.LoadConfig("."); err == nil {
		level = cfg.LogLevel
	}
	return configureLogger(os.Stderr, level, verbose)
}

func configureLogger(w io.Writer, level string, debug bool) error {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		return fmt.Errorf("invalid log_level %q: %w", level, err)
	}
	if debug {
		lvl = zerolog.DebugLevel
	}
	zerolog.SetGlobalLevel(lvl)
	log.Logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        w,
		NoColor:    !cli.IsTerminal(w),
		TimeFormat: "15:04:05",
	}).With().Timestamp().Logger()
	return nil
}
