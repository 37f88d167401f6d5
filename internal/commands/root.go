package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/finview-dev/finview/internal/buildinfo"
)

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	var configPath string
	var verbose bool

	rootCmd := &cobra.Command{
		Use:     "finview",
		Short:   "Personal finance ledger reports",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&configPath, "config", "finview.yaml", "path to config file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	env := &commandEnv{
		configPath: &configPath,
		verbose:    &verbose,
	}

	rootCmd.AddCommand(newInitCommand())
	rootCmd.AddCommand(newMainCommand(env))
	rootCmd.AddCommand(newEventsCommand(env))
	rootCmd.AddCommand(newCashbackCommand(env))
	rootCmd.AddCommand(newSearchCommand(env))
	rootCmd.AddCommand(newSpendingCommand(env))
	rootCmd.AddCommand(newServeCommand(env))

	return rootCmd
}

// commandEnv carries the persistent flags into subcommands.
type commandEnv struct {
	configPath *string
	verbose    *bool
}

// logger builds the process logger once per command run. Logging is
// configured here, explicitly, never at package init.
func (e *commandEnv) logger() *slog.Logger {
	level := slog.LevelInfo
	if *e.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
