// Package cli contains the discogsrec command-line interface.
//
// The default operation provisions the legacy Python environment on first
// need and launches the entry program with it; clean destroys the
// environment; serve runs the native Go reconciliation service; envs lists
// environments recorded in the local registry.
package cli

import (
	"context"
	"errors"
	"log/slog"
	"os"

	"discogsrec/internal/pyenv"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

// DefaultEntryProgram is the legacy entry program launched by run.
const DefaultEntryProgram = "discogs.py"

// Version is the semantic version (set via -ldflags).
var Version = "dev"

var (
	verbose          bool
	rootDir          string
	pythonBin        string
	requirementsFile string
	entryProgram     string

	rootCmd = &cobra.Command{
		Use:   "discogsrec",
		Short: "Discogs reconciliation service with a legacy Python harness",
		Long: `discogsrec serves an OpenRefine reconciliation service for the Discogs API.

Invoked without a subcommand it behaves like "run": it makes sure an
isolated Python environment exists (creating the venv, upgrading pip and
installing the requirements manifest on first use) and then launches the
legacy entry program with that environment's interpreter. The entry
program's exit code is propagated verbatim.`,
		Args:         cobra.ArbitraryArgs,
		RunE:         runHarness,
		SilenceUsage: true,
	}
)

func init() {
	cobra.OnInitialize(setupLogging)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&rootDir, "root", pyenv.DefaultRootDir, "environment root directory")
	rootCmd.PersistentFlags().StringVar(&pythonBin, "python", pyenv.DefaultPythonBinary, "base interpreter used to create the environment")
	rootCmd.PersistentFlags().StringVar(&requirementsFile, "requirements", pyenv.DefaultRequirementsFile, "dependency manifest passed to pip")
	rootCmd.PersistentFlags().StringVar(&entryProgram, "entry", DefaultEntryProgram, "entry program launched by run")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(envsCmd)
}

// setupLogging installs the process-wide slog handler. Debug level is
// opt-in via --verbose.
func setupLogging() {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// Execute runs the CLI. Called once from main. The process exit code is
// the entry program's when it ran and exited non-zero.
func Execute() {
	err := fang.Execute(
		context.Background(),
		rootCmd,
		fang.WithVersion(Version),
		fang.WithNotifySignal(os.Interrupt),
	)
	if err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(1)
	}
}
