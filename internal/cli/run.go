package cli

import (
	"github.com/spf13/cobra"

	"discogsrec/internal/pyenv"
)

var runCmd = &cobra.Command{
	Use:   "run [-- entry program arguments]",
	Short: "Ensure the environment exists, then launch the entry program",
	Long: `run makes sure the isolated Python environment is provisioned and then
executes the entry program with the environment's interpreter. Standard
streams and the working directory are inherited; the entry program's exit
code becomes the exit code of this command.

Provisioning happens at most once: when the environment is already ready,
run goes straight to launching. Installation output streams through
unchanged, so failures surface with the underlying tool's own messages.`,
	Args: cobra.ArbitraryArgs,
	RunE: runHarness,
}

// runHarness implements the default operation: ensure then launch.
func runHarness(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	env := newEnvironment()

	if err := env.EnsureReady(ctx); err != nil {
		return err
	}
	recordEnvironment(ctx, env.Root())

	code, err := env.Run(ctx, entryProgram, args...)
	if err != nil {
		return err
	}
	if code != 0 {
		return &ExitError{Code: code}
	}
	return nil
}

// newEnvironment builds the environment handle from the global flags.
func newEnvironment() *pyenv.Environment {
	return pyenv.New(
		pyenv.WithRoot(rootDir),
		pyenv.WithPython(pythonBin),
		pyenv.WithRequirements(requirementsFile),
	)
}
