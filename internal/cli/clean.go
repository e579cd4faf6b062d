package cli

import (
	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Delete the provisioned environment",
	Long: `clean recursively deletes the environment root directory. There is no
confirmation and no backup; the next run provisions from scratch. Cleaning
an environment that does not exist succeeds.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		env := newEnvironment()
		if err := env.Destroy(); err != nil {
			return err
		}
		forgetEnvironment(cmd.Context(), env.Root())
		return nil
	},
}
