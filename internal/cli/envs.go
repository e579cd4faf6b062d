package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"discogsrec/internal/registry"
)

var envsCmd = &cobra.Command{
	Use:   "envs",
	Short: "List environments recorded in the local registry",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		path, err := registryPath()
		if err != nil {
			return err
		}
		r, err := registry.Open(path)
		if err != nil {
			return err
		}
		defer r.Close() //nolint:errcheck // read-only usage

		entries, err := r.List(cmd.Context())
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			cmd.Println("no environments recorded")
			return nil
		}

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 2, 8, 2, ' ', 0)
		fmt.Fprintln(w, "ROOT\tCREATED\tLAST USED")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\n",
				e.Root,
				e.CreatedAt.Format(time.DateTime),
				e.LastUsedAt.Format(time.DateTime),
			)
		}
		return w.Flush()
	},
}
