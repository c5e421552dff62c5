package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/mesh-intelligence/tangram"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the tangram version",
		RunE: func(cmd *cobra.Command, args []string) error {
			if flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]string{"version": Version, "module": modulePath})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "tangram v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
