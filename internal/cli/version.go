// Version command for the warden CLI.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the toolkit release version.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/warden"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the warden version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "warden v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
