// Audit init command for the warden CLI.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newAuditInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize warden configuration and audit storage",
		Long:  "Create the configuration directory, a default config.yaml, and the audit database.",
		RunE:  runAuditInit,
	}
}

func runAuditInit(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	defer env.close()

	fmt.Fprintf(cmd.OutOrStdout(), "root: %s\naudit: %s\n", env.root, env.auditDB)
	fmt.Fprintln(cmd.OutOrStdout(), "Warden initialized successfully")
	return nil
}
