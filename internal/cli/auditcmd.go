// Audit commands: inspect the decision log.
package cli

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"
)

func newAuditCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "Inspect the trust-boundary decision log",
	}

	cmd.AddCommand(newAuditInitCmd())
	cmd.AddCommand(newAuditListCmd())

	return cmd
}

func newAuditListCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent decisions, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAuditList(cmd, limit)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of events to list")

	return cmd
}

func runAuditList(cmd *cobra.Command, limit int) error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	defer env.close()

	events, err := env.store.Recent(limit)
	if err != nil {
		return err
	}

	if flags.jsonMode {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(events)
	}

	for _, ev := range events {
		fmt.Fprintf(cmd.OutOrStdout(), "%s\t%s\t%s\t%s\t%s\n",
			ev.OccurredAt.Format(time.RFC3339),
			ev.Kind,
			ev.Decision,
			ev.Subject,
			ev.Detail,
		)
	}
	return nil
}
