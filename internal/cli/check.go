// Check command: validate candidate paths against the configured root.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/warden/internal/audit"
	"github.com/mesh-intelligence/warden/pkg/pathguard"
)

// checkResult is one candidate's verdict, for both text and JSON output.
type checkResult struct {
	Candidate string `json:"candidate"`
	Allowed   bool   `json:"allowed"`
	Path      string `json:"path,omitempty"`
	Reason    string `json:"reason,omitempty"`
}

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check PATH...",
		Short: "Validate candidate paths against the configured root",
		Long: "Check canonicalizes each candidate against the guard root and reports\n" +
			"whether it stays inside. Denials are recorded in the audit log and the\n" +
			"command exits non-zero if any candidate is denied.",
		Args: cobra.MinimumNArgs(1),
		RunE: runCheck,
	}
}

func runCheck(cmd *cobra.Command, args []string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	defer env.close()

	guard, fault := pathguard.NewGuard(env.root).Get()
	if fault != nil {
		return fault
	}

	denied := false
	results := make([]checkResult, 0, len(args))
	for _, candidate := range args {
		validated, fault := guard.Validate(candidate).Get()
		if fault != nil {
			denied = true
			env.log.Warn().Object("fault", fault).Msg("candidate denied")
			env.record(audit.KindPathCheck, audit.DecisionDeny, candidate, fault.Error())
			results = append(results, checkResult{Candidate: candidate, Reason: fault.Error()})
			continue
		}

		env.record(audit.KindPathCheck, audit.DecisionAllow, candidate, validated.String())
		results = append(results, checkResult{Candidate: candidate, Allowed: true, Path: validated.String()})
	}

	if flags.jsonMode {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Allowed {
				fmt.Fprintf(cmd.OutOrStdout(), "ok\t%s\n", r.Path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "deny\t%s\n", r.Reason)
			}
		}
	}

	if denied {
		return &exitCodeError{code: exitUserError}
	}
	return nil
}
