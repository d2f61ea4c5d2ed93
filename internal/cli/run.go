// Run command: invoke an external program from an explicit argument vector.
package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/warden/internal/audit"
	"github.com/mesh-intelligence/warden/pkg/command"
)

// runOutput is the JSON rendering of a completed invocation.
type runOutput struct {
	Program  string `json:"program"`
	ExitCode int    `json:"exit_code"`
	Stdout   string `json:"stdout"`
	Stderr   string `json:"stderr"`
}

func newRunCmd() *cobra.Command {
	var (
		failOnNonZero bool
		workDir       string
	)

	cmd := &cobra.Command{
		Use:   "run -- PROGRAM [ARG...]",
		Short: "Run a program with verbatim arguments and no shell",
		Long: "Run invokes the program with the exact argument vector. Arguments are\n" +
			"never passed through a shell, so metacharacters reach the program as\n" +
			"literal text. The child's exit status becomes warden's exit status.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRun(cmd, args, failOnNonZero, workDir)
		},
	}

	cmd.Flags().BoolVar(&failOnNonZero, "fail-on-nonzero", false, "treat a non-zero exit status as a fault")
	cmd.Flags().StringVar(&workDir, "dir", "", "working directory for the child process")

	return cmd
}

func runRun(cmd *cobra.Command, args []string, failOnNonZero bool, workDir string) error {
	env, err := newEnv()
	if err != nil {
		return err
	}
	defer env.close()

	spec := command.New(args[0]).Args(args[1:]...).Dir(workDir)
	if failOnNonZero {
		spec = spec.FailOnNonZero()
	}

	result, fault := spec.Run(cmd.Context()).Get()
	if fault != nil {
		env.record(audit.KindCommandRun, audit.DecisionDeny, args[0], fault.Error())
		return fault
	}

	env.record(audit.KindCommandRun, audit.DecisionAllow, args[0], fmt.Sprintf("exit status %d", result.ExitCode))

	if flags.jsonMode {
		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		if err := enc.Encode(runOutput{
			Program:  args[0],
			ExitCode: result.ExitCode,
			Stdout:   result.Stdout,
			Stderr:   result.Stderr,
		}); err != nil {
			return err
		}
	} else {
		fmt.Fprint(cmd.OutOrStdout(), result.Stdout)
		fmt.Fprint(cmd.ErrOrStderr(), result.Stderr)
	}

	if result.ExitCode != 0 {
		return &exitCodeError{code: result.ExitCode}
	}
	return nil
}
