// Package cli implements the warden command-line interface, the reference
// calling application for the toolkit packages. It owns the concerns the
// library leaves to callers: configuration, structured logging, and
// persistence of trust-boundary decisions to the audit log.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	root      string
	auditDB   string
	jsonMode  bool
	verbose   bool
}

var flags rootFlags

// NewRootCmd creates the top-level "warden" command with global flags and
// all subcommands registered.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "warden",
		Short: "Validate untrusted paths, run commands without a shell, inspect the decision log",
		Long: "Warden guards the trust boundaries of an application: it validates\n" +
			"untrusted filesystem paths against a fixed root, runs external commands\n" +
			"from an explicit argument vector with no shell interpolation, and keeps\n" +
			"an audit log of every decision.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&flags.root, "root", "", "guard root directory (default: WARDEN_ROOT, config value, or CWD)")
	root.PersistentFlags().StringVar(&flags.auditDB, "audit-db", "", "audit database path (default: <config-dir>/audit.db)")
	root.PersistentFlags().BoolVar(&flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVar(&flags.verbose, "verbose", false, "enable debug logging")

	root.AddCommand(newVersionCmd())
	root.AddCommand(newCheckCmd())
	root.AddCommand(newRunCmd())
	root.AddCommand(newAuditCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		var ec *exitCodeError
		if errors.As(err, &ec) {
			// Diagnostics were already written; only the code remains.
			os.Exit(ec.code)
		}
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(exitUserError)
	}
	os.Exit(exitSuccess)
}

// exitCodeError carries a process exit code up through cobra without
// duplicate error output, for denial exits and child-status passthrough.
type exitCodeError struct {
	code int
}

func (e *exitCodeError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}
