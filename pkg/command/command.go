// Package command constructs and runs external processes from an explicit
// argument vector, with no intermediate shell.
//
// The program name is a trusted identifier chosen by calling code; it must
// never be derived from untrusted input. That obligation cannot be checked
// at this layer, so it is part of the contract rather than a runtime
// guard. Arguments, by contrast, may carry arbitrary untrusted bytes: each
// one is handed to the process-creation primitive verbatim, so shell
// metacharacters arrive at the child as literal text.
package command

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os/exec"

	"github.com/mesh-intelligence/warden/internal/redact"
	"github.com/mesh-intelligence/warden/pkg/outcome"
)

// Spec is an ordered (program, arguments) invocation under construction.
// Build it with the chaining setters, then consume it with Run. A Spec is
// built and consumed within a single call chain and is not safe for
// concurrent mutation.
type Spec struct {
	program       string
	args          []string
	dir           string
	env           []string
	stdin         io.Reader
	failOnNonZero bool
}

// Result captures a completed process: its exit code and captured output
// streams.
type Result struct {
	ExitCode int
	Stdout   string
	Stderr   string
}

// New starts a Spec for the given trusted program identifier.
func New(program string) *Spec {
	return &Spec{program: program}
}

// Arg appends one argument verbatim. Repeated calls preserve order.
func (s *Spec) Arg(value string) *Spec {
	s.args = append(s.args, value)
	return s
}

// Args appends several arguments verbatim, preserving order.
func (s *Spec) Args(values ...string) *Spec {
	s.args = append(s.args, values...)
	return s
}

// Dir sets the working directory for the child process. Empty means the
// caller's current directory.
func (s *Spec) Dir(dir string) *Spec {
	s.dir = dir
	return s
}

// Env sets the child's environment to exactly the given KEY=VALUE entries.
// When unset, the child inherits the parent environment.
func (s *Spec) Env(entries ...string) *Spec {
	s.env = entries
	return s
}

// Stdin supplies the child's standard input.
func (s *Spec) Stdin(r io.Reader) *Spec {
	s.stdin = r
	return s
}

// FailOnNonZero opts into treating a non-zero exit status as an
// ErrNonZeroExit fault. Without it, Run returns the exit status
// uninterpreted for the caller to inspect.
func (s *Spec) FailOnNonZero() *Spec {
	s.failOnNonZero = true
	return s
}

// Run invokes the program with the exact argument vector and blocks until
// it exits or ctx is done. Cancellation kills the child through ctx; there
// is no separate cancellation token.
//
// Fails with ErrSpawnFailed if the program cannot be located or started,
// and with ErrNonZeroExit (carrying the exit code) only when the caller
// opted in via FailOnNonZero.
func (s *Spec) Run(ctx context.Context) outcome.Outcome[Result] {
	if s.program == "" {
		return outcome.Fail[Result](outcome.NewFault(outcome.ErrSpawnFailed, "program must not be empty"))
	}

	cmd := exec.CommandContext(ctx, s.program, s.args...)
	cmd.Dir = s.dir
	cmd.Stdin = s.stdin
	if s.env != nil {
		cmd.Env = s.env
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()

	var exitErr *exec.ExitError
	switch {
	case err == nil, errors.As(err, &exitErr):
		result := Result{
			ExitCode: cmd.ProcessState.ExitCode(),
			Stdout:   stdout.String(),
			Stderr:   stderr.String(),
		}
		if err != nil && s.failOnNonZero {
			return outcome.Fail[Result](
				outcome.Faultf(outcome.ErrNonZeroExit, "%s exited with status %d", s.program, result.ExitCode).
					WithExitCode(result.ExitCode).
					With("stderr", redact.Sanitize(result.Stderr)))
		}
		return outcome.Ok(result)
	default:
		return outcome.Fail[Result](
			outcome.Faultf(outcome.ErrSpawnFailed, "starting %s", s.program).WithCause(err))
	}
}
