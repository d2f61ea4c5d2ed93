// Package integration provides CLI integration tests for warden.
package integration

import (
	"bytes"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

var (
	// wardenBin is the path to the built warden binary.
	wardenBin string
	// buildErr captures any build error.
	buildErr error
)

// FindProjectRoot finds the project root by walking up and looking for go.mod.
func FindProjectRoot() (string, error) {
	dir, err := os.Getwd()
	if err != nil {
		return "", err
	}

	for {
		goModPath := filepath.Join(dir, "go.mod")
		if _, err := os.Stat(goModPath); err == nil {
			return dir, nil
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return "", os.ErrNotExist
		}
		dir = parent
	}
}

// cmdResult captures one warden invocation.
type cmdResult struct {
	stdout   string
	stderr   string
	exitCode int
}

// warden runs the built binary with the given environment overrides and
// arguments.
func warden(t *testing.T, env map[string]string, args ...string) cmdResult {
	t.Helper()

	if buildErr != nil {
		t.Fatalf("warden binary not built: %v", buildErr)
	}

	cmd := exec.Command(wardenBin, args...)
	cmd.Env = os.Environ()
	for k, v := range env {
		cmd.Env = append(cmd.Env, k+"="+v)
	}

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	exitCode := 0
	if err != nil {
		exitErr, ok := err.(*exec.ExitError)
		if !ok {
			t.Fatalf("running warden: %v", err)
		}
		exitCode = exitErr.ExitCode()
	}

	return cmdResult{
		stdout:   stdout.String(),
		stderr:   stderr.String(),
		exitCode: exitCode,
	}
}
