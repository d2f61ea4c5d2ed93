package pathguard

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/warden/pkg/outcome"
)

// newTestRoot builds a root directory with a small tree:
//
//	root/
//	  reports/q1.csv
//	  notes.txt
func newTestRoot(t *testing.T) (string, *Guard) {
	t.Helper()
	root := t.TempDir()

	require.NoError(t, os.MkdirAll(filepath.Join(root, "reports"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "reports", "q1.csv"), []byte("q1\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "notes.txt"), []byte("notes\n"), 0o644))

	guard, fault := NewGuard(root).Get()
	require.Nil(t, fault)
	return guard.Root(), guard
}

func TestNewGuardInvalidRoot(t *testing.T) {
	tests := []struct {
		name string
		root func(t *testing.T) string
	}{
		{
			name: "empty root",
			root: func(t *testing.T) string { return "" },
		},
		{
			name: "missing directory",
			root: func(t *testing.T) string { return filepath.Join(t.TempDir(), "absent") },
		},
		{
			name: "root is a file",
			root: func(t *testing.T) string {
				p := filepath.Join(t.TempDir(), "plain.txt")
				require.NoError(t, os.WriteFile(p, []byte("x"), 0o644))
				return p
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, fault := NewGuard(tt.root(t)).Get()
			require.NotNil(t, fault)
			assert.ErrorIs(t, fault, outcome.ErrInvalidRoot)
		})
	}
}

func TestNewGuardCanonicalizesRoot(t *testing.T) {
	base := t.TempDir()
	real := filepath.Join(base, "real")
	require.NoError(t, os.Mkdir(real, 0o755))

	// A root given as a relative-segment detour must still canonicalize.
	guard, fault := NewGuard(filepath.Join(base, "real", "..", "real")).Get()
	require.Nil(t, fault)
	assert.True(t, filepath.IsAbs(guard.Root()))
	assert.Equal(t, "real", filepath.Base(guard.Root()))
}

func TestValidateLexicalRejection(t *testing.T) {
	_, guard := newTestRoot(t)

	tests := []struct {
		name      string
		candidate string
	}{
		{"parent segment", "../etc/passwd"},
		{"nested parent segment", "reports/../../etc/passwd"},
		{"trailing parent segment", "reports/.."},
		{"backslash parent segment", `..\..\etc\passwd`},
		{"mixed separators", `reports\..\..\secret`},
		{"absolute path", "/etc/passwd"},
		{"backslash absolute", `\etc\passwd`},
		{"drive letter", `C:\Windows\system32`},
		{"empty candidate", ""},
		{"embedded NUL", "reports\x00/q1.csv"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, fault := guard.Validate(tt.candidate).Get()
			require.NotNil(t, fault, "candidate %q must be rejected", tt.candidate)
			assert.ErrorIs(t, fault, outcome.ErrPathTraversal)
		})
	}
}

func TestValidateAccepts(t *testing.T) {
	root, guard := newTestRoot(t)

	tests := []struct {
		name      string
		candidate string
		want      string
	}{
		{"top-level file", "notes.txt", filepath.Join(root, "notes.txt")},
		{"nested file", "reports/q1.csv", filepath.Join(root, "reports", "q1.csv")},
		{"subdirectory", "reports", filepath.Join(root, "reports")},
		{"dot resolves to root", ".", root},
		{"redundant current segments", "./reports/./q1.csv", filepath.Join(root, "reports", "q1.csv")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			validated, fault := guard.Validate(tt.candidate).Get()
			require.Nil(t, fault)
			assert.Equal(t, tt.want, validated.String())
			assert.True(t, filepath.IsAbs(validated.String()))
		})
	}
}

func TestValidateNotFound(t *testing.T) {
	_, guard := newTestRoot(t)

	_, fault := guard.Validate("reports/q9.csv").Get()
	require.NotNil(t, fault)
	assert.ErrorIs(t, fault, outcome.ErrNotFound)
}

func TestValidateSymlinkEscape(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires elevation on windows")
	}

	root, guard := newTestRoot(t)

	// A directory outside the root, reachable through a link inside it.
	outside := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(outside, "loot.txt"), []byte("loot"), 0o644))
	require.NoError(t, os.Symlink(outside, filepath.Join(root, "escape")))

	for _, candidate := range []string{"escape", "escape/loot.txt"} {
		_, fault := guard.Validate(candidate).Get()
		require.NotNil(t, fault, "candidate %q must not escape via symlink", candidate)
		assert.ErrorIs(t, fault, outcome.ErrPathTraversal)
	}
}

func TestValidateSymlinkInsideRoot(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires elevation on windows")
	}

	root, guard := newTestRoot(t)
	require.NoError(t, os.Symlink(filepath.Join(root, "reports"), filepath.Join(root, "alias")))

	validated, fault := guard.Validate("alias/q1.csv").Get()
	require.Nil(t, fault)
	assert.Equal(t, filepath.Join(root, "reports", "q1.csv"), validated.String())
}

func TestValidateBrokenSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires elevation on windows")
	}

	root, guard := newTestRoot(t)
	require.NoError(t, os.Symlink(filepath.Join(root, "gone"), filepath.Join(root, "dangling")))

	_, fault := guard.Validate("dangling").Get()
	require.NotNil(t, fault)
	assert.ErrorIs(t, fault, outcome.ErrNotFound)
}

func TestTraversalFaultRedactsCandidate(t *testing.T) {
	_, guard := newTestRoot(t)

	hostile := "../" + string(rune(0x07)) + "bell"
	_, fault := guard.Validate(hostile).Get()
	require.NotNil(t, fault)

	ctx := fault.Context()
	require.Len(t, ctx, 2)
	assert.Equal(t, "candidate", ctx[0])
	assert.NotContains(t, ctx[1], "\x07", "control bytes must not reach logs raw")
}

func TestNotFoundFaultSanitizesCandidate(t *testing.T) {
	_, guard := newTestRoot(t)

	// Survives the lexical checks, fails resolution; the rendered fault
	// must not leak the raw bytes through the filesystem error.
	hostile := "reports/\x1b[31mmissing\x07"
	_, fault := guard.Validate(hostile).Get()
	require.NotNil(t, fault)
	assert.ErrorIs(t, fault, outcome.ErrNotFound)

	assert.NotContains(t, fault.Error(), "\x1b")
	assert.NotContains(t, fault.Error(), "\x07")

	ctx := fault.Context()
	require.Len(t, ctx, 4)
	for i := 1; i < len(ctx); i += 2 {
		assert.NotContains(t, ctx[i], "\x1b", "control bytes must not reach logs raw")
		assert.NotContains(t, ctx[i], "\x07", "control bytes must not reach logs raw")
	}
}
