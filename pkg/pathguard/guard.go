// Package pathguard validates untrusted relative paths against a fixed,
// canonical root directory.
//
// A Guard is built once per trust boundary from a trusted root and never
// re-derived from untrusted input. Validation rejects traversal lexically
// before touching the filesystem, then canonicalizes the joined path and
// checks that the result still lives under the root, which catches
// symlink-based escapes that lexical checks alone cannot.
//
// The guard never writes or deletes; the only filesystem access is the
// metadata reads canonicalization requires.
package pathguard

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/mesh-intelligence/warden/internal/redact"
	"github.com/mesh-intelligence/warden/pkg/outcome"
)

// Guard holds a canonical absolute root directory. Immutable after
// construction and safe for concurrent use.
type Guard struct {
	root string
}

// NewGuard canonicalizes root (resolving symlinks and relative segments)
// and returns a Guard fixed to it. Fails with ErrInvalidRoot if root does
// not exist or is not a directory.
func NewGuard(root string) outcome.Outcome[*Guard] {
	if root == "" {
		return outcome.Fail[*Guard](outcome.NewFault(outcome.ErrInvalidRoot, "root must not be empty"))
	}

	abs, err := filepath.Abs(root)
	if err != nil {
		return outcome.Fail[*Guard](outcome.Faultf(outcome.ErrInvalidRoot, "resolving %s", root).WithCause(err))
	}

	canonical, err := filepath.EvalSymlinks(abs)
	if err != nil {
		return outcome.Fail[*Guard](outcome.Faultf(outcome.ErrInvalidRoot, "canonicalizing %s", root).WithCause(err))
	}

	info, err := os.Stat(canonical)
	if err != nil {
		return outcome.Fail[*Guard](outcome.Faultf(outcome.ErrInvalidRoot, "stat %s", root).WithCause(err))
	}
	if !info.IsDir() {
		return outcome.Fail[*Guard](outcome.Faultf(outcome.ErrInvalidRoot, "%s is not a directory", root))
	}

	return outcome.Ok(&Guard{root: canonical})
}

// Root returns the canonical absolute root the guard was built with.
func (g *Guard) Root() string { return g.root }

// Validate checks an untrusted relative candidate against the root.
//
// The candidate is rejected before any filesystem access if it is empty,
// absolute, contains a parent-directory segment, or embeds a NUL byte
// (ErrPathTraversal). The surviving candidate is joined onto the root and
// canonicalized; a candidate that does not resolve fails with ErrNotFound,
// and a resolved path outside the root (a symlink escape) fails with
// ErrPathTraversal. On success the returned ValidatedPath wraps the
// canonical absolute path.
func (g *Guard) Validate(candidate string) outcome.Outcome[ValidatedPath] {
	if fault := rejectLexical(candidate); fault != nil {
		return outcome.Fail[ValidatedPath](fault)
	}

	joined := filepath.Join(g.root, filepath.FromSlash(candidate))
	resolved, err := filepath.EvalSymlinks(joined)
	if err != nil {
		// The raw error embeds the joined path, so it carries whatever
		// bytes the candidate did. Keep only a sanitized rendering.
		return outcome.Fail[ValidatedPath](
			outcome.NewFault(outcome.ErrNotFound, "candidate does not resolve").
				With("candidate", redact.Sanitize(candidate)).
				With("cause", redact.Sanitize(err.Error())))
	}

	if !g.contains(resolved) {
		return outcome.Fail[ValidatedPath](traversalFault(candidate, "resolved target escapes root"))
	}

	return outcome.Ok(ValidatedPath{path: resolved})
}

// rejectLexical applies the filesystem-free checks. It returns nil when the
// candidate survives.
func rejectLexical(candidate string) *outcome.Fault {
	if candidate == "" {
		return traversalFault(candidate, "empty candidate")
	}
	if strings.ContainsRune(candidate, 0) {
		return traversalFault(candidate, "embedded NUL byte")
	}
	if isAbsolute(candidate) {
		return traversalFault(candidate, "absolute path not permitted")
	}
	// Scan segments across both separator styles so a backslash cannot
	// smuggle a parent segment past the check on Windows.
	for _, segment := range strings.FieldsFunc(candidate, isSeparator) {
		if segment == ".." {
			return traversalFault(candidate, "parent-directory segment")
		}
	}
	return nil
}

// isAbsolute reports whether the candidate carries an absolute prefix in
// any platform's notation, including drive-letter prefixes.
func isAbsolute(candidate string) bool {
	if filepath.IsAbs(candidate) {
		return true
	}
	if candidate[0] == '/' || candidate[0] == '\\' {
		return true
	}
	if len(candidate) >= 2 && candidate[1] == ':' && isDriveLetter(candidate[0]) {
		return true
	}
	return false
}

func isDriveLetter(b byte) bool {
	return ('a' <= b && b <= 'z') || ('A' <= b && b <= 'Z')
}

func isSeparator(r rune) bool { return r == '/' || r == '\\' }

// contains reports whether resolved is the root itself or lies strictly
// under it.
func (g *Guard) contains(resolved string) bool {
	if resolved == g.root {
		return true
	}
	return strings.HasPrefix(resolved, g.root+string(os.PathSeparator))
}

func traversalFault(candidate, reason string) *outcome.Fault {
	return outcome.NewFault(outcome.ErrPathTraversal, reason).
		With("candidate", redact.Sanitize(candidate))
}

// ValidatedPath is a canonical absolute path proven to live within its
// originating Guard's root. It can only be produced by Guard.Validate;
// there is no public constructor that bypasses the check.
type ValidatedPath struct {
	path string
}

// String returns the canonical absolute path.
func (p ValidatedPath) String() string { return p.path }
