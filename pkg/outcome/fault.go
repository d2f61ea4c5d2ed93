package outcome

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rs/zerolog"
)

// Fault kinds. Every failure produced by the toolkit wraps exactly one of
// these sentinels, so callers can classify with errors.Is.
var (
	ErrInvalidRoot   = errors.New("invalid root")
	ErrPathTraversal = errors.New("path traversal")
	ErrNotFound      = errors.New("not found")
	ErrSpawnFailed   = errors.New("spawn failed")
	ErrNonZeroExit   = errors.New("non-zero exit")
)

// Fault describes a failed toolkit operation: a kind sentinel, a
// human-readable message, an optional underlying cause, and key/value
// context safe for logging. Hostile input placed in the context must be
// sanitized by the producer before construction; Fault does not re-inspect
// its fields.
type Fault struct {
	kind     error
	message  string
	cause    error
	exitCode int
	context  []kv
}

type kv struct {
	key   string
	value string
}

// NewFault creates a Fault of the given kind. The kind must be one of the
// package sentinels.
func NewFault(kind error, message string) *Fault {
	return &Fault{kind: kind, message: message}
}

// Faultf creates a Fault with a formatted message.
func Faultf(kind error, format string, args ...any) *Fault {
	return &Fault{kind: kind, message: fmt.Sprintf(format, args...)}
}

// WithCause attaches the underlying error and returns the fault for
// chaining.
func (f *Fault) WithCause(err error) *Fault {
	f.cause = err
	return f
}

// WithExitCode records a process exit code. Meaningful only for
// ErrNonZeroExit faults.
func (f *Fault) WithExitCode(code int) *Fault {
	f.exitCode = code
	return f
}

// With appends one key/value pair of logging context and returns the fault
// for chaining. Values derived from untrusted input must already be
// sanitized.
func (f *Fault) With(key, value string) *Fault {
	f.context = append(f.context, kv{key: key, value: value})
	return f
}

// Kind returns the classifying sentinel.
func (f *Fault) Kind() error { return f.kind }

// Message returns the human-readable message.
func (f *Fault) Message() string { return f.message }

// ExitCode returns the recorded process exit code, or zero if none was set.
func (f *Fault) ExitCode() int { return f.exitCode }

// Context returns the log context as alternating key, value pairs.
func (f *Fault) Context() []string {
	out := make([]string, 0, len(f.context)*2)
	for _, c := range f.context {
		out = append(out, c.key, c.value)
	}
	return out
}

// Error renders "kind: message: cause", omitting empty parts.
func (f *Fault) Error() string {
	var b strings.Builder
	b.WriteString(f.kind.Error())
	if f.message != "" {
		b.WriteString(": ")
		b.WriteString(f.message)
	}
	if f.cause != nil {
		b.WriteString(": ")
		b.WriteString(f.cause.Error())
	}
	return b.String()
}

// Unwrap exposes the kind sentinel and the cause to errors.Is and
// errors.As.
func (f *Fault) Unwrap() []error {
	if f.cause == nil {
		return []error{f.kind}
	}
	return []error{f.kind, f.cause}
}

// MarshalZerologObject writes the full fault context as a structured log
// object.
func (f *Fault) MarshalZerologObject(e *zerolog.Event) {
	e.Str("kind", f.kind.Error())
	if f.message != "" {
		e.Str("message", f.message)
	}
	if f.cause != nil {
		e.Str("cause", f.cause.Error())
	}
	if errors.Is(f.kind, ErrNonZeroExit) {
		e.Int("exit_code", f.exitCode)
	}
	for _, c := range f.context {
		e.Str("ctx_"+c.key, c.value)
	}
}

// Retryable reports whether the fault kind is one a caller may reasonably
// retry. Traversal and root misconfiguration never are; NotFound may be if
// the caller expects eventual creation; exit codes are caller policy.
func (f *Fault) Retryable() bool {
	switch {
	case errors.Is(f.kind, ErrNotFound):
		return true
	case errors.Is(f.kind, ErrNonZeroExit):
		return true
	default:
		return false
	}
}

// compile-time check: Fault logs as a structured object.
var _ zerolog.LogObjectMarshaler = (*Fault)(nil)
