// Package outcome defines the result and fault vocabulary used across the
// warden toolkit in place of panics and abnormal termination.
//
// Every fallible toolkit operation returns an Outcome: a terminal tagged
// value carrying either a success value or a *Fault. There is no operation
// that aborts the process on failure, and no accessor that panics; a caller
// either consumes the fault, rewraps it with Propagate, or discards it
// explicitly with LogAndDrop.
package outcome

import "github.com/rs/zerolog"

// Outcome carries either a success value of type T or a Fault. Both states
// are terminal; an Outcome never changes once constructed. The zero value
// is a success holding T's zero value.
type Outcome[T any] struct {
	value T
	fault *Fault
}

// Ok constructs a success outcome.
func Ok[T any](value T) Outcome[T] {
	return Outcome[T]{value: value}
}

// Fail constructs a failure outcome. A nil fault yields a success holding
// T's zero value; producers must pass a non-nil fault.
func Fail[T any](fault *Fault) Outcome[T] {
	return Outcome[T]{fault: fault}
}

// IsOk reports whether the outcome is a success.
func (o Outcome[T]) IsOk() bool { return o.fault == nil }

// Get returns the success value and the fault. Exactly one of the two is
// meaningful: on failure the value is T's zero value, on success the fault
// is nil.
func (o Outcome[T]) Get() (T, *Fault) {
	return o.value, o.fault
}

// Fault returns the failure, or nil for a success.
func (o Outcome[T]) Fault() *Fault { return o.fault }

// OrElse returns the success value, or fallback on failure. It never
// panics, making it the total-function replacement for forced unwrapping.
func (o Outcome[T]) OrElse(fallback T) T {
	if o.fault != nil {
		return fallback
	}
	return o.value
}

// LogAndDrop records the failure with its full context, then discards it.
// This is the only sanctioned way to discard a failed outcome. Successes
// are dropped silently.
func (o Outcome[T]) LogAndDrop(log zerolog.Logger) {
	if o.fault == nil {
		return
	}
	log.Error().Object("fault", o.fault).Msg("fault dropped")
}

// Propagate rewraps a failure as an Outcome of a different value type so a
// caller can short-circuit:
//
//	v := step()
//	if !v.IsOk() {
//		return outcome.Propagate[Result](v)
//	}
//
// Calling Propagate on a success returns a success holding U's zero value;
// callers are expected to check IsOk first.
func Propagate[U, T any](o Outcome[T]) Outcome[U] {
	return Outcome[U]{fault: o.fault}
}

// Map applies fn to the success value, passing a failure through unchanged.
func Map[T, U any](o Outcome[T], fn func(T) U) Outcome[U] {
	if o.fault != nil {
		return Outcome[U]{fault: o.fault}
	}
	return Ok(fn(o.value))
}

// Then chains a fallible step onto a success, preserving the first failure
// encountered: if o failed, fn is never invoked and o's fault is carried
// through unchanged.
func Then[T, U any](o Outcome[T], fn func(T) Outcome[U]) Outcome[U] {
	if o.fault != nil {
		return Outcome[U]{fault: o.fault}
	}
	return fn(o.value)
}
