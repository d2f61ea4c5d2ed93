// Package secret holds short-lived sensitive byte material with guaranteed
// best-effort scrubbing when the material is released.
//
// A Cell exclusively owns its buffer. Reads happen only through the scoped
// Expose accessor, every textual rendering yields a fixed redaction token,
// and Destroy overwrites the whole buffer with the scrub pattern before
// the cell is abandoned. Direct buffer manipulation is confined to this
// package; the one invariant that makes it safe is that the cell is the
// buffer's sole owner.
package secret

import (
	"errors"
	"fmt"
	"runtime"
)

// Redacted is the fixed token produced by every textual rendering of a
// Cell, regardless of the secret's kind, length, or content.
const Redacted = "[REDACTED]"

// ErrDestroyed is returned by Expose after the cell has been scrubbed.
var ErrDestroyed = errors.New("secret cell destroyed")

// DefaultPattern is the byte written over the buffer on Destroy.
const DefaultPattern byte = 0x00

// Cell exclusively owns one piece of sensitive byte material. A Cell has a
// single owner at a time; callers needing shared access must wrap it in
// their own mutual exclusion.
type Cell struct {
	buf       []byte
	pattern   byte
	destroyed bool
}

// Option configures a Cell at construction.
type Option func(*Cell)

// WithPattern overrides the scrub byte written on Destroy.
func WithPattern(pattern byte) Option {
	return func(c *Cell) { c.pattern = pattern }
}

// NewCell takes ownership of material. The returned cell aliases the given
// slice rather than copying it, so scrubbing the cell scrubs the caller's
// slice too; the caller must not read or write the slice after handing it
// over.
//
// A finalizer scrubs cells that are garbage-collected without an explicit
// Destroy, but callers should not rely on it: call Destroy (or defer it)
// as soon as the material is no longer needed, including on error paths.
func NewCell(material []byte, opts ...Option) *Cell {
	c := &Cell{buf: material, pattern: DefaultPattern}
	for _, opt := range opts {
		opt(c)
	}
	runtime.SetFinalizer(c, (*Cell).Destroy)
	return c
}

// NewCellString copies the string's bytes into a fresh buffer the cell
// owns. Go strings are immutable and cannot be scrubbed, so the original
// string remains in memory until collected; prefer NewCell with a byte
// slice when the material's origin allows it.
func NewCellString(material string, opts ...Option) *Cell {
	return NewCell([]byte(material), opts...)
}

// Expose runs fn with read-only access to the material and returns fn's
// error. The slice passed to fn aliases the cell's buffer and must not be
// retained, copied out, or written to; it is valid only until fn returns.
// Returns ErrDestroyed after Destroy.
func (c *Cell) Expose(fn func(material []byte) error) error {
	if c.destroyed {
		return ErrDestroyed
	}
	defer runtime.KeepAlive(c)
	return fn(c.buf)
}

// Len returns the material's length in bytes, or zero after Destroy.
func (c *Cell) Len() int {
	if c.destroyed {
		return 0
	}
	return len(c.buf)
}

// Destroy overwrites every byte of the buffer with the scrub pattern and
// marks the cell unusable. Idempotent; safe to defer so the scrub also
// runs while unwinding from a failure.
func (c *Cell) Destroy() {
	if c.destroyed {
		return
	}
	for i := range c.buf {
		c.buf[i] = c.pattern
	}
	c.destroyed = true
	runtime.SetFinalizer(c, nil)
}

// String yields the redaction token, never the material.
func (c *Cell) String() string { return Redacted }

// GoString yields the redaction token, keeping %#v from leaking the
// material.
func (c *Cell) GoString() string { return Redacted }

// Format yields the redaction token for every fmt verb.
func (c *Cell) Format(f fmt.State, verb rune) {
	fmt.Fprint(f, Redacted)
}

// MarshalText yields the redaction token, covering encoders that consult
// encoding.TextMarshaler.
func (c *Cell) MarshalText() ([]byte, error) {
	return []byte(Redacted), nil
}

// MarshalJSON yields the redaction token as a JSON string.
func (c *Cell) MarshalJSON() ([]byte, error) {
	return []byte(`"` + Redacted + `"`), nil
}
