// Package redact prepares untrusted input for inclusion in logs and audit
// records. Hostile candidates can embed control bytes or be arbitrarily
// long; everything that leaves a trust boundary for a log line goes through
// Sanitize first.
package redact

import "strconv"

// Limit is the maximum number of raw input bytes kept in a sanitized
// string. Anything beyond it is dropped and marked.
const Limit = 64

// Sanitize truncates s to Limit bytes and escapes control and non-ASCII
// bytes so the result is safe to embed in a single log field.
func Sanitize(s string) string {
	truncated := false
	if len(s) > Limit {
		s = s[:Limit]
		truncated = true
	}

	quoted := strconv.Quote(s)
	// Strip the surrounding quotes added by strconv.Quote.
	quoted = quoted[1 : len(quoted)-1]

	if truncated {
		quoted += "...(truncated)"
	}
	return quoted
}
