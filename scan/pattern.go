// Package scan implements the coordinator/worker pipeline: dynamic chunk
// dispatch, framed pipe transport, ordered reassembly, and paragraph matching.
package scan

import (
	"fmt"
	"regexp"
)

// WrapWordBoundary wraps a user pattern so matches are flanked by non-word
// characters or string ends. POSIX character classes keep the wrapped
// expression a valid extended regular expression.
func WrapWordBoundary(pattern string) string {
	return "(^|[^[:alnum:]_])(" + pattern + ")([^[:alnum:]_]|$)"
}

// CompilePattern wraps and compiles a user pattern as a POSIX extended
// regular expression. Applied once at startup; a compile failure aborts
// the run. The user pattern is also compiled on its own first, so a
// malformed pattern (such as an unterminated bracket) cannot be absorbed by
// the wrapper's own brackets and slip through.
func CompilePattern(pattern string) (*regexp.Regexp, error) {
	if _, err := regexp.CompilePOSIX(pattern); err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	re, err := regexp.CompilePOSIX(WrapWordBoundary(pattern))
	if err != nil {
		return nil, fmt.Errorf("invalid pattern %q: %w", pattern, err)
	}
	return re, nil
}
