package lsp

import (
	"strings"

	protocol "github.com/tliron/glsp/protocol_3_16"
)

// toUInteger safely converts an int to protocol.UInteger (uint32).
// Negative values are clamped to 0.
func toUInteger(n int) protocol.UInteger {
	if n < 0 {
		return 0
	}
	return protocol.UInteger(n) //nolint:gosec // clamped to non-negative
}

// hasURIScheme reports whether s appears to have a URI scheme prefix, per
// RFC3986: scheme = ALPHA *( ALPHA / DIGIT / "+" / "-" / "." ).
func hasURIScheme(s string) bool {
	idx := strings.Index(s, "://")
	if idx <= 0 {
		return false
	}
	scheme := s[:idx]
	if !isSchemeAlpha(scheme[0]) {
		return false
	}
	for i := 1; i < len(scheme); i++ {
		c := scheme[i]
		if !isSchemeAlpha(c) && !isSchemeDigit(c) && c != '+' && c != '-' && c != '.' {
			return false
		}
	}
	return true
}

func isSchemeAlpha(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isSchemeDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
