package token

import (
	"qmdscan/internal/source"
)

// Token represents a single document token with its location.
type Token struct {
	Kind Kind
	Span source.Span
	Text string
}

// IsExternal reports whether the token came from the external scanner.
func (t Token) IsExternal() bool { return t.Kind.IsExternal() }
