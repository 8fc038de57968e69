// Package language exposes the Quarto external scanner as a named handle
// for embedding applications.
package language

import (
	"qmdscan/internal/scanner"
	"qmdscan/internal/token"
)

// Language bundles the external token table with the scanner factory and
// state codec.
type Language struct {
	Name string
	// ExternalNames are the grammar symbol names, in valid-symbol order.
	ExternalNames []string
	ExternalKinds []token.Kind
	StateSize     int
}

var quarto = Language{
	Name:          "quarto",
	ExternalNames: []string{"pipe_table_start", "_chunk_option_marker", "_cell_boundary"},
	ExternalKinds: token.ExternalKinds[:],
	StateSize:     scanner.SerializedSize,
}

// Quarto returns the handle of the Quarto Markdown tokenizer.
func Quarto() *Language { return &quarto }

// NewScanner creates a scanner in the zero state.
func (l *Language) NewScanner() *scanner.Scanner { return scanner.New() }

// Scan runs one call with a valid-symbol slice and returns the index of the
// recognized symbol.
func (l *Language) Scan(s *scanner.Scanner, lx scanner.Lookahead, valid []bool) (int, bool) {
	kind, ok := s.Scan(lx, token.SetFromValid(valid))
	if !ok {
		return -1, false
	}
	return l.Symbol(kind), true
}

// Symbol returns the valid-symbol index of kind, or -1.
func (l *Language) Symbol(kind token.Kind) int {
	for i, k := range l.ExternalKinds {
		if k == kind {
			return i
		}
	}
	return -1
}

// SymbolName returns the grammar name of kind, or "".
func (l *Language) SymbolName(kind token.Kind) string {
	if i := l.Symbol(kind); i >= 0 {
		return l.ExternalNames[i]
	}
	return ""
}

// Serialize writes the scanner state into buf.
func (l *Language) Serialize(s *scanner.Scanner, buf []byte) int { return s.Serialize(buf) }

// Deserialize restores the scanner state from buf.
func (l *Language) Deserialize(s *scanner.Scanner, buf []byte) { s.Deserialize(buf) }
