package scanner_test

import (
	"testing"

	"qmdscan/internal/lexer"
	"qmdscan/internal/scanner"
	"qmdscan/internal/source"
	"qmdscan/internal/token"
)

var (
	onlyTable    = token.NewSet(token.PipeTableStart)
	onlyMarker   = token.NewSet(token.ChunkOptionMarker)
	onlyBoundary = token.NewSet(token.CellBoundary)
	cellTop      = token.NewSet(token.ChunkOptionMarker, token.CellBoundary)
	allKinds     = token.NewSet(token.PipeTableStart, token.ChunkOptionMarker, token.CellBoundary)
)

func newCursor(t *testing.T, input string) *lexer.Cursor {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.qmd", []byte(input)))
	c := lexer.NewCursor(file)
	return &c
}

// scanAt runs one scanner call at off and returns the produced token.
func scanAt(t *testing.T, st scanner.State, c *lexer.Cursor, off uint32, valid token.Set) (scanner.State, token.Token, bool) {
	t.Helper()
	c.Begin(off)
	next, kind, ok := scanner.Scan(st, c, valid)
	if !ok {
		return next, token.Token{}, false
	}
	if !valid.Has(kind) {
		t.Fatalf("scanner produced %v outside candidate set %v", kind, valid)
	}
	return next, c.Token(kind), true
}

// lineStart returns the offset of 1-based line n.
func lineStart(c *lexer.Cursor, n uint32) uint32 {
	return c.File.LineStart(n)
}
