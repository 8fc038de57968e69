package scanner_test

import (
	"fmt"
	"testing"

	"qmdscan/internal/scanner"
	"qmdscan/internal/token"
)

func TestPipeTableStart(t *testing.T) {
	tests := []struct {
		name  string
		input string
		ok    bool
		text  string
	}{
		{"confirmed", "| a | b |\n|---|---|\n", true, "| a | b |\n|---"},
		{"no delimiter row", "| a | b |\nnot a delimiter\n", false, ""},
		{"aligned", "|a|\n  | :--: |\n", true, "|a|\n  | :--:"},
		{"crlf", "|a|\r\n|-|\r\n", true, "|a|\r\n|-"},
		{"bare cr", "|a|\r|-|", true, "|a|\r|-"},
		{"colon only", "|a|\n|:|\n", false, ""},
		{"no next line", "| a |", false, ""},
		{"blank line between", "|a|\n\n|---|\n", false, ""},
		{"leading whitespace skipped", "   | a |\n|--|\n", true, "| a |\n|--"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCursor(t, tt.input)
			st, tok, ok := scanAt(t, scanner.State{}, c, 0, onlyTable)
			if ok != tt.ok {
				t.Fatalf("ok = %v, want %v", ok, tt.ok)
			}
			if !st.IsZero() {
				t.Fatalf("table recognition must not touch state, got %v", st)
			}
			if ok && (tok.Kind != token.PipeTableStart || tok.Text != tt.text) {
				t.Fatalf("got %v %q, want %q", tok.Kind, tok.Text, tt.text)
			}
		})
	}
}

func TestFailedTableAttemptConsumesHeaderLine(t *testing.T) {
	c := newCursor(t, "| a |\nplain\n")
	c.Begin(0)
	if _, _, ok := scanner.Scan(scanner.State{}, c, onlyTable); ok {
		t.Fatalf("expected failure")
	}
	if c.Off != lineStart(c, 2) {
		t.Fatalf("cursor should sit at the start of line 2, got %d", c.Off)
	}
}

func TestFailedTableAttemptIsNotRolledBack(t *testing.T) {
	// The boundary recognizer runs where the table lookahead stopped, so a
	// fence on the following line closes the cell within the same call.
	c := newCursor(t, "| x\n```\n")
	open := scanner.State{InExecutableCell: true, FenceLength: 3}
	st, tok, ok := scanAt(t, open, c, 0, token.NewSet(token.PipeTableStart, token.CellBoundary))
	if !ok || tok.Kind != token.CellBoundary {
		t.Fatalf("expected CellBoundary, got ok=%v %v", ok, tok.Kind)
	}
	if tok.Text != "| x\n```" {
		t.Fatalf("unexpected token text %q", tok.Text)
	}
	if !st.IsZero() {
		t.Fatalf("cell should be closed, got %v", st)
	}
}

func TestChunkOptionMarkerGating(t *testing.T) {
	inputs := []string{"#| echo: false\n", "#|", "# | x", "```{r}", "plain"}
	states := []scanner.State{
		{},
		{InExecutableCell: true, FenceLength: 3},
	}
	for _, st := range states {
		for _, in := range inputs {
			c := newCursor(t, in)
			c.Begin(0)
			next, _, ok := scanner.Scan(st, c, onlyMarker)
			if ok {
				t.Fatalf("marker recognized in %v for %q", st, in)
			}
			if next != st {
				t.Fatalf("failed marker changed %v into %v", st, next)
			}
			if c.Off != 0 {
				t.Fatalf("gated marker consumed input (%d bytes) for %q", c.Off, in)
			}
		}
	}
}

func TestChunkOptionMarker(t *testing.T) {
	top := scanner.State{InExecutableCell: true, AtCellStart: true, FenceLength: 3}

	c := newCursor(t, "#|  echo: false\n")
	st, tok, ok := scanAt(t, top, c, 0, cellTop)
	if !ok || tok.Kind != token.ChunkOptionMarker {
		t.Fatalf("expected marker, got ok=%v kind=%v", ok, tok.Kind)
	}
	if tok.Text != "#|  " {
		t.Fatalf("marker must include trailing whitespace, got %q", tok.Text)
	}
	if st != top {
		t.Fatalf("marker must keep the cell-start state, got %v", st)
	}

	c = newCursor(t, "#x = 1\n")
	st, _, ok = scanAt(t, top, c, 0, cellTop)
	if ok {
		t.Fatalf("`#x` is not a marker")
	}
	if st.AtCellStart {
		t.Fatalf("failed marker attempt must clear AtCellStart")
	}
	if !st.InExecutableCell || st.FenceLength != 3 {
		t.Fatalf("failed marker attempt must keep the cell open, got %v", st)
	}
}

func TestMarkerPositionIsSignificant(t *testing.T) {
	top := scanner.State{InExecutableCell: true, AtCellStart: true, FenceLength: 3}
	c := newCursor(t, "  #| echo: true\n")
	st, _, ok := scanAt(t, top, c, 0, cellTop)
	if ok {
		t.Fatalf("indented marker must not be recognized")
	}
	if st.AtCellStart {
		t.Fatalf("AtCellStart should be cleared")
	}
}

func TestOpeningFence(t *testing.T) {
	tests := []struct {
		input string
		text  string
		fence uint16
	}{
		{"```{python}\n", "```", 3},
		{"````{r}\n", "````", 4},
		{"``` {r, echo=FALSE}\n", "``` ", 3},
		{"  ```{julia}\n", "```", 3},
	}
	for _, tt := range tests {
		c := newCursor(t, tt.input)
		st, tok, ok := scanAt(t, scanner.State{}, c, 0, onlyBoundary)
		if !ok {
			t.Fatalf("%q: expected opening fence", tt.input)
		}
		if tok.Text != tt.text {
			t.Fatalf("%q: token text %q, want %q", tt.input, tok.Text, tt.text)
		}
		want := scanner.State{InExecutableCell: true, AtCellStart: true, FenceLength: tt.fence}
		if st != want {
			t.Fatalf("%q: state %v, want %v", tt.input, st, want)
		}
	}
}

func TestBoundaryRejects(t *testing.T) {
	open := scanner.State{InExecutableCell: true, FenceLength: 3}
	tests := []struct {
		name  string
		st    scanner.State
		input string
	}{
		{"two backticks", open, "``\n"},
		{"plain fenced code", scanner.State{}, "```python\n"},
		{"closing without open cell", scanner.State{}, "```\n"},
		{"trailing text", open, "``` x\n"},
		{"not a fence", open, "print(1)\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newCursor(t, tt.input)
			st, _, ok := scanAt(t, tt.st, c, 0, onlyBoundary)
			if ok {
				t.Fatalf("unexpected boundary")
			}
			if st != tt.st {
				t.Fatalf("failed boundary changed state %v -> %v", tt.st, st)
			}
		})
	}
}

func TestClosingFenceAtEndOfInput(t *testing.T) {
	open := scanner.State{InExecutableCell: true, FenceLength: 3}
	c := newCursor(t, "```  ")
	st, tok, ok := scanAt(t, open, c, 0, onlyBoundary)
	if !ok || !st.IsZero() {
		t.Fatalf("fence at EOF must close the cell, ok=%v st=%v", ok, st)
	}
	if tok.Text != "```  " {
		t.Fatalf("unexpected text %q", tok.Text)
	}
}

func TestFenceMatching(t *testing.T) {
	for m := 3; m <= 9; m++ {
		for n := 3; n <= 9; n++ {
			t.Run(fmt.Sprintf("open%d_close%d", m, n), func(t *testing.T) {
				doc := fence(m) + "{r}\n" + fence(n) + "\n"
				c := newCursor(t, doc)

				st, _, ok := scanAt(t, scanner.State{}, c, 0, onlyBoundary)
				if !ok || st.FenceLength != uint16(m) {
					t.Fatalf("opening failed: ok=%v st=%v", ok, st)
				}
				st, _, ok = scanAt(t, st, c, lineStart(c, 2), onlyBoundary)
				if closes := n >= m; ok != closes {
					t.Fatalf("closing recognized=%v, want %v", ok, closes)
				}
				if n >= m && !st.IsZero() {
					t.Fatalf("closing must reset state, got %v", st)
				}
				if n < m && !st.InExecutableCell {
					t.Fatalf("short fence must leave the cell open, got %v", st)
				}
			})
		}
	}
}

func TestHugeFenceSaturates(t *testing.T) {
	c := newCursor(t, fence(70000)+"{r}\n")
	st, _, ok := scanAt(t, scanner.State{}, c, 0, onlyBoundary)
	if !ok || st.FenceLength != 65535 {
		t.Fatalf("expected saturated fence length, got ok=%v %v", ok, st)
	}
	if got := scanner.Decode(scanner.Encode(st)); got != st {
		t.Fatalf("saturated state must round-trip, got %v", got)
	}
}

func fence(n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = '`'
	}
	return string(b)
}
