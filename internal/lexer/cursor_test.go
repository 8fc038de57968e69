package lexer

import (
	"testing"

	"qmdscan/internal/source"
	"qmdscan/internal/token"
)

// helper function to create a file
func createFile(content string) *source.File {
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.qmd", []byte(content))
	return fs.Get(id)
}

func TestSequentialReading(t *testing.T) {
	cursor := NewCursor(createFile("a\nβ"))

	if cursor.Peek() != 'a' {
		t.Fatalf("expected 'a', got %q", cursor.Peek())
	}
	cursor.Advance(false)
	if cursor.Peek() != '\n' {
		t.Fatalf("expected newline, got %q", cursor.Peek())
	}
	cursor.Advance(false)
	if cursor.Peek() != 'β' {
		t.Fatalf("expected 'β', got %q", cursor.Peek())
	}
	cursor.Advance(false)
	if cursor.Off != 4 {
		t.Fatalf("expected offset 4 after multi-byte rune, got %d", cursor.Off)
	}
	if !cursor.EOF() || cursor.Peek() != 0 {
		t.Fatalf("expected EOF and Peek()==0")
	}
	cursor.Advance(false) // no-op at EOF
	if cursor.Off != 4 {
		t.Fatalf("Advance past EOF moved the cursor")
	}
}

func TestLeadingSkipMovesTokenStart(t *testing.T) {
	cursor := NewCursor(createFile("  #| x"))
	cursor.Advance(true)
	cursor.Advance(true)
	cursor.Advance(false) // '#'
	cursor.Advance(false) // '|'
	cursor.Advance(true)  // trailing space stays inside the token
	cursor.MarkEnd()
	cursor.Advance(false) // read past the mark

	tok := cursor.Token(token.ChunkOptionMarker)
	if tok.Text != "#| " {
		t.Fatalf("unexpected token text %q", tok.Text)
	}
	if tok.Span.Start != 2 || tok.Span.End != 5 {
		t.Fatalf("unexpected span %v", tok.Span)
	}
	if cursor.Off != 5 {
		t.Fatalf("cursor must restart at the token end, got %d", cursor.Off)
	}
}

func TestTokenWithoutMarkEndEndsAtCursor(t *testing.T) {
	cursor := NewCursor(createFile("| a |\n|--"))
	for range 9 {
		cursor.Advance(false)
	}
	tok := cursor.Token(token.PipeTableStart)
	if tok.Text != "| a |\n|--" {
		t.Fatalf("unexpected text %q", tok.Text)
	}
	if !cursor.EOF() {
		t.Fatalf("expected EOF after consuming the whole input")
	}
}

func TestLimitHidesUnreadInput(t *testing.T) {
	cursor := NewCursor(createFile("abc"))
	cursor.Limit = 2
	cursor.Advance(false)
	cursor.Advance(false)
	if !cursor.EOF() || cursor.Peek() != 0 {
		t.Fatalf("expected EOF at limit")
	}
}

func TestMarkReset(t *testing.T) {
	cursor := NewCursor(createFile("abc"))
	mark := cursor.Mark()
	cursor.Bump()
	cursor.Bump()
	cursor.MarkEnd()
	cursor.Reset(mark)
	if cursor.Peek() != 'a' {
		t.Fatalf("expected 'a' after reset, got %q", cursor.Peek())
	}
	if sp := cursor.TokenSpan(); !sp.Empty() {
		t.Fatalf("reset must drop the pending token, got %v", sp)
	}
}

func TestLineHelpers(t *testing.T) {
	cursor := NewCursor(createFile("  | x\r\nnext"))
	if b := cursor.FirstNonBlank(); b != '|' {
		t.Fatalf("FirstNonBlank = %q", b)
	}
	if rest := cursor.RestOfLine(); rest != "  | x" {
		t.Fatalf("RestOfLine = %q", rest)
	}
	cursor.SkipToLineEnd()
	if cursor.PeekByte() != '\r' {
		t.Fatalf("expected to stop at \\r, got %q", cursor.PeekByte())
	}
	if !cursor.EatNewline() {
		t.Fatalf("expected CRLF to be eaten")
	}
	if cursor.PeekByte() != 'n' || cursor.Column() != 0 {
		t.Fatalf("expected start of next line, got %q col %d", cursor.PeekByte(), cursor.Column())
	}
	if cursor.EatNewline() {
		t.Fatalf("no terminator here")
	}
}
