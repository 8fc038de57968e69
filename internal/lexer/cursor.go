package lexer

import (
	"fmt"
	"unicode/utf8"

	"fortio.org/safecast"

	"qmdscan/internal/source"
	"qmdscan/internal/token"
)

// Cursor walks a document on behalf of the host and implements the
// scanner.Lookahead contract for one token at a time.
type Cursor struct {
	File *source.File
	Off  uint32
	// Limit is the exclusive upper bound for Off; defaults to len(File.Content).
	// A smaller limit models input that has not arrived yet.
	Limit uint32

	start  uint32 // token start, moved by leading skipped runes
	end    uint32 // committed token end
	marked bool
	taken  bool // a significant rune has been consumed
}

// NewCursor creates a new cursor for the provided document.
func NewCursor(f *source.File) Cursor {
	limit, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return Cursor{
		File:  f,
		Off:   0,
		Limit: limit,
	}
}

func (c *Cursor) limit() uint32 {
	if c.Limit != 0 {
		return c.Limit
	}
	lenFileContent, err := safecast.Conv[uint32](len(c.File.Content))
	if err != nil {
		panic(fmt.Errorf("len file content overflow: %w", err))
	}
	return lenFileContent
}

// EOF reports whether the cursor reached the end of the visible input.
func (c *Cursor) EOF() bool {
	return c.Off >= c.limit()
}

// Begin starts a new token at off.
func (c *Cursor) Begin(off uint32) {
	c.Off = off
	c.start = off
	c.end = off
	c.marked = false
	c.taken = false
}

// Peek returns the next code point, or 0 at end of input.
func (c *Cursor) Peek() rune {
	r, _ := c.peekRune()
	return r
}

// Advance consumes one code point. Skipped runes before the first significant
// one move the token start; later skipped runes stay inside the token.
func (c *Cursor) Advance(skip bool) {
	_, sz := c.peekRune()
	if sz == 0 {
		return
	}
	c.Off += uint32(sz)
	if skip && !c.taken {
		c.start = c.Off
		return
	}
	c.taken = true
}

// MarkEnd commits the token end at the current position.
func (c *Cursor) MarkEnd() {
	c.end = c.Off
	c.marked = true
}

// TokenSpan returns the span of the token recognized since Begin. Without a
// MarkEnd call the token ends at the current position.
func (c *Cursor) TokenSpan() source.Span {
	end := c.Off
	if c.marked {
		end = c.end
	}
	if end < c.start {
		end = c.start
	}
	return source.Span{File: c.File.ID, Start: c.start, End: end}
}

// Token materializes the pending token as kind and moves the cursor to its
// end, so input read past the mark is lexed again as the next token.
func (c *Cursor) Token(kind token.Kind) token.Token {
	sp := c.TokenSpan()
	tok := token.Token{
		Kind: kind,
		Span: sp,
		Text: string(c.File.Content[sp.Start:sp.End]),
	}
	c.Begin(sp.End)
	return tok
}

// Mark is a saved cursor position.
type Mark uint32

// Mark saves the current position.
func (c *Cursor) Mark() Mark {
	return Mark(c.Off)
}

// Reset abandons the pending token and restarts at m.
func (c *Cursor) Reset(m Mark) {
	c.Begin(uint32(m))
}

// PeekByte returns the current byte, or 0 at end of input.
func (c *Cursor) PeekByte() byte {
	if c.EOF() {
		return 0
	}
	return c.File.Content[c.Off]
}

// Bump consumes one byte as significant input.
func (c *Cursor) Bump() byte {
	if c.EOF() {
		return 0
	}
	b := c.File.Content[c.Off]
	c.Off++
	c.taken = true
	return b
}

// Column returns the 0-based byte column of the cursor.
func (c *Cursor) Column() uint32 {
	return c.File.Position(c.Off).Col - 1
}

func (c *Cursor) peekRune() (r rune, size int) {
	if c.EOF() {
		return 0, 0
	}
	b := c.File.Content[c.Off]
	if b < utf8.RuneSelf {
		return rune(b), 1
	}
	r, size = utf8.DecodeRune(c.File.Content[c.Off:c.limit()])
	return r, size
}
