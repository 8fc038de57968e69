package lexer

// ===== Line helpers for the host's default tokenization =====

// SkipToLineEnd consumes everything up to, but not including, the line
// terminator.
func (c *Cursor) SkipToLineEnd() {
	for !c.EOF() {
		b := c.PeekByte()
		if b == '\n' || b == '\r' {
			return
		}
		c.Bump()
	}
}

// EatNewline consumes one "\n", "\r\n" or "\r". It reports whether a
// terminator was present.
func (c *Cursor) EatNewline() bool {
	switch c.PeekByte() {
	case '\n':
		c.Bump()
		return true
	case '\r':
		c.Bump()
		if c.PeekByte() == '\n' {
			c.Bump()
		}
		return true
	}
	return false
}

// FirstNonBlank returns the first byte of the current line after spaces and
// tabs without moving the cursor.
func (c *Cursor) FirstNonBlank() byte {
	lim := c.limit()
	for off := c.Off; off < lim; off++ {
		switch b := c.File.Content[off]; b {
		case ' ', '\t':
			continue
		default:
			return b
		}
	}
	return 0
}

// RestOfLine returns the text between the cursor and the line terminator.
func (c *Cursor) RestOfLine() string {
	lim := c.limit()
	off := c.Off
	for off < lim && c.File.Content[off] != '\n' && c.File.Content[off] != '\r' {
		off++
	}
	return string(c.File.Content[c.Off:off])
}
