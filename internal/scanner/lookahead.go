package scanner

// Lookahead is the cursor the host hands to the scanner.
type Lookahead interface {
	// Peek returns the next code point, or 0 at end of input.
	Peek() rune
	// Advance consumes one code point. skip marks it as insignificant
	// whitespace; leading skipped runes are not part of the token.
	Advance(skip bool)
	// MarkEnd fixes the end of the token at the current position.
	MarkEnd()
}

func isSpace(r rune) bool { return r == ' ' || r == '\t' }

// isLineEnd treats end of input as an implicit terminator.
func isLineEnd(r rune) bool { return r == '\n' || r == '\r' || r == 0 }

func skipSpace(lx Lookahead) {
	for isSpace(lx.Peek()) {
		lx.Advance(true)
	}
}
