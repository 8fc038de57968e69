package scanner

// scanPipeTableStart confirms that the current line is a table header by
// finding a delimiter row (`| :---`) on the next line. The whole header line
// is consumed whatever the outcome.
func scanPipeTableStart(lx Lookahead) bool {
	for !isLineEnd(lx.Peek()) {
		lx.Advance(false)
	}

	if lx.Peek() == '\r' {
		lx.Advance(false)
	}
	if lx.Peek() == '\n' {
		lx.Advance(false)
	}

	skipSpace(lx)
	if lx.Peek() != '|' {
		return false
	}
	lx.Advance(false)
	skipSpace(lx)

	if lx.Peek() == ':' {
		lx.Advance(false)
	}
	dashes := 0
	for lx.Peek() == '-' {
		dashes++
		lx.Advance(false)
	}
	if lx.Peek() == ':' {
		lx.Advance(false)
	}
	return dashes > 0
}
