package scanner

// scanChunkOptionMarker recognizes `#|` while the cursor is at the top of an
// executable cell. Outside that position it fails before reading anything.
func scanChunkOptionMarker(st State, lx Lookahead) bool {
	if !st.InExecutableCell || !st.AtCellStart {
		return false
	}
	if lx.Peek() != '#' {
		return false
	}
	lx.Advance(false)
	if lx.Peek() != '|' {
		return false
	}
	lx.Advance(false)
	skipSpace(lx)
	lx.MarkEnd()
	return true
}
