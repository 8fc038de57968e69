package scanner

import (
	"math"

	"fortio.org/safecast"
)

// scanCellBoundary recognizes an opening fence (```` ```{lang} ````) or the
// fence that closes the open cell. It returns the updated state; st is
// returned unchanged on failure.
func scanCellBoundary(st State, lx Lookahead) (State, bool) {
	run := 0
	for lx.Peek() == '`' {
		run++
		lx.Advance(false)
	}
	if run < MinFenceLength {
		return st, false
	}
	n := fenceLength(run)

	skipSpace(lx)
	if lx.Peek() == '{' {
		lx.MarkEnd()
		return opened(n), true
	}

	skipSpace(lx)
	if isLineEnd(lx.Peek()) && st.closes(n) {
		lx.MarkEnd()
		return State{}, true
	}
	return st, false
}

// fenceLength saturates runs that do not fit the 16-bit checkpoint field.
func fenceLength(run int) uint16 {
	n, err := safecast.Conv[uint16](run)
	if err != nil {
		return math.MaxUint16
	}
	return n
}
