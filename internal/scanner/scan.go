package scanner

import (
	"qmdscan/internal/token"
)

// Scan tries the recognizers allowed by valid in fixed priority order
// (PipeTableStart, ChunkOptionMarker, CellBoundary) and reports the first
// match. The returned State must be passed to the next call. When no
// candidate matches, ok is false and the host falls back to its own lexing.
func Scan(st State, lx Lookahead, valid token.Set) (next State, kind token.Kind, ok bool) {
	// Marker position is significant; for the other kinds leading
	// whitespace is not part of the token.
	if !valid.Has(token.ChunkOptionMarker) {
		skipSpace(lx)
	}

	if valid.Has(token.PipeTableStart) {
		if scanPipeTableStart(lx) {
			return st, token.PipeTableStart, true
		}
	}

	if valid.Has(token.ChunkOptionMarker) {
		if scanChunkOptionMarker(st, lx) {
			return st, token.ChunkOptionMarker, true
		}
		st.AtCellStart = false
	}

	if valid.Has(token.CellBoundary) {
		if after, matched := scanCellBoundary(st, lx); matched {
			return after, token.CellBoundary, true
		}
	}

	return st, token.Invalid, false
}

// Scanner holds the State of one parse session for hosts that prefer a
// stateful handle (create / scan / serialize / deserialize / destroy).
type Scanner struct {
	state State
}

// New returns a scanner in the zero state.
func New() *Scanner { return &Scanner{} }

// Scan runs one scanner call and keeps the resulting state.
func (s *Scanner) Scan(lx Lookahead, valid token.Set) (token.Kind, bool) {
	next, kind, ok := Scan(s.state, lx, valid)
	s.state = next
	return kind, ok
}

// State returns the current state.
func (s *Scanner) State() State { return s.state }

// Serialize writes the state checkpoint into buf and returns its length.
func (s *Scanner) Serialize(buf []byte) int { return s.state.SerializeTo(buf) }

// Deserialize restores a checkpoint; short buffers reset the scanner.
func (s *Scanner) Deserialize(buf []byte) { s.state = Decode(buf) }

// Reset returns the scanner to the session-start state.
func (s *Scanner) Reset() { s.state = State{} }
