package scanner

import "fmt"

// MinFenceLength is the shortest backtick run that delimits a cell.
const MinFenceLength = 3

// State is everything the scanner remembers between calls.
type State struct {
	// InExecutableCell is true between an opening fence and its closing fence.
	InExecutableCell bool
	// AtCellStart is true right after the opening fence and after each
	// option marker; option markers are only legal while it holds.
	AtCellStart bool
	// FenceLength is the backtick count of the open fence, 0 outside cells.
	FenceLength uint16
}

// IsZero reports whether s is the session-start state.
func (s State) IsZero() bool { return s == State{} }

// Validate checks the state invariants.
func (s State) Validate() error {
	if s.AtCellStart && !s.InExecutableCell {
		return fmt.Errorf("scanner state %v: cell start outside a cell", s)
	}
	if s.InExecutableCell != (s.FenceLength > 0) {
		return fmt.Errorf("scanner state %v: fence length and cell flag disagree", s)
	}
	if s.InExecutableCell && s.FenceLength < MinFenceLength {
		return fmt.Errorf("scanner state %v: fence shorter than %d", s, MinFenceLength)
	}
	return nil
}

func (s State) String() string {
	return fmt.Sprintf("{cell=%t start=%t fence=%d}", s.InExecutableCell, s.AtCellStart, s.FenceLength)
}

// opened returns the state right after an opening fence of n backticks.
func opened(n uint16) State {
	return State{InExecutableCell: true, AtCellStart: true, FenceLength: n}
}

// closes reports whether a run of n backticks closes the open cell.
func (s State) closes(n uint16) bool {
	return s.InExecutableCell && n >= s.FenceLength
}
