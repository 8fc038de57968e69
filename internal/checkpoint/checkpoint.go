// Package checkpoint stores the scanner state recorded at line starts and
// persists whole tables in an on-disk cache.
package checkpoint

import (
	"fmt"

	"qmdscan/internal/scanner"
)

// Entry is the host state at the start of one line.
type Entry struct {
	Line   uint32                       `msgpack:"l"` // 1-based
	Offset uint32                       `msgpack:"o"`
	State  [scanner.SerializedSize]byte `msgpack:"s"`
	Table  bool                         `msgpack:"t"` // host is inside a pipe table
}

// NewEntry encodes st into an entry.
func NewEntry(line, off uint32, st scanner.State, table bool) Entry {
	e := Entry{Line: line, Offset: off, Table: table}
	st.SerializeTo(e.State[:])
	return e
}

// ScannerState decodes the stored scanner state.
func (e Entry) ScannerState() scanner.State {
	return scanner.Decode(e.State[:])
}

// Same reports whether two entries resume the host identically, ignoring
// where they sit in the document.
func (e Entry) Same(other Entry) bool {
	return e.State == other.State && e.Table == other.Table
}

// Shift moves the entry by delta bytes and lines lines.
func (e Entry) Shift(delta int64, lines int64) Entry {
	e.Offset = uint32(int64(e.Offset) + delta) //nolint:gosec // callers shift within the edited file
	e.Line = uint32(int64(e.Line) + lines)     //nolint:gosec // callers shift within the edited file
	return e
}

func (e Entry) String() string {
	return fmt.Sprintf("%d@%d %x", e.Line, e.Offset, e.State)
}

// Table is the checkpoint list of one document.
type Table struct {
	Path    string   `msgpack:"path"`
	Hash    [32]byte `msgpack:"hash"`
	Entries []Entry  `msgpack:"entries"`
}

// Before returns the index of the last entry whose line is < line, or 0.
func (t *Table) Before(line uint32) int {
	idx := 0
	for i, e := range t.Entries {
		if e.Line >= line {
			break
		}
		idx = i
	}
	return idx
}

// At returns the entry recorded at byte offset off.
func (t *Table) At(off uint32) (Entry, bool) {
	lo, hi := 0, len(t.Entries)
	for lo < hi {
		mid := (lo + hi) / 2
		if t.Entries[mid].Offset < off {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	if lo < len(t.Entries) && t.Entries[lo].Offset == off {
		return t.Entries[lo], true
	}
	return Entry{}, false
}
