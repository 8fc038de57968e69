package token

// Kind represents the category of a document token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the document.
	EOF

	// PipeTableStart is the header row of a pipe table, confirmed by a
	// following delimiter row.
	PipeTableStart
	// ChunkOptionMarker is the `#|` that opens a cell option line.
	ChunkOptionMarker
	// CellBoundary is an opening or closing executable-cell fence.
	CellBoundary

	// Text is a line of ordinary Markdown.
	Text
	// Newline is a line terminator.
	Newline
	// TableRow is a pipe-table row after the confirmed start.
	TableRow
	// ChunkOption is the `key: value` remainder of an option line.
	ChunkOption
	// CellContent is a line of code inside an executable cell.
	CellContent
)

var kindNames = [...]string{
	Invalid:           "Invalid",
	EOF:               "EOF",
	PipeTableStart:    "PipeTableStart",
	ChunkOptionMarker: "ChunkOptionMarker",
	CellBoundary:      "CellBoundary",
	Text:              "Text",
	Newline:           "Newline",
	TableRow:          "TableRow",
	ChunkOption:       "ChunkOption",
	CellContent:       "CellContent",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(?)"
}

// IsEOF reports whether the kind marks end of input.
func (k Kind) IsEOF() bool { return k == EOF }

// IsExternal reports whether the kind is recognized by the external scanner.
func (k Kind) IsExternal() bool {
	switch k {
	case PipeTableStart, ChunkOptionMarker, CellBoundary:
		return true
	default:
		return false
	}
}

// ExternalKinds lists the external kinds in the grammar's declaration order.
var ExternalKinds = [...]Kind{PipeTableStart, ChunkOptionMarker, CellBoundary}
