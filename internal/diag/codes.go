package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Scanner / document structure
	ScanUnclosedCell      Code = 1001
	ScanTableNoDelimiter  Code = 1002
	ScanShortClosingFence Code = 1003

	// Chunk options
	OptBadSyntax    Code = 2001
	OptBadValue     Code = 2002
	OptDuplicateKey Code = 2003

	// IO
	IOLoadFileError Code = 9001
)

var codeDescription = map[Code]string{
	UnknownCode:           "Unknown error",
	ScanUnclosedCell:      "Executable cell is not closed",
	ScanTableNoDelimiter:  "Pipe table header without delimiter row",
	ScanShortClosingFence: "Closing fence shorter than opening fence",
	OptBadSyntax:          "Malformed chunk option",
	OptBadValue:           "Invalid chunk option value",
	OptDuplicateKey:       "Duplicate chunk option",
	IOLoadFileError:       "Failed to load file",
}

// ID returns the stable identifier, e.g. QMD1001.
func (c Code) ID() string {
	if c == UnknownCode {
		return "QMD0000"
	}
	return fmt.Sprintf("QMD%04d", int(c))
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
