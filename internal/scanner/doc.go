// Package scanner is the external scanner of the Quarto grammar: the
// context-sensitive part of tokenization that the context-free grammar cannot
// express.
//
// Three token kinds are recognized:
//
//   - PipeTableStart: a `|` line confirmed as a table header by a following
//     delimiter row (`|---`, `| :--:`).
//   - ChunkOptionMarker: `#|` at the top of an executable cell.
//   - CellBoundary: a backtick fence of three or more that opens a cell
//     (followed by `{`) or closes the open one (at least as long, nothing
//     else on the line).
//
// # Protocol
//
// The host calls Scan once per token position with the set of kinds its
// parse state accepts. Scan reads through a Lookahead cursor, never commits to
// a kind outside the set, and returns the updated State. State is a plain
// value; the host owns it and checkpoints it with Encode/Decode.
//
// Recognizers cannot roll back. A failed PipeTableStart attempt leaves the
// cursor after the header line, and any recognizer tried afterwards in the
// same call starts from there. Hosts restart their own lexing from the token
// start when Scan reports no match.
package scanner
