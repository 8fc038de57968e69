// Package token defines the token kinds produced while scanning Quarto
// documents, and the candidate set the host passes to the external scanner.
// Invariants:
//   - Token.Text is a slice of the original source.
//   - Token.Span matches Text exactly.
//   - Only PipeTableStart, ChunkOptionMarker and CellBoundary are external
//     kinds; everything else is produced by the host's default tokenization.
package token
