// Package testkit holds invariant checks shared by unit and fuzz tests.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"qmdscan/internal/checkpoint"
	"qmdscan/internal/scanner"
	"qmdscan/internal/source"
	"qmdscan/internal/token"
)

// CheckTokenInvariants verifies a host token stream against its document:
// 1) exactly one EOF, last, empty, at the end of content
// 2) every other token is non-empty, in bounds, and its Text matches content
// 3) tokens are ordered without overlap; gaps hold only spaces and tabs
// 4) Newline tokens are "\n", "\r\n" or "\r"
func CheckTokenInvariants(toks []token.Token, f *source.File) error {
	if f == nil {
		return fmt.Errorf("nil file")
	}
	size, err := safecast.Conv[uint32](len(f.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if len(toks) == 0 {
		return fmt.Errorf("empty token stream")
	}
	last := toks[len(toks)-1]
	if last.Kind != token.EOF || last.Span.Start != size || last.Span.End != size {
		return fmt.Errorf("stream must end with EOF at %d, got %s %v", size, last.Kind, last.Span)
	}

	var prevEnd uint32
	for i, tok := range toks[:len(toks)-1] {
		sp := tok.Span
		if tok.Kind == token.EOF {
			return fmt.Errorf("token %d: EOF before the end of the stream", i)
		}
		if sp.File != f.ID {
			return fmt.Errorf("token %d: file mismatch: got=%d want=%d", i, sp.File, f.ID)
		}
		if sp.End <= sp.Start {
			return fmt.Errorf("token %d (%s): empty span %v", i, tok.Kind, sp)
		}
		if sp.End > size {
			return fmt.Errorf("token %d (%s): span %v beyond content %d", i, tok.Kind, sp, size)
		}
		if sp.Start < prevEnd {
			return fmt.Errorf("token %d (%s): span %v overlaps previous end %d", i, tok.Kind, sp, prevEnd)
		}
		for off := prevEnd; off < sp.Start; off++ {
			if b := f.Content[off]; b != ' ' && b != '\t' {
				return fmt.Errorf("token %d (%s): gap byte %q at %d", i, tok.Kind, b, off)
			}
		}
		if got := string(f.Content[sp.Start:sp.End]); got != tok.Text {
			return fmt.Errorf("token %d (%s): text %q does not match content %q", i, tok.Kind, tok.Text, got)
		}
		if tok.Kind == token.Newline && tok.Text != "\n" && tok.Text != "\r\n" && tok.Text != "\r" {
			return fmt.Errorf("token %d: newline text %q", i, tok.Text)
		}
		prevEnd = sp.End
	}
	for off := prevEnd; off < size; off++ {
		if b := f.Content[off]; b != ' ' && b != '\t' {
			return fmt.Errorf("trailing byte %q at %d not covered by a token", b, off)
		}
	}
	return nil
}

// CheckStateInvariants verifies a scanner state and its checkpoint round trip.
func CheckStateInvariants(st scanner.State) error {
	if err := st.Validate(); err != nil {
		return err
	}
	if got := scanner.Decode(scanner.Encode(st)); got != st {
		return fmt.Errorf("checkpoint round trip changed %v into %v", st, got)
	}
	return nil
}

// CheckCheckpoints verifies that entries sit at increasing line starts with
// matching line numbers and valid states.
func CheckCheckpoints(cps []checkpoint.Entry, f *source.File) error {
	for i, cp := range cps {
		if i > 0 && cp.Offset <= cps[i-1].Offset {
			return fmt.Errorf("checkpoint %d: offset %d not after %d", i, cp.Offset, cps[i-1].Offset)
		}
		if int(cp.Offset) >= len(f.Content) {
			return fmt.Errorf("checkpoint %d: offset %d at or past end", i, cp.Offset)
		}
		if cp.Offset > 0 {
			prev := f.Content[cp.Offset-1]
			if prev != '\n' && (prev != '\r' || f.Content[cp.Offset] == '\n') {
				return fmt.Errorf("checkpoint %d: offset %d is not a line start", i, cp.Offset)
			}
		}
		if line := f.Position(cp.Offset).Line; line != cp.Line {
			return fmt.Errorf("checkpoint %d: line %d, offset %d is on line %d", i, cp.Line, cp.Offset, line)
		}
		if err := CheckStateInvariants(cp.ScannerState()); err != nil {
			return fmt.Errorf("checkpoint %d: %w", i, err)
		}
	}
	return nil
}
