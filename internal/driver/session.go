package driver

import (
	"context"
	"fmt"
	"strconv"

	"fortio.org/safecast"

	"qmdscan/internal/checkpoint"
	"qmdscan/internal/diag"
	"qmdscan/internal/scanner"
	"qmdscan/internal/source"
	"qmdscan/internal/token"
	"qmdscan/internal/trace"
)

// Session owns the lexing state of one document across edits.
type Session struct {
	fs    *source.FileSet
	file  *source.File
	opts  Options
	toks  []token.Token
	cps   []checkpoint.Entry
	diags []diag.Diagnostic
	final scanner.State
	scans int
}

// Edit replaces the bytes [Start, End) of the current document with Text.
type Edit struct {
	Start uint32
	End   uint32
	Text  []byte
}

// RelexStats describes how much of the document a Relex call revisited.
type RelexStats struct {
	ResumeLine uint32 // first line lexed again
	StopLine   uint32 // line where old and new checkpoints converged; 0 if lexing ran to the end
	Converged  bool
	Tokens     int // tokens produced by the relex pass
}

// NewSession prepares a session for file; call Run before reading results.
func NewSession(fs *source.FileSet, file *source.File, opts Options) *Session {
	return &Session{fs: fs, file: file, opts: opts}
}

// File returns the current revision of the document.
func (s *Session) File() *source.File { return s.file }

// Tokens returns the token stream, ending with EOF.
func (s *Session) Tokens() []token.Token { return s.toks }

// Checkpoints returns the host state recorded at each line start that is
// also a token boundary.
func (s *Session) Checkpoints() []checkpoint.Entry { return s.cps }

// Table returns the checkpoint table of the current revision.
func (s *Session) Table() *checkpoint.Table {
	return &checkpoint.Table{Path: s.file.Path, Hash: s.file.Hash, Entries: s.cps}
}

// State returns the scanner state at the end of the document.
func (s *Session) State() scanner.State { return s.final }

// Scans returns the number of external scanner calls made so far.
func (s *Session) Scans() int { return s.scans }

// Run lexes the whole document from the zero state.
func (s *Session) Run(ctx context.Context) error {
	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "file:"+s.file.Path, trace.CurrentSpan(ctx))

	bag := diag.NewBag(s.opts.MaxDiagnostics)
	h := newHost(s.file, diag.BagReporter{Bag: bag}, tracer, span.ID())
	err := h.run(ctx, 0)

	s.toks = h.toks
	s.cps = h.cps
	s.diags = bag.Items()
	s.final = h.st
	s.scans += h.scans

	span.WithExtra("tokens", strconv.Itoa(len(s.toks))).
		WithExtra("scans", strconv.Itoa(h.scans)).
		End(errDetail(err))
	return err
}

// Diagnostics returns the session's findings sorted by position. An
// executable cell left open at end of input is reported here.
func (s *Session) Diagnostics() *diag.Bag {
	bag := diag.NewBag(s.opts.MaxDiagnostics)
	for _, d := range s.diags {
		bag.Add(d)
	}
	if s.final.InExecutableCell {
		if open, ok := s.openingFence(); ok {
			diag.ReportWarning(diag.BagReporter{Bag: bag}, diag.ScanUnclosedCell, open.Span,
				fmt.Sprintf("executable cell opened with %d backticks is never closed", s.final.FenceLength)).Emit()
		}
	}
	bag.Sort()
	return bag
}

func (s *Session) openingFence() (token.Token, bool) {
	for i := len(s.toks) - 1; i >= 0; i-- {
		if s.toks[i].Kind == token.CellBoundary {
			return s.toks[i], true
		}
	}
	return token.Token{}, false
}

// Relex applies e and lexes again from the checkpoint one line before the
// edited line. Lexing stops as soon as a new checkpoint past the edit
// matches the old checkpoint at the same shifted position; the old tokens
// from there on are reused.
func (s *Session) Relex(ctx context.Context, e Edit) (RelexStats, error) {
	old := s.file
	size, err := safecast.Conv[uint32](len(old.Content))
	if err != nil {
		return RelexStats{}, err
	}
	if e.Start > e.End || e.End > size {
		return RelexStats{}, fmt.Errorf("relex %s: edit [%d,%d) out of range (size %d)", old.Path, e.Start, e.End, size)
	}
	insLen, err := safecast.Conv[uint32](len(e.Text))
	if err != nil {
		return RelexStats{}, err
	}

	content := make([]byte, 0, len(old.Content)-int(e.End-e.Start)+len(e.Text))
	content = append(content, old.Content[:e.Start]...)
	content = append(content, e.Text...)
	content = append(content, old.Content[e.End:]...)
	file := s.fs.Get(s.fs.Add(old.Path, content, old.Flags))
	delta := int64(insLen) - int64(e.End-e.Start)

	oldTable := checkpoint.Table{Entries: s.cps}
	resume := checkpoint.Entry{Line: 1}
	if len(s.cps) > 0 {
		resume = s.cps[oldTable.Before(old.Position(e.Start).Line)]
	}

	tracer := trace.FromContext(ctx)
	span := trace.Begin(tracer, trace.ScopeFile, "relex:"+file.Path, trace.CurrentSpan(ctx))

	bag := diag.NewBag(s.opts.MaxDiagnostics)
	h := newHost(file, diag.BagReporter{Bag: bag}, tracer, span.ID())
	h.st = resume.ScannerState()
	h.inTable = resume.Table

	keptToks := retokens(s.toks, resume.Offset, file.ID)
	h.restoreCell(keptToks)

	editEnd := e.Start + insLen
	var oldStop checkpoint.Entry
	h.stop = func(cp checkpoint.Entry) bool {
		if cp.Offset <= editEnd || cp.Offset == resume.Offset {
			return false
		}
		prev, ok := oldTable.At(uint32(int64(cp.Offset) - delta)) //nolint:gosec // cp.Offset > editEnd so the shift stays in range
		if !ok || !prev.Same(cp) {
			return false
		}
		// Options of an open cell depend on what came before them.
		if st := cp.ScannerState(); st.AtCellStart {
			return false
		}
		oldStop = prev
		return true
	}

	if err := h.run(ctx, resume.Offset); err != nil {
		span.End(errDetail(err))
		return RelexStats{}, err
	}

	stats := RelexStats{ResumeLine: resume.Line, Tokens: len(h.toks)}

	toks := append(keptToks, h.toks...)
	cps := append(keepEntries(s.cps, resume.Offset), h.cps...)
	diags := keepDiags(s.diags, resume.Offset, file.ID)
	diags = append(diags, bag.Items()...)
	final := h.st

	if h.stopped {
		stats.Converged = true
		stats.StopLine = h.stopAt.Line
		lines := int64(h.stopAt.Line) - int64(oldStop.Line)
		for _, tok := range s.toks {
			if tok.Span.Start >= oldStop.Offset {
				tok.Span = tok.Span.Shift(delta)
				tok.Span.File = file.ID
				toks = append(toks, tok)
			}
		}
		for _, cp := range s.cps {
			if cp.Offset >= oldStop.Offset {
				cps = append(cps, cp.Shift(delta, lines))
			}
		}
		for _, d := range s.diags {
			if d.Primary.Start >= oldStop.Offset {
				diags = append(diags, shiftDiag(d, delta, file.ID))
			}
		}
		final = s.final
	}

	s.file = file
	s.toks = toks
	s.cps = cps
	s.diags = diags
	s.final = final
	s.scans += h.scans

	span.WithExtra("resume", strconv.FormatUint(uint64(stats.ResumeLine), 10)).
		WithExtra("converged", strconv.FormatBool(stats.Converged)).
		End("")
	return stats, nil
}

// retokens returns the tokens ending at or before off, rebound to file.
func retokens(toks []token.Token, off uint32, file source.FileID) []token.Token {
	out := make([]token.Token, 0, len(toks))
	for _, tok := range toks {
		if tok.Span.End > off || tok.Kind == token.EOF {
			break
		}
		tok.Span.File = file
		out = append(out, tok)
	}
	return out
}

func keepEntries(cps []checkpoint.Entry, off uint32) []checkpoint.Entry {
	out := make([]checkpoint.Entry, 0, len(cps))
	for _, cp := range cps {
		if cp.Offset >= off {
			break
		}
		out = append(out, cp)
	}
	return out
}

func keepDiags(ds []diag.Diagnostic, off uint32, file source.FileID) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(ds))
	for _, d := range ds {
		if d.Primary.End <= off && d.Primary.Start < off {
			out = append(out, shiftDiag(d, 0, file))
		}
	}
	return out
}

func shiftDiag(d diag.Diagnostic, delta int64, file source.FileID) diag.Diagnostic {
	d.Primary = d.Primary.Shift(delta)
	d.Primary.File = file
	if len(d.Notes) > 0 {
		notes := make([]diag.Note, len(d.Notes))
		for i, n := range d.Notes {
			n.Span = n.Span.Shift(delta)
			n.Span.File = file
			notes[i] = n
		}
		d.Notes = notes
	}
	return d
}

func errDetail(err error) string {
	if err != nil {
		return err.Error()
	}
	return ""
}
