package driver

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"qmdscan/internal/checkpoint"
	"qmdscan/internal/chunkopt"
	"qmdscan/internal/diag"
	"qmdscan/internal/lexer"
	"qmdscan/internal/scanner"
	"qmdscan/internal/source"
	"qmdscan/internal/token"
	"qmdscan/internal/trace"
)

// host is a line-oriented stand-in for the grammar engine. It offers the
// external scanner the candidate sets the Quarto grammar would at each
// position and lexes everything else itself.
type host struct {
	file    *source.File
	cur     lexer.Cursor
	st      scanner.State
	inTable bool
	cell    *chunkopt.Cell

	rep    diag.Reporter
	tracer trace.Tracer
	parent uint64

	toks []token.Token
	cps  []checkpoint.Entry

	// stop is consulted at every line start; returning true ends the run
	// before that line is lexed.
	stop    func(checkpoint.Entry) bool
	stopped bool
	stopAt  checkpoint.Entry
	scans   int
}

func newHost(file *source.File, rep diag.Reporter, tracer trace.Tracer, parent uint64) *host {
	if rep == nil {
		rep = diag.NopReporter{}
	}
	if tracer == nil {
		tracer = trace.Nop
	}
	return &host{
		file:   file,
		cur:    lexer.NewCursor(file),
		rep:    rep,
		tracer: tracer,
		parent: parent,
	}
}

// run lexes from off to the end of the document or until stop fires.
func (h *host) run(ctx context.Context, off uint32) error {
	h.cur.Begin(off)
	for !h.cur.EOF() {
		lineStart := h.atLineStart()
		if lineStart {
			if err := ctx.Err(); err != nil {
				return err
			}
			cp := checkpoint.NewEntry(h.file.Position(h.cur.Off).Line, h.cur.Off, h.st, h.inTable)
			if h.stop != nil && h.stop(cp) {
				h.stopped = true
				h.stopAt = cp
				return nil
			}
			h.cps = append(h.cps, cp)
		}
		h.step(lineStart)
	}
	h.cur.Begin(h.cur.Off)
	h.toks = append(h.toks, h.cur.Token(token.EOF))
	return nil
}

func (h *host) atLineStart() bool {
	off := h.cur.Off
	if off == 0 {
		return true
	}
	switch h.file.Content[off-1] {
	case '\n':
		return true
	case '\r':
		return h.cur.PeekByte() != '\n'
	}
	return false
}

// step lexes one line, or the remainder of a line after a multi-line token.
func (h *host) step(lineStart bool) {
	switch {
	case !lineStart:
		kind := token.Text
		if h.inTable {
			kind = token.TableRow
		}
		h.rest(kind)
	case h.st.InExecutableCell:
		h.cellLine()
	default:
		h.textLine()
	}
	h.newline()
}

// scan runs one external scanner call from the cursor.
func (h *host) scan(valid token.Set) (scanner.State, token.Kind, bool) {
	before := h.st
	next, kind, ok := scanner.Scan(h.st, &h.cur, valid)
	h.scans++
	if h.tracer.Level().ShouldEmit(trace.ScopeScan) {
		trace.Point(h.tracer, trace.ScopeScan, "scan", h.parent,
			fmt.Sprintf("off=%d valid=%s %s -> %s ok=%t %s", h.cur.Off, valid, before, next, ok, kind))
	}
	return next, kind, ok
}

func (h *host) emit(kind token.Kind) token.Token {
	tok := h.cur.Token(kind)
	h.toks = append(h.toks, tok)
	return tok
}

// rest emits the remainder of the current line as one token of kind.
func (h *host) rest(kind token.Kind) {
	h.cur.Begin(h.cur.Off)
	h.cur.SkipToLineEnd()
	if h.cur.TokenSpan().Empty() {
		return
	}
	h.emit(kind)
}

func (h *host) newline() {
	h.cur.Begin(h.cur.Off)
	if h.cur.EatNewline() {
		h.emit(token.Newline)
	}
}

func (h *host) textLine() {
	mark := h.cur.Mark()
	first := h.cur.FirstNonBlank()

	if h.inTable {
		if first == '|' {
			h.rest(token.TableRow)
			return
		}
		h.inTable = false
	}

	switch first {
	case '|':
		if _, _, ok := h.scan(token.NewSet(token.PipeTableStart)); ok {
			h.emit(token.PipeTableStart)
			h.inTable = true
			return
		}
		h.cur.Reset(mark)
		diag.ReportInfo(h.rep, diag.ScanTableNoDelimiter, h.lineSpan(),
			"line starts with '|' but the next line is not a delimiter row").Emit()
	case '`':
		next, _, ok := h.scan(token.NewSet(token.CellBoundary))
		if ok && next.InExecutableCell {
			tok := h.emit(token.CellBoundary)
			h.st = next
			h.openCell(tok)
			return
		}
		h.cur.Reset(mark)
	}
	h.rest(token.Text)
}

func (h *host) cellLine() {
	mark := h.cur.Mark()
	valid := token.NewSet(token.CellBoundary)
	if h.st.AtCellStart {
		valid = valid.With(token.ChunkOptionMarker)
	}

	next, kind, ok := h.scan(valid)
	h.st = next
	if !ok {
		h.cur.Reset(mark)
		h.checkShortFence()
		h.rest(token.CellContent)
		return
	}

	tok := h.emit(kind)
	switch {
	case kind == token.ChunkOptionMarker:
		h.option(tok)
	case next.InExecutableCell:
		h.openCell(tok)
	default:
		h.cell = nil
		h.rest(token.Text)
	}
}

func (h *host) openCell(fence token.Token) {
	line := fence.Text + h.cur.RestOfLine()
	hdr, err := chunkopt.ParseHeader(line)
	if err != nil {
		hdr = chunkopt.Header{}
	}
	h.cell = chunkopt.NewCell(hdr, fence.Span)
	h.rest(token.Text)
}

func (h *host) option(marker token.Token) {
	h.cur.Begin(h.cur.Off)
	h.cur.SkipToLineEnd()
	if h.cur.TokenSpan().Empty() {
		diag.ReportWarning(h.rep, diag.OptBadSyntax, marker.Span, "chunk option marker without `key: value`").Emit()
		return
	}
	tok := h.emit(token.ChunkOption)

	opt, err := chunkopt.ParseLine(tok.Text, tok.Span)
	switch {
	case errors.Is(err, chunkopt.ErrBadSyntax):
		diag.ReportWarning(h.rep, diag.OptBadSyntax, tok.Span, err.Error()).Emit()
		return
	case errors.Is(err, chunkopt.ErrBadValue):
		diag.ReportWarning(h.rep, diag.OptBadValue, tok.Span, err.Error()).Emit()
	}
	if h.cell == nil {
		return
	}
	if prev, dup := h.cell.Add(opt); dup {
		diag.ReportWarning(h.rep, diag.OptDuplicateKey, opt.KeySpan,
			fmt.Sprintf("chunk option %q is set more than once in this cell", opt.Key)).
			WithNote(prev.KeySpan, "first set here").
			Emit()
	}
}

// checkShortFence reports a backtick-only line that fails to close the
// cell because it is shorter than the opening fence.
func (h *host) checkShortFence() {
	text := strings.TrimRight(strings.TrimLeft(h.cur.RestOfLine(), " \t"), " \t")
	if len(text) < scanner.MinFenceLength || strings.Trim(text, "`") != "" {
		return
	}
	diag.ReportInfo(h.rep, diag.ScanShortClosingFence, h.lineSpan(),
		fmt.Sprintf("fence of %d backticks does not close a cell opened with %d", len(text), h.st.FenceLength)).Emit()
}

// lineSpan covers the current line from the cursor, without its terminator.
func (h *host) lineSpan() source.Span {
	start := h.cur.Off
	end := start
	for end < h.cur.Limit && h.file.Content[end] != '\n' && h.file.Content[end] != '\r' {
		end++
	}
	return source.Span{File: h.file.ID, Start: start, End: end}
}

// restoreCell rebuilds the open cell from tokens kept before a relex point.
func (h *host) restoreCell(kept []token.Token) {
	if !h.st.InExecutableCell {
		return
	}
	open := -1
	for i := len(kept) - 1; i >= 0; i-- {
		if kept[i].Kind == token.CellBoundary {
			open = i
			break
		}
	}
	if open < 0 {
		return
	}
	fence := kept[open]
	line := h.file.GetLine(h.file.Position(fence.Span.Start).Line)
	hdr, err := chunkopt.ParseHeader(line)
	if err != nil {
		hdr = chunkopt.Header{}
	}
	h.cell = chunkopt.NewCell(hdr, fence.Span)
	for _, tok := range kept[open+1:] {
		if tok.Kind != token.ChunkOption {
			continue
		}
		if opt, err := chunkopt.ParseLine(tok.Text, tok.Span); !errors.Is(err, chunkopt.ErrBadSyntax) {
			h.cell.Add(opt)
		}
	}
}
