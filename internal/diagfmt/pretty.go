package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"qmdscan/internal/diag"
	"qmdscan/internal/source"
)

const tabWidth = 4

type palette struct {
	sev    map[diag.Severity]*color.Color
	gutter *color.Color
	note   *color.Color
	bold   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		sev: map[diag.Severity]*color.Color{
			diag.SevError:   color.New(color.FgRed, color.Bold),
			diag.SevWarning: color.New(color.FgYellow, color.Bold),
			diag.SevInfo:    color.New(color.FgCyan, color.Bold),
		},
		gutter: color.New(color.FgBlue),
		note:   color.New(color.FgGreen),
		bold:   color.New(color.Bold),
	}
	all := []*color.Color{p.gutter, p.note, p.bold}
	for _, c := range p.sev {
		all = append(all, c)
	}
	for _, c := range all {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// Pretty writes bag.Items() (expected sorted) as
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed by the source line with a ^~~~ underline under the primary span
// and, with ShowNotes, each note in the same layout.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) error {
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		if err := prettyOne(w, d, fs, opts, p); err != nil {
			return err
		}
	}
	return nil
}

func prettyOne(w io.Writer, d diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) error {
	sevColor := p.sev[d.Severity]
	if sevColor == nil {
		sevColor = p.bold
	}

	if int(d.Primary.File) >= fs.Len() {
		_, err := fmt.Fprintf(w, "%s %s: %s\n", sevColor.Sprint(d.Severity.String()), d.Code.ID(), p.bold.Sprint(d.Message))
		return err
	}

	path := formatPath(fs, d.Primary.File, opts.PathMode)
	start, _ := fs.Resolve(d.Primary)
	if _, err := fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		path, start.Line, start.Col,
		sevColor.Sprint(d.Severity.String()), d.Code.ID(), p.bold.Sprint(d.Message)); err != nil {
		return err
	}
	if err := writeSnippet(w, fs, d.Primary, int(opts.Context), sevColor, p); err != nil {
		return err
	}

	if !opts.ShowNotes {
		return nil
	}
	for _, n := range d.Notes {
		npath := formatPath(fs, n.Span.File, opts.PathMode)
		ns, _ := fs.Resolve(n.Span)
		if _, err := fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"), npath, ns.Line, ns.Col, n.Msg); err != nil {
			return err
		}
		if err := writeSnippet(w, fs, n.Span, 0, p.note, p); err != nil {
			return err
		}
	}
	return nil
}

// writeSnippet prints the line holding sp (plus context lines) and an
// underline measured in display columns.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, context int, mark *color.Color, p palette) error {
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	if f.LineCount() == 0 {
		return nil
	}
	line := min(start.Line, f.LineCount())

	first := max(int(line)-context, 1)
	last := min(int(line)+max(context, 0), int(f.LineCount()))

	gutterWidth := len(fmt.Sprint(last))
	for i := first; i <= last; i++ {
		n := uint32(i) //nolint:gosec // bounded by LineCount
		text := expandTabs(f.GetLine(n))
		if _, err := fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", gutterWidth, n), text); err != nil {
			return err
		}
		if n != line {
			continue
		}
		raw := f.GetLine(n)
		col := int(start.Col) - 1
		col = min(col, len(raw))
		stop := len(raw)
		if end.Line == start.Line {
			stop = min(int(end.Col)-1, len(raw))
		}
		pad := runewidth.StringWidth(expandTabs(raw[:col]))
		width := max(runewidth.StringWidth(expandTabs(raw[col:max(stop, col)])), 1)
		underline := "^" + strings.Repeat("~", width-1)
		if _, err := fmt.Fprintf(w, "%s %s%s\n",
			p.gutter.Sprint(strings.Repeat(" ", gutterWidth)+" |"),
			strings.Repeat(" ", pad), mark.Sprint(underline)); err != nil {
			return err
		}
	}
	return nil
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}
