package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"qmdscan/internal/checkpoint"
	"qmdscan/internal/source"
)

var checkpointHeader = [...]string{"LINE", "OFFSET", "STATE", "TABLE", "SCANNER", "TEXT"}

// FormatCheckpoints writes one row per checkpoint: line, offset, encoded
// state in hex, table flag, decoded state and a preview of the line cut to
// fit opts.Width display columns.
func FormatCheckpoints(w io.Writer, cps []checkpoint.Entry, file *source.File, opts TableOpts) error {
	width := opts.Width
	if width <= 0 {
		width = 100
	}
	head := color.New(color.Bold)
	cell := color.New(color.FgYellow)
	if opts.Color {
		head.EnableColor()
		cell.EnableColor()
	} else {
		head.DisableColor()
		cell.DisableColor()
	}

	rows := make([][]string, 0, len(cps))
	for _, cp := range cps {
		rows = append(rows, []string{
			fmt.Sprint(cp.Line),
			fmt.Sprint(cp.Offset),
			fmt.Sprintf("%x", cp.State),
			yesNo(cp.Table),
			cp.ScannerState().String(),
			expandTabs(file.GetLine(cp.Line)),
		})
	}

	cols := len(checkpointHeader)
	widths := make([]int, cols)
	for i, h := range checkpointHeader {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, r := range rows {
		for i := range cols - 1 {
			widths[i] = max(widths[i], runewidth.StringWidth(r[i]))
		}
	}
	used := 0
	for i := range cols - 1 {
		used += widths[i] + 2
	}
	preview := max(width-used, 8)

	line := func(cells []string, c *color.Color) error {
		var sb strings.Builder
		for i := range cols - 1 {
			sb.WriteString(runewidth.FillRight(cells[i], widths[i]))
			sb.WriteString("  ")
		}
		text := runewidth.Truncate(cells[cols-1], preview, "…")
		if c != nil {
			_, err := fmt.Fprintln(w, c.Sprint(sb.String()+text))
			return err
		}
		_, err := fmt.Fprintln(w, strings.TrimRight(sb.String()+text, " "))
		return err
	}

	if err := line(checkpointHeader[:], head); err != nil {
		return err
	}
	for _, r := range rows {
		var c *color.Color
		if r[3] == "yes" || strings.Contains(r[4], "cell=true") {
			c = cell
		}
		if err := line(r, c); err != nil {
			return err
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
