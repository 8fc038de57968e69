package chunkopt

import "qmdscan/internal/source"

// Cell collects the header and options of one executable cell.
type Cell struct {
	Header  Header
	Open    source.Span // opening fence token
	Options []Option
	seen    map[string]int
}

// NewCell starts a cell for the given opening fence.
func NewCell(h Header, open source.Span) *Cell {
	return &Cell{Header: h, Open: open}
}

// Add appends opt. When the key was already set in this cell the earlier
// option is returned with dup=true; the new option is still recorded.
func (c *Cell) Add(opt Option) (prev Option, dup bool) {
	if c.seen == nil {
		c.seen = make(map[string]int)
	}
	if i, ok := c.seen[opt.Key]; ok {
		prev, dup = c.Options[i], true
	}
	c.seen[opt.Key] = len(c.Options)
	c.Options = append(c.Options, opt)
	return prev, dup
}

// Lookup returns the last option set for key.
func (c *Cell) Lookup(key string) (Option, bool) {
	i, ok := c.seen[key]
	if !ok {
		return Option{}, false
	}
	return c.Options[i], true
}

// Label returns the cell label from `#| label:` or the header.
func (c *Cell) Label() string {
	if opt, ok := c.Lookup("label"); ok {
		if s, ok := opt.Value.(string); ok {
			return s
		}
		return opt.Raw
	}
	if c.Header.Label != "" {
		return c.Header.Label
	}
	if v, ok := c.Header.Attr("label"); ok {
		return v
	}
	return ""
}
