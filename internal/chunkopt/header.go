package chunkopt

import (
	"errors"
	"fmt"
	"strings"
)

// ErrBadHeader reports an opening fence whose braces do not hold a language.
var ErrBadHeader = errors.New("cell header has no language")

// Attr is one header attribute. Bare words have an empty Key.
type Attr struct {
	Key   string
	Value string
}

// Header is the `{lang label, key=value}` part of an opening fence.
type Header struct {
	Language string
	Label    string // knitr-style bare label, if any
	Attrs    []Attr
}

// ParseHeader parses an opening fence line such as "```{r, echo=FALSE}".
// Leading backticks and blanks are ignored.
func ParseHeader(line string) (Header, error) {
	s := strings.TrimLeft(strings.TrimRight(line, "\r\n"), "` \t")
	if !strings.HasPrefix(s, "{") {
		return Header{}, fmt.Errorf("%w: %q", ErrBadHeader, line)
	}
	end := strings.LastIndexByte(s, '}')
	if end < 0 {
		return Header{}, fmt.Errorf("%w: unclosed brace in %q", ErrBadHeader, line)
	}
	inner := strings.TrimSpace(s[1:end])

	n := languageLen(inner)
	if n == 0 {
		return Header{}, fmt.Errorf("%w: %q", ErrBadHeader, line)
	}
	h := Header{Language: inner[:n]}

	for _, field := range splitAttrs(inner[n:]) {
		if k, v, ok := strings.Cut(field, "="); ok {
			h.Attrs = append(h.Attrs, Attr{Key: strings.TrimSpace(k), Value: unquote(strings.TrimSpace(v))})
			continue
		}
		if h.Label == "" && len(h.Attrs) == 0 {
			h.Label = field
			continue
		}
		h.Attrs = append(h.Attrs, Attr{Value: field})
	}
	return h, nil
}

// Attr returns the value of the named attribute.
func (h Header) Attr(key string) (string, bool) {
	for _, a := range h.Attrs {
		if a.Key == key {
			return a.Value, true
		}
	}
	return "", false
}

// languageLen returns the length of the [A-Za-z][A-Za-z0-9_-]* prefix.
func languageLen(s string) int {
	if s == "" || !isAlpha(s[0]) {
		return 0
	}
	i := 1
	for i < len(s) && (isAlpha(s[i]) || isDigit(s[i]) || s[i] == '_' || s[i] == '-') {
		i++
	}
	return i
}

// splitAttrs splits on commas and blanks outside quotes.
func splitAttrs(s string) []string {
	var (
		out   []string
		cur   strings.Builder
		quote byte
	)
	flush := func() {
		if f := strings.TrimSpace(cur.String()); f != "" {
			out = append(out, f)
		}
		cur.Reset()
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case quote != 0:
			if c == quote {
				quote = 0
			}
			cur.WriteByte(c)
		case c == '"' || c == '\'':
			quote = c
			cur.WriteByte(c)
		case c == ',':
			flush()
		case c == ' ' || c == '\t':
			// blanks around '=' belong to the attribute
			if next := nextNonBlank(s, i); next == '=' || lastNonBlank(cur.String()) == '=' {
				continue
			}
			flush()
		default:
			cur.WriteByte(c)
		}
	}
	flush()
	return out
}

func nextNonBlank(s string, i int) byte {
	for ; i < len(s); i++ {
		if s[i] != ' ' && s[i] != '\t' {
			return s[i]
		}
	}
	return 0
}

func lastNonBlank(s string) byte {
	s = strings.TrimRight(s, " \t")
	if s == "" {
		return 0
	}
	return s[len(s)-1]
}

func unquote(s string) string {
	if len(s) >= 2 && (s[0] == '"' || s[0] == '\'') && s[len(s)-1] == s[0] {
		return s[1 : len(s)-1]
	}
	return s
}
