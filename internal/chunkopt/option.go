package chunkopt

import (
	"errors"
	"fmt"
	"strings"

	"fortio.org/safecast"
	"github.com/goccy/go-yaml"

	"qmdscan/internal/source"
)

var (
	// ErrBadSyntax reports an option line that is not `key: value`.
	ErrBadSyntax = errors.New("chunk option is not `key: value`")
	// ErrBadValue reports a value that YAML cannot decode.
	ErrBadValue = errors.New("chunk option value is not valid YAML")
)

// Option is one `#| key: value` line.
type Option struct {
	Key     string
	Raw     string // value text as written, trimmed
	Value   any    // decoded YAML value; nil when Raw is empty
	Span    source.Span
	KeySpan source.Span
}

// ParseLine parses the text that follows a chunk option marker. span
// covers text in its file and anchors the key span.
func ParseLine(text string, span source.Span) (Option, error) {
	body := strings.TrimRight(text, "\r\n")
	lead := len(body) - len(strings.TrimLeft(body, " \t"))
	body = body[lead:]

	n := keyLen(body)
	if n == 0 {
		return Option{Span: span}, fmt.Errorf("%w: %q", ErrBadSyntax, text)
	}
	key := body[:n]
	rest := body[n:]
	if !strings.HasPrefix(rest, ":") {
		return Option{Key: key, Span: span}, fmt.Errorf("%w: missing ':' after %q", ErrBadSyntax, key)
	}
	raw := strings.TrimSpace(rest[1:])

	opt := Option{
		Key:     key,
		Raw:     raw,
		Span:    span,
		KeySpan: subSpan(span, lead, lead+n),
	}
	if raw == "" {
		return opt, nil
	}
	value, err := decodeValue(raw)
	if err != nil {
		return opt, fmt.Errorf("%w: %s: %w", ErrBadValue, key, err)
	}
	opt.Value = value
	return opt, nil
}

// subSpan narrows span to the byte range [from, to) of its text.
func subSpan(span source.Span, from, to int) source.Span {
	lo, errLo := safecast.Conv[uint32](from)
	hi, errHi := safecast.Conv[uint32](to)
	if errLo != nil || errHi != nil || span.Start+hi > span.End {
		return span
	}
	return source.Span{File: span.File, Start: span.Start + lo, End: span.Start + hi}
}

func decodeValue(raw string) (any, error) {
	var v any
	if err := yaml.Unmarshal([]byte(raw), &v); err != nil {
		return nil, err
	}
	return v, nil
}

// keyLen returns the length of the [A-Za-z][A-Za-z0-9-]* prefix of s.
func keyLen(s string) int {
	if s == "" || !isAlpha(s[0]) {
		return 0
	}
	i := 1
	for i < len(s) && (isAlpha(s[i]) || isDigit(s[i]) || s[i] == '-') {
		i++
	}
	return i
}

func isAlpha(b byte) bool { return b >= 'a' && b <= 'z' || b >= 'A' && b <= 'Z' }
func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// Bool reports the option value as a boolean. Quarto and knitr spellings
// (`true`, `FALSE`, `yes`) are accepted.
func (o Option) Bool() (value, ok bool) {
	switch v := o.Value.(type) {
	case bool:
		return v, true
	case string:
		switch strings.ToLower(v) {
		case "true", "yes":
			return true, true
		case "false", "no":
			return false, true
		}
	}
	return false, false
}

// String renders the option as it would appear after the marker.
func (o Option) String() string {
	if o.Raw == "" {
		return o.Key + ":"
	}
	return o.Key + ": " + o.Raw
}
