package parse

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Fields extracts the values for names from s, a `name=value name='value'`
// string. Markers must appear in the order given. Each value runs up to the
// next field's marker (or the end of s), is whitespace-trimmed and has
// leading and trailing quote characters removed.
//
// A marker only counts at the start of s or after whitespace, so "unit=" does
// not match inside "subunit=". A quoted value extends to the closing quote
// that is followed by the next marker, which lets quoted text contain a later
// field's marker.
func Fields(s string, names ...string) ([]string, error) {
	type span struct{ start, end int }

	spans := make([]span, len(names))
	from := 0

	for i, name := range names {
		pos := indexMarker(s, name, from)
		if pos < 0 {
			if indexMarker(s, name, 0) >= 0 {
				return nil, fmt.Errorf("%w: %q before %q", ErrFieldOrder, name+"=", names[i-1]+"=")
			}
			return nil, &MarkerError{Field: name}
		}

		start := pos + len(name) + 1
		spans[i].start = start
		if i > 0 {
			spans[i-1].end = pos
		}

		from = start
		if i+1 < len(names) {
			if end, ok := closingQuote(s, start, names[i+1]); ok {
				from = end
			}
		}
	}
	if len(spans) > 0 {
		spans[len(spans)-1].end = len(s)
	}

	out := make([]string, len(names))
	for i, sp := range spans {
		out[i] = clean(s[sp.start:sp.end])
	}
	return out, nil
}

// indexMarker returns the index of `name=` in s at or after from, or -1.
func indexMarker(s, name string, from int) int {
	marker := name + "="
	for from <= len(s) {
		i := strings.Index(s[from:], marker)
		if i < 0 {
			return -1
		}
		pos := from + i
		if pos == 0 {
			return pos
		}
		if r, _ := utf8.DecodeLastRuneInString(s[:pos]); unicode.IsSpace(r) {
			return pos
		}
		from = pos + 1
	}
	return -1
}

// closingQuote looks for a quote opened at the value starting at start and
// returns the index just past its closing quote, if that quote is followed by
// whitespace and the next marker.
func closingQuote(s string, start int, next string) (int, bool) {
	i := start
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	if i >= len(s) || (s[i] != '\'' && s[i] != '"') {
		return 0, false
	}
	q := s[i]

	for j := i + 1; j < len(s); j++ {
		if s[j] != q {
			continue
		}
		rest := s[j+1:]
		trimmed := strings.TrimLeftFunc(rest, unicode.IsSpace)
		if len(trimmed) < len(rest) && strings.HasPrefix(trimmed, next+"=") {
			return j + 1, true
		}
	}
	return 0, false
}

// clean trims whitespace, then any quote characters at either end, so an
// unterminated quote does not leak into the value.
func clean(v string) string {
	return strings.Trim(strings.TrimSpace(v), `'"`)
}
