package knowledge

import (
	"strings"
	"unicode/utf8"
)

// Chunker splits text into overlapping pieces of at most Size runes,
// preferring paragraph, then line, then sentence, then word boundaries.
type Chunker struct {
	Size    int
	Overlap int
}

func DefaultChunker() Chunker {
	return Chunker{Size: 512, Overlap: 50}
}

var separators = []string{"\n\n", "\n", ". ", " "}

func (c Chunker) Split(text string) []string {
	size := c.Size
	if size <= 0 {
		size = 512
	}
	overlap := c.Overlap
	if overlap < 0 || overlap >= size {
		overlap = 0
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}

	var out []string
	for _, piece := range split(text, separators, size, overlap) {
		if p := strings.TrimSpace(piece); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func split(text string, seps []string, size, overlap int) []string {
	if utf8.RuneCountInString(text) <= size {
		return []string{text}
	}

	sep, parts := "", []string(nil)
	for i, s := range seps {
		if p := strings.Split(text, s); len(p) > 1 {
			sep, parts, seps = s, p, seps[i+1:]
			break
		}
	}
	if parts == nil {
		return byRunes(text, size, overlap)
	}

	var chunks []string
	var cur string
	for _, part := range parts {
		// A single part can still be too long for the finer separators.
		if utf8.RuneCountInString(part) > size {
			if cur != "" {
				chunks = append(chunks, cur)
				cur = ""
			}
			chunks = append(chunks, split(part, seps, size, overlap)...)
			continue
		}

		candidate := part
		if cur != "" {
			candidate = cur + sep + part
		}
		if utf8.RuneCountInString(candidate) <= size {
			cur = candidate
			continue
		}

		chunks = append(chunks, cur)
		cur = part
		if tail := tailRunes(chunks[len(chunks)-1], overlap); tail != "" {
			if withTail := tail + sep + part; utf8.RuneCountInString(withTail) <= size {
				cur = withTail
			}
		}
	}
	if cur != "" {
		chunks = append(chunks, cur)
	}
	return chunks
}

func tailRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if n >= len(r) {
		return s
	}
	return string(r[len(r)-n:])
}

func byRunes(text string, size, overlap int) []string {
	r := []rune(text)
	step := size - overlap
	var out []string
	for i := 0; i < len(r); i += step {
		end := i + size
		if end > len(r) {
			end = len(r)
		}
		out = append(out, string(r[i:end]))
		if end == len(r) {
			break
		}
	}
	return out
}
