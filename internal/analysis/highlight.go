package analysis

import (
	"strings"
	"unicode/utf8"
)

// Segment is a run of text that either matches the keyword or not.
type Segment struct {
	Text  string
	Match bool
}

// Segments splits text into alternating runs around every case-insensitive,
// non-overlapping occurrence of keyword. Templates render the matching runs
// with emphasis. Occurrences are found with indexFold, the same predicate the
// record queries match on, so a matched post always has a highlight.
func Segments(text, keyword string) []Segment {
	if keyword == "" || text == "" {
		return []Segment{{Text: text}}
	}

	var segs []Segment
	last := 0
	for last < len(text) {
		start, end := indexFold(text[last:], keyword)
		if start < 0 {
			break
		}
		start, end = last+start, last+end
		if start > last {
			segs = append(segs, Segment{Text: text[last:start]})
		}
		segs = append(segs, Segment{Text: text[start:end], Match: true})
		last = end
	}
	if last < len(text) {
		segs = append(segs, Segment{Text: text[last:]})
	}
	return segs
}

// Highlight wraps every case-insensitive occurrence of keyword in text with
// the open and close markers, keeping the original casing of the match.
func Highlight(text, keyword, open, close string) string {
	var b strings.Builder
	for _, s := range Segments(text, keyword) {
		if s.Match {
			b.WriteString(open)
			b.WriteString(s.Text)
			b.WriteString(close)
			continue
		}
		b.WriteString(s.Text)
	}
	return b.String()
}

// indexFold returns the byte range of the first run of text that equals
// keyword under simple Unicode case folding, or -1, -1. The run always has as
// many runes as keyword, so "İ" does not match "i".
func indexFold(text, keyword string) (int, int) {
	width := utf8.RuneCountInString(keyword)
	if width == 0 {
		return 0, 0
	}
	for i := 0; i < len(text); {
		end := advanceRunes(text, i, width)
		if end < 0 {
			break
		}
		if strings.EqualFold(text[i:end], keyword) {
			return i, end
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return -1, -1
}

// advanceRunes returns the byte offset n runes after start, or -1 when text
// is too short.
func advanceRunes(text string, start, n int) int {
	i := start
	for ; n > 0; n-- {
		if i >= len(text) {
			return -1
		}
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
	}
	return i
}
