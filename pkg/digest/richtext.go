package digest

import (
	"regexp"
	"strings"
)

// Span is one run of text within a line: either plain text or an
// inline link. Concatenating the Content of all spans (and restoring
// the [text](url) decoration around links) round-trips the line.
type Span struct {
	Content string
	URL     string // empty for plain text
}

// IsLink reports whether the span carries a link target.
func (s Span) IsLink() bool {
	return s.URL != ""
}

var linkPattern = regexp.MustCompile(`\[.*?\]\(.*?\)`)

// ParseRichText splits a line at every [text](url) occurrence, keeping
// the surrounding text segments as plain spans. Empty segments between
// adjacent links (and at the line edges) are preserved so the spans
// reassemble the original text exactly. Malformed link syntax falls
// through to plain text; no input is rejected.
func ParseRichText(line string) []Span {
	matches := linkPattern.FindAllStringIndex(line, -1)

	spans := make([]Span, 0, 2*len(matches)+1)
	last := 0
	for _, m := range matches {
		spans = append(spans, Span{Content: line[last:m[0]]})
		spans = append(spans, decodeLink(line[m[0]:m[1]]))
		last = m[1]
	}
	spans = append(spans, Span{Content: line[last:]})
	return spans
}

// decodeLink slices "[text](url)" into its parts. The token comes from
// the pattern match so the shape is guaranteed, but a token that does
// not split cleanly degrades to plain text.
func decodeLink(token string) Span {
	inner := token[1 : len(token)-1]
	text, url, ok := strings.Cut(inner, "](")
	if !ok {
		return Span{Content: token}
	}
	return Span{Content: text, URL: url}
}
