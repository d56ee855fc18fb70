package digest

import (
	"regexp"
	"strings"
)

// Everything above the first "---" line is generator preamble and is
// discarded along with the separator itself.
const sectionSeparator = "---"

// aiMarker flags boilerplate paragraphs injected by the generator; a
// paragraph containing it is dropped whole.
const aiMarker = "AI Summarized"

// placeholderPattern matches the @([text](url)) tokens the generator
// sometimes embeds in heading text.
var placeholderPattern = regexp.MustCompile(`@\(\[.*?\]\(.*?\)\)`)

// Convert runs a single forward pass over the digest body and emits
// the ordered block sequence. Until the separator line is seen every
// line is discarded; content with no separator yields no blocks.
// Parsing never fails: malformed input degrades to plain text or is
// silently dropped.
func Convert(content string) []Block {
	var blocks []Block
	collecting := false
	pending := ""

	flush := func() {
		if pending == "" {
			return
		}
		text := pending
		pending = ""
		if strings.Contains(text, aiMarker) {
			return
		}
		blocks = append(blocks, Paragraph(ParseRichText(text)))
	}

	for _, line := range strings.Split(content, "\n") {
		if !collecting {
			if strings.TrimSpace(line) == sectionSeparator {
				collecting = true
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "# "):
			flush()
			blocks = append(blocks, Heading(1, headingText(line[2:])))
		case strings.HasPrefix(line, "## "):
			flush()
			blocks = append(blocks, Heading(2, headingText(line[3:])))
		case strings.HasPrefix(line, "### "):
			flush()
			blocks = append(blocks, Heading(3, headingText(line[4:])))
		case strings.HasPrefix(line, "- "):
			flush()
			blocks = append(blocks, BulletItem(ParseRichText(line[2:])))
		case strings.TrimSpace(line) == "":
			flush()
		default:
			pending += line
		}
	}
	flush()

	return blocks
}

// headingText strips placeholder tokens, then surrounding whitespace.
// Only headings get this treatment; bullets and paragraphs keep their
// text verbatim.
func headingText(rest string) []Span {
	rest = placeholderPattern.ReplaceAllString(rest, "")
	return ParseRichText(strings.TrimSpace(rest))
}
