package digest

import (
	"strings"
	"testing"
)

func TestParseRichTextPlain(t *testing.T) {
	spans := ParseRichText("just some text")
	if len(spans) != 1 {
		t.Fatalf("expected 1 span, got %d", len(spans))
	}
	if spans[0].Content != "just some text" || spans[0].IsLink() {
		t.Errorf("unexpected span: %+v", spans[0])
	}
}

func TestParseRichTextLink(t *testing.T) {
	spans := ParseRichText("see [docs](http://x)  more")
	if len(spans) != 3 {
		t.Fatalf("expected 3 spans, got %d: %+v", len(spans), spans)
	}
	if spans[0].Content != "see " || spans[0].IsLink() {
		t.Errorf("span 0 = %+v", spans[0])
	}
	if spans[1].Content != "docs" || spans[1].URL != "http://x" {
		t.Errorf("span 1 = %+v", spans[1])
	}
	if spans[2].Content != "  more" || spans[2].IsLink() {
		t.Errorf("span 2 = %+v", spans[2])
	}
}

func TestParseRichTextAdjacentLinks(t *testing.T) {
	spans := ParseRichText("[a](u1)[b](u2)")
	if len(spans) != 5 {
		t.Fatalf("expected 5 spans, got %d: %+v", len(spans), spans)
	}
	// Empty plain segments around and between the links are preserved.
	for _, i := range []int{0, 2, 4} {
		if spans[i].Content != "" || spans[i].IsLink() {
			t.Errorf("span %d = %+v, want empty plain text", i, spans[i])
		}
	}
	if spans[1].URL != "u1" || spans[3].URL != "u2" {
		t.Errorf("link spans = %+v, %+v", spans[1], spans[3])
	}
}

func TestParseRichTextMalformed(t *testing.T) {
	for _, line := range []string{"[broken](no-close", "broken](x)", "[only brackets]"} {
		spans := ParseRichText(line)
		var sb strings.Builder
		for _, s := range spans {
			if s.IsLink() {
				t.Errorf("%q: unexpected link span %+v", line, s)
			}
			sb.WriteString(s.Content)
		}
		if sb.String() != line {
			t.Errorf("%q: spans do not reassemble input, got %q", line, sb.String())
		}
	}
}

func TestParseRichTextRoundTrip(t *testing.T) {
	line := "intro [a](u1) middle [b](u2) tail"
	var sb strings.Builder
	for _, s := range ParseRichText(line) {
		if s.IsLink() {
			sb.WriteString("[" + s.Content + "](" + s.URL + ")")
		} else {
			sb.WriteString(s.Content)
		}
	}
	if sb.String() != line {
		t.Errorf("round trip = %q, want %q", sb.String(), line)
	}
}
