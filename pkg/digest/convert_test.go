package digest

import (
	"strings"
	"testing"
)

func blockText(b Block) string {
	var sb strings.Builder
	for _, s := range b.Text {
		sb.WriteString(s.Content)
	}
	return sb.String()
}

func TestConvertNoSeparator(t *testing.T) {
	blocks := Convert("# Looks like content\nbut there is no separator")
	if len(blocks) != 0 {
		t.Errorf("expected no blocks, got %+v", blocks)
	}
}

func TestConvertHeadingAndParagraph(t *testing.T) {
	blocks := Convert("preamble\n---\n# Title\nBody text")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %+v", len(blocks), blocks)
	}
	if blocks[0].Kind != KindHeading || blocks[0].Level != 1 || blockText(blocks[0]) != "Title" {
		t.Errorf("block 0 = %+v", blocks[0])
	}
	if blocks[1].Kind != KindParagraph || blockText(blocks[1]) != "Body text" {
		t.Errorf("block 1 = %+v", blocks[1])
	}
}

func TestConvertHeadingLevels(t *testing.T) {
	blocks := Convert("---\n# One\n## Two\n### Three")
	if len(blocks) != 3 {
		t.Fatalf("expected 3 blocks, got %d", len(blocks))
	}
	for i, want := range []struct {
		level int
		text  string
	}{{1, "One"}, {2, "Two"}, {3, "Three"}} {
		if blocks[i].Kind != KindHeading || blocks[i].Level != want.level || blockText(blocks[i]) != want.text {
			t.Errorf("block %d = %+v, want level %d text %q", i, blocks[i], want.level, want.text)
		}
	}
}

func TestConvertBullets(t *testing.T) {
	blocks := Convert("---\n- a\n- b\n")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %+v", len(blocks), blocks)
	}
	for i, want := range []string{"a", "b"} {
		if blocks[i].Kind != KindBulletItem || blockText(blocks[i]) != want {
			t.Errorf("block %d = %+v, want bullet %q", i, blocks[i], want)
		}
	}
}

func TestConvertDropsBoilerplateParagraph(t *testing.T) {
	blocks := Convert("---\n# News\nThis content was AI Summarized for you\n\nReal paragraph")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %+v", len(blocks), blocks)
	}
	if blocks[0].Kind != KindHeading {
		t.Errorf("block 0 = %+v", blocks[0])
	}
	if blocks[1].Kind != KindParagraph || blockText(blocks[1]) != "Real paragraph" {
		t.Errorf("block 1 = %+v", blocks[1])
	}
	for _, b := range blocks {
		if strings.Contains(blockText(b), "AI Summarized") {
			t.Errorf("boilerplate leaked into output: %+v", b)
		}
	}
}

func TestConvertHeadingFlushesPendingParagraph(t *testing.T) {
	blocks := Convert("---\npending text\n# Next Section")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %+v", len(blocks), blocks)
	}
	if blocks[0].Kind != KindParagraph || blockText(blocks[0]) != "pending text" {
		t.Errorf("block 0 = %+v", blocks[0])
	}
	if blocks[1].Kind != KindHeading {
		t.Errorf("block 1 = %+v", blocks[1])
	}
}

func TestConvertConsecutiveBlankLines(t *testing.T) {
	blocks := Convert("---\nfirst\n\n\n\nsecond")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %+v", len(blocks), blocks)
	}
	if blockText(blocks[0]) != "first" || blockText(blocks[1]) != "second" {
		t.Errorf("blocks = %+v", blocks)
	}
}

func TestConvertMultilineParagraphJoinedWithoutSeparator(t *testing.T) {
	blocks := Convert("---\nline one\nline two")
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d: %+v", len(blocks), blocks)
	}
	if blockText(blocks[0]) != "line oneline two" {
		t.Errorf("paragraph text = %q", blockText(blocks[0]))
	}
}

func TestConvertStripsHeadingPlaceholder(t *testing.T) {
	blocks := Convert("---\n# Tech News @([source](http://feed))\n- item @([kept](http://u))")
	if len(blocks) != 2 {
		t.Fatalf("expected 2 blocks, got %d: %+v", len(blocks), blocks)
	}
	if blockText(blocks[0]) != "Tech News" {
		t.Errorf("heading text = %q, want placeholder stripped", blockText(blocks[0]))
	}
	// Bullets do not get placeholder stripping.
	if !strings.Contains(blockText(blocks[1]), "kept") {
		t.Errorf("bullet text = %q, placeholder should survive", blockText(blocks[1]))
	}
}

func TestConvertSeparatorWithSurroundingWhitespace(t *testing.T) {
	blocks := Convert("intro\n  ---  \ncontent")
	if len(blocks) != 1 || blockText(blocks[0]) != "content" {
		t.Fatalf("blocks = %+v", blocks)
	}
}

func TestConvertLinksInsideBlocks(t *testing.T) {
	blocks := Convert("---\n- read [this](http://a)")
	if len(blocks) != 1 {
		t.Fatalf("expected 1 block, got %d", len(blocks))
	}
	spans := blocks[0].Text
	if len(spans) != 3 || spans[1].URL != "http://a" {
		t.Errorf("spans = %+v", spans)
	}
}
