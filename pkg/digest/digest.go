package digest

// Digest is the raw markup text produced by the generator: an
// introduction terminated by a "---" line, followed by headings,
// bullets, paragraphs and inline [text](url) links.
type Digest struct {
	Content string
}

// BlockKind discriminates the content block variants.
type BlockKind string

const (
	KindHeading    BlockKind = "heading"
	KindParagraph  BlockKind = "paragraph"
	KindBulletItem BlockKind = "bullet_item"
)

// Block is one typed content block emitted by Convert. Level is only
// meaningful for headings (1-3). Blocks are never mutated after
// creation; ordering follows source line order.
type Block struct {
	Kind  BlockKind
	Level int
	Text  []Span
}

// Heading builds a heading block.
func Heading(level int, text []Span) Block {
	return Block{Kind: KindHeading, Level: level, Text: text}
}

// Paragraph builds a paragraph block.
func Paragraph(text []Span) Block {
	return Block{Kind: KindParagraph, Text: text}
}

// BulletItem builds a bulleted list item block.
func BulletItem(text []Span) Block {
	return Block{Kind: KindBulletItem, Text: text}
}
