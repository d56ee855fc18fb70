package notion

import "github.com/mklimuk/digest-pilot/pkg/digest"

// RichTextItem is the wire shape for one run of text.
type RichTextItem struct {
	Type string      `json:"type"`
	Text TextContent `json:"text"`
}

// TextContent carries the text and optional link target of a rich
// text item.
type TextContent struct {
	Content string    `json:"content"`
	Link    *LinkData `json:"link,omitempty"`
}

// LinkData is the link object attached to a rich text item.
type LinkData struct {
	URL string `json:"url"`
}

// BlockText wraps the rich text array of a typed block payload.
type BlockText struct {
	RichText []RichTextItem `json:"rich_text"`
}

// Block is the wire shape of one content block. Exactly one payload
// field is set, matching Type.
type Block struct {
	Type             string     `json:"type"`
	Heading1         *BlockText `json:"heading_1,omitempty"`
	Heading2         *BlockText `json:"heading_2,omitempty"`
	Heading3         *BlockText `json:"heading_3,omitempty"`
	Paragraph        *BlockText `json:"paragraph,omitempty"`
	BulletedListItem *BlockText `json:"bulleted_list_item,omitempty"`
}

// ChildBlock is one entry from a list-children call. Title is only
// populated for child pages.
type ChildBlock struct {
	ID    string
	Type  string
	Title string
}

// Page is a handle to a remote page.
type Page struct {
	ID    string `json:"id"`
	URL   string `json:"url"`
	Title string `json:"-"`
}

// BlocksToWire converts the internal block sequence into the wire
// shape the page-creation API expects. Internal representation stays
// strongly typed; JSON structure exists only at this boundary.
func BlocksToWire(blocks []digest.Block) []Block {
	wire := make([]Block, 0, len(blocks))
	for _, b := range blocks {
		text := &BlockText{RichText: spansToWire(b.Text)}
		switch b.Kind {
		case digest.KindHeading:
			switch b.Level {
			case 1:
				wire = append(wire, Block{Type: "heading_1", Heading1: text})
			case 2:
				wire = append(wire, Block{Type: "heading_2", Heading2: text})
			case 3:
				wire = append(wire, Block{Type: "heading_3", Heading3: text})
			}
		case digest.KindParagraph:
			wire = append(wire, Block{Type: "paragraph", Paragraph: text})
		case digest.KindBulletItem:
			wire = append(wire, Block{Type: "bulleted_list_item", BulletedListItem: text})
		}
	}
	return wire
}

func spansToWire(spans []digest.Span) []RichTextItem {
	items := make([]RichTextItem, 0, len(spans))
	for _, s := range spans {
		item := RichTextItem{Type: "text", Text: TextContent{Content: s.Content}}
		if s.IsLink() {
			item.Text.Link = &LinkData{URL: s.URL}
		}
		items = append(items, item)
	}
	return items
}
