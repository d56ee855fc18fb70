package ai

import (
	"fmt"
	"sort"
	"strings"
	"time"
)

// SourceItem is one fetched article handed to the generator.
type SourceItem struct {
	Title   string
	Link    string
	Source  string
	Summary string
}

// DigestPrompt returns a prompt asking the model to produce a daily
// digest in the markup dialect the converter understands: a short
// introduction, a "---" separator, then per-category sections with
// headings, bullets and inline links.
func DigestPrompt(date time.Time, sections map[string][]SourceItem) string {
	var sb strings.Builder

	categories := make([]string, 0, len(sections))
	for cat := range sections {
		categories = append(categories, cat)
	}
	sort.Strings(categories)

	for _, cat := range categories {
		fmt.Fprintf(&sb, "Category: %s\n", cat)
		for _, item := range sections[cat] {
			fmt.Fprintf(&sb, "- %s | %s | %s\n", item.Title, item.Source, item.Link)
			if item.Summary != "" {
				fmt.Fprintf(&sb, "  summary: %s\n", item.Summary)
			}
		}
		sb.WriteString("\n")
	}

	return fmt.Sprintf(`
You are a news digest writer. Compose the daily digest for %s from the
source items below.

Source items (title | source | link):
%s
Format requirements:
1. Start with a one-paragraph introduction, then a line containing only "---".
2. After the separator, use "# Daily Digest" as the top heading.
3. One "## <Category>" section per category, in the order given.
4. Under each section, one "- " bullet per story with the title as an
   inline [title](link) markdown link, followed by a short comment.
5. Separate paragraphs with blank lines. Do not use any other markup.
6. Keep the whole digest under 600 words.
`, date.Format("January 2, 2006"), sb.String())
}
