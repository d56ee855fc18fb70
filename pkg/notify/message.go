// Package notify holds the channel-independent digest announcement
// formatting shared by the Telegram and Discord bots.
package notify

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/mklimuk/digest-pilot/pkg/db"
)

// FormatAnnouncement builds the notification message for a published
// digest.
func FormatAnnouncement(title, pageURL, content string) string {
	var sb strings.Builder
	sb.WriteString("Daily digest: " + title + "\n")
	if pageURL != "" {
		sb.WriteString(pageURL + "\n")
	}
	preview := Preview(content, 280)
	if preview != "" {
		sb.WriteString("\n" + preview)
	}
	return sb.String()
}

// FormatRunStatus renders the latest run for the status commands.
func FormatRunStatus(run db.DigestRun) string {
	when := run.StartedAt.Format("2006-01-02 15:04 MST")
	if run.Status == "failed" {
		return fmt.Sprintf("Last run %s: failed (%s)", when, run.Error)
	}
	if run.PageURL != "" {
		return fmt.Sprintf("Last run %s: %s (%s)", when, run.Status, run.PageURL)
	}
	return fmt.Sprintf("Last run %s: %s", when, run.Status)
}

// Preview returns the digest body after the intro separator, truncated
// to max characters.
func Preview(content string, max int) string {
	if _, body, ok := strings.Cut(content, "\n---\n"); ok {
		content = body
	}
	content = strings.TrimSpace(content)
	if len(content) > max {
		// Back off to a rune boundary so the cut never splits a
		// multibyte character.
		cut := max
		for cut > 0 && !utf8.RuneStart(content[cut]) {
			cut--
		}
		return content[:cut] + "..."
	}
	return content
}
