package notify

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/mklimuk/digest-pilot/pkg/db"
)

func TestFormatAnnouncement(t *testing.T) {
	content := "intro paragraph\n---\n# Daily Digest\n- first story"
	msg := FormatAnnouncement("March 3rd", "https://notion.so/day-1", content)

	if !strings.Contains(msg, "March 3rd") {
		t.Errorf("missing title: %q", msg)
	}
	if !strings.Contains(msg, "https://notion.so/day-1") {
		t.Errorf("missing url: %q", msg)
	}
	if !strings.Contains(msg, "# Daily Digest") {
		t.Errorf("missing preview: %q", msg)
	}
	if strings.Contains(msg, "intro paragraph") {
		t.Errorf("preview should skip the intro: %q", msg)
	}
}

func TestPreviewTruncates(t *testing.T) {
	long := strings.Repeat("x", 500)
	got := Preview(long, 280)
	if len(got) != 283 || !strings.HasSuffix(got, "...") {
		t.Errorf("len = %d, got %q", len(got), got)
	}

	if got := Preview("short", 280); got != "short" {
		t.Errorf("short preview = %q", got)
	}
}

func TestPreviewKeepsRunesIntact(t *testing.T) {
	long := strings.Repeat("日", 100) // 300 bytes; 280 falls mid-rune
	got := Preview(long, 280)
	if !utf8.ValidString(got) {
		t.Errorf("preview is not valid UTF-8: %q", got)
	}
	if !strings.HasSuffix(got, "...") || strings.Contains(strings.TrimSuffix(got, "..."), "�") {
		t.Errorf("preview = %q", got)
	}
	if len(got) != 279+3 {
		t.Errorf("len = %d", len(got))
	}
}

func TestPreviewWithoutSeparator(t *testing.T) {
	if got := Preview("  no separator here  ", 280); got != "no separator here" {
		t.Errorf("preview = %q", got)
	}
}

func TestFormatRunStatus(t *testing.T) {
	started := time.Date(2026, time.March, 3, 8, 30, 0, 0, time.UTC)

	ok := FormatRunStatus(db.DigestRun{StartedAt: started, Status: "success", PageURL: "https://notion.so/d"})
	if !strings.Contains(ok, "success") || !strings.Contains(ok, "https://notion.so/d") {
		t.Errorf("status = %q", ok)
	}

	failed := FormatRunStatus(db.DigestRun{StartedAt: started, Status: "failed", Error: "boom"})
	if !strings.Contains(failed, "failed") || !strings.Contains(failed, "boom") {
		t.Errorf("status = %q", failed)
	}

	plain := FormatRunStatus(db.DigestRun{StartedAt: started, Status: "success"})
	if strings.Contains(plain, "()") {
		t.Errorf("status = %q", plain)
	}
}
