package archive

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestWriteAndRead(t *testing.T) {
	dir := t.TempDir()
	a := New(dir)

	entry := Entry{
		Date:       time.Date(2026, time.March, 3, 8, 30, 0, 0, time.UTC),
		Title:      "March 3rd",
		Categories: []string{"Tech", "Science"},
		PageURL:    "https://notion.so/day-1",
		Content:    "intro\n---\n# Daily Digest\n- [story](http://x)",
	}

	path, err := a.Write(entry)
	if err != nil {
		t.Fatalf("write: %v", err)
	}
	if path != filepath.Join(dir, "2026", "2026-03-03.md") {
		t.Errorf("path = %q", path)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(raw), "---\n") {
		t.Errorf("file missing frontmatter: %s", raw)
	}
	if !strings.Contains(string(raw), "page_url: https://notion.so/day-1") {
		t.Errorf("frontmatter missing page url: %s", raw)
	}

	got, err := a.Read(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Title != entry.Title || got.PageURL != entry.PageURL {
		t.Errorf("entry = %+v", got)
	}
	if got.Date.Format("2006-01-02") != "2026-03-03" {
		t.Errorf("date = %v", got.Date)
	}
	if len(got.Categories) != 2 || got.Categories[0] != "Tech" {
		t.Errorf("categories = %v", got.Categories)
	}
	if got.Content != entry.Content {
		t.Errorf("content = %q, want %q", got.Content, entry.Content)
	}
}

func TestWriteOverwritesSameDay(t *testing.T) {
	dir := t.TempDir()
	a := New(dir)

	entry := Entry{Date: time.Date(2026, time.March, 3, 0, 0, 0, 0, time.UTC), Title: "March 3rd", Content: "first"}
	if _, err := a.Write(entry); err != nil {
		t.Fatal(err)
	}
	entry.Content = "second"
	path, err := a.Write(entry)
	if err != nil {
		t.Fatal(err)
	}

	got, err := a.Read(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Content != "second" {
		t.Errorf("content = %q", got.Content)
	}
}

func TestReadRejectsMissingFrontmatter(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "plain.md")
	if err := os.WriteFile(path, []byte("no frontmatter here"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := New(dir).Read(path); err == nil {
		t.Error("expected error for missing frontmatter")
	}
}
