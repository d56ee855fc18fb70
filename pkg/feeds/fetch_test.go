package feeds

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const sampleRSS = `<?xml version="1.0"?>
<rss version="2.0">
  <channel>
    <title>Example Feed</title>
    <item>
      <title>First story</title>
      <link>https://example.org/1</link>
      <guid>guid-1</guid>
      <description>About the first story</description>
      <pubDate>Tue, 03 Mar 2026 08:00:00 +0000</pubDate>
    </item>
    <item>
      <title>Second story</title>
      <link>https://example.org/2</link>
    </item>
  </channel>
</rss>`

const sampleAtom = `<?xml version="1.0"?>
<feed xmlns="http://www.w3.org/2005/Atom">
  <entry>
    <title>Atom entry</title>
    <id>atom-1</id>
    <summary>An atom summary</summary>
    <updated>2026-03-03T08:00:00Z</updated>
    <link rel="alternate" href="https://example.org/atom/1"/>
  </entry>
</feed>`

func TestFetchRSS(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(sampleRSS))
	}))
	defer server.Close()

	f := NewFetcher()
	items, err := f.Fetch(context.Background(), Source{Name: "Example", URL: server.URL, Category: "Tech"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(items))
	}
	first := items[0]
	if first.GUID != "guid-1" || first.Title != "First story" || first.Link != "https://example.org/1" {
		t.Errorf("item 0 = %+v", first)
	}
	if first.Source != "Example" || first.Category != "Tech" {
		t.Errorf("item 0 source/category = %q/%q", first.Source, first.Category)
	}
	if first.Published == nil || first.Published.Day() != 3 {
		t.Errorf("item 0 published = %v", first.Published)
	}
	// GUID falls back to link when absent.
	if items[1].GUID != "https://example.org/2" {
		t.Errorf("item 1 guid = %q", items[1].GUID)
	}
}

func TestFetchAtom(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleAtom))
	}))
	defer server.Close()

	f := NewFetcher()
	items, err := f.Fetch(context.Background(), Source{Name: "Atom", URL: server.URL, Category: "Science"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(items))
	}
	if items[0].GUID != "atom-1" || items[0].Link != "https://example.org/atom/1" || items[0].Summary != "An atom summary" {
		t.Errorf("item = %+v", items[0])
	}
}

func TestFetchBadStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	f := NewFetcher()
	if _, err := f.Fetch(context.Background(), Source{Name: "Broken", URL: server.URL}); err == nil {
		t.Fatal("expected error, got nil")
	}
}

func TestFetchAllSkipsBrokenSource(t *testing.T) {
	good := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(sampleRSS))
	}))
	defer good.Close()
	bad := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not xml at all"))
	}))
	defer bad.Close()

	f := NewFetcher()
	items := f.FetchAll(context.Background(), []Source{
		{Name: "Bad", URL: bad.URL, Category: "Tech"},
		{Name: "Good", URL: good.URL, Category: "Tech"},
	})
	if len(items) != 2 {
		t.Fatalf("expected 2 items from the good source, got %d", len(items))
	}
}

func TestGroupByCategory(t *testing.T) {
	items := []Item{
		{GUID: "1", Category: "Tech"},
		{GUID: "2", Category: "Science"},
		{GUID: "3", Category: "Tech"},
	}
	groups := GroupByCategory(items)
	if len(groups) != 2 {
		t.Fatalf("groups = %+v", groups)
	}
	if len(groups["Tech"]) != 2 || groups["Tech"][0].GUID != "1" || groups["Tech"][1].GUID != "3" {
		t.Errorf("tech group = %+v", groups["Tech"])
	}
}

func TestLoadSources(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sources.yaml")
	content := `sources:
  - name: Go Blog
    url: https://go.dev/blog/feed.atom
    category: tech
  - url: https://example.org/feed
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	sources, err := LoadSources(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(sources) != 2 {
		t.Fatalf("expected 2 sources, got %d", len(sources))
	}
	if sources[0].Category != "Tech" {
		t.Errorf("category = %q, want normalized Tech", sources[0].Category)
	}
	if sources[1].Name != "https://example.org/feed" {
		t.Errorf("name fallback = %q", sources[1].Name)
	}
	if sources[1].Category != "General" {
		t.Errorf("empty category = %q, want General", sources[1].Category)
	}
}

func TestLoadSourcesMissingURL(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sources.yaml")
	if err := os.WriteFile(path, []byte("sources:\n  - name: NoURL\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadSources(path); err == nil {
		t.Fatal("expected error for source without url")
	}
}
