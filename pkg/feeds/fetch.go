package feeds

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

// Item is a normalized entry from one source feed.
type Item struct {
	GUID      string
	Title     string
	Link      string
	Summary   string
	Source    string
	Category  string
	Published *time.Time
}

// Fetcher downloads and decodes source feeds.
type Fetcher struct {
	httpClient *http.Client
}

// NewFetcher creates a new feed fetcher.
func NewFetcher() *Fetcher {
	return &Fetcher{
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

type rssFeed struct {
	Channel struct {
		Items []rssItem `xml:"item"`
	} `xml:"channel"`
}

type rssItem struct {
	Title       string `xml:"title"`
	Link        string `xml:"link"`
	GUID        string `xml:"guid"`
	Description string `xml:"description"`
	PubDate     string `xml:"pubDate"`
}

type atomFeed struct {
	Entries []atomEntry `xml:"entry"`
}

type atomEntry struct {
	Title   string `xml:"title"`
	ID      string `xml:"id"`
	Summary string `xml:"summary"`
	Updated string `xml:"updated"`
	Links   []struct {
		Rel  string `xml:"rel,attr"`
		Href string `xml:"href,attr"`
	} `xml:"link"`
}

// Fetch downloads one source and returns its normalized items.
func (f *Fetcher) Fetch(ctx context.Context, src Source) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", src.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("feed %s returned status %d", src.URL, resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read feed body: %w", err)
	}

	items, err := decodeFeed(data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode feed %s: %w", src.URL, err)
	}

	for i := range items {
		items[i].Source = src.Name
		items[i].Category = src.Category
	}
	return items, nil
}

// FetchAll fetches every source, logging and skipping failures so one
// broken feed does not sink the whole run.
func (f *Fetcher) FetchAll(ctx context.Context, sources []Source) []Item {
	var all []Item
	for _, src := range sources {
		items, err := f.Fetch(ctx, src)
		if err != nil {
			log.Printf("feeds: skipping %s: %v", src.Name, err)
			continue
		}
		all = append(all, items...)
	}
	return all
}

// decodeFeed decodes RSS 2.0 and falls back to Atom.
func decodeFeed(data []byte) ([]Item, error) {
	var rss rssFeed
	if err := xml.Unmarshal(data, &rss); err == nil && len(rss.Channel.Items) > 0 {
		items := make([]Item, 0, len(rss.Channel.Items))
		for _, it := range rss.Channel.Items {
			guid := it.GUID
			if guid == "" {
				guid = it.Link
			}
			items = append(items, Item{
				GUID:      guid,
				Title:     it.Title,
				Link:      it.Link,
				Summary:   it.Description,
				Published: parseFeedTime(it.PubDate),
			})
		}
		return items, nil
	}

	var atom atomFeed
	if err := xml.Unmarshal(data, &atom); err != nil {
		return nil, err
	}
	if len(atom.Entries) == 0 {
		return nil, fmt.Errorf("no recognizable feed entries")
	}

	items := make([]Item, 0, len(atom.Entries))
	for _, e := range atom.Entries {
		link := ""
		for _, l := range e.Links {
			if l.Rel == "" || l.Rel == "alternate" {
				link = l.Href
				break
			}
		}
		guid := e.ID
		if guid == "" {
			guid = link
		}
		items = append(items, Item{
			GUID:      guid,
			Title:     e.Title,
			Link:      link,
			Summary:   e.Summary,
			Published: parseFeedTime(e.Updated),
		})
	}
	return items, nil
}

func parseFeedTime(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{time.RFC1123Z, time.RFC1123, time.RFC3339} {
		if t, err := time.Parse(layout, value); err == nil {
			return &t
		}
	}
	return nil
}

// GroupByCategory buckets items by their source category, preserving
// fetch order within each bucket.
func GroupByCategory(items []Item) map[string][]Item {
	groups := make(map[string][]Item)
	for _, item := range items {
		groups[item.Category] = append(groups[item.Category], item)
	}
	return groups
}
