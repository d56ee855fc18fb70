// Package pipeline wires one digest run end to end: fetch sources,
// generate the digest text, publish it to the document store, archive
// it locally and announce it on the chat channels.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"sort"
	"time"

	"github.com/mklimuk/digest-pilot/pkg/ai"
	"github.com/mklimuk/digest-pilot/pkg/archive"
	"github.com/mklimuk/digest-pilot/pkg/db"
	"github.com/mklimuk/digest-pilot/pkg/digest"
	"github.com/mklimuk/digest-pilot/pkg/feeds"
	"github.com/mklimuk/digest-pilot/pkg/notion"
)

// Fetcher downloads source items.
type Fetcher interface {
	FetchAll(ctx context.Context, sources []feeds.Source) []feeds.Item
}

// Publisher pushes a digest into the document store.
type Publisher interface {
	UpdateDigest(ctx context.Context, d digest.Digest) (*notion.Page, error)
}

// Announcer notifies a chat channel about a published digest.
type Announcer interface {
	Announce(title, pageURL, content string) error
}

// Pipeline holds the collaborators of one digest run.
type Pipeline struct {
	Sources    []feeds.Source
	Fetcher    Fetcher
	Repo       *db.Repository
	Generator  ai.Generator
	Publisher  Publisher
	Archive    *archive.Archive // optional
	GitSync    *archive.GitSync // optional
	Announcers []Announcer

	now func() time.Time
}

// New creates a Pipeline with the required collaborators; optional
// ones are set on the returned value.
func New(sources []feeds.Source, fetcher Fetcher, repo *db.Repository, gen ai.Generator, pub Publisher) *Pipeline {
	return &Pipeline{
		Sources:   sources,
		Fetcher:   fetcher,
		Repo:      repo,
		Generator: gen,
		Publisher: pub,
		now:       time.Now,
	}
}

// Run executes one digest run and returns the created page URL.
// Generation and publishing failures abort the run; archive and
// announcement failures are logged but do not fail a run whose page
// was already created.
func (p *Pipeline) Run(ctx context.Context) (string, error) {
	items := p.Fetcher.FetchAll(ctx, p.Sources)

	fresh := make([]feeds.Item, 0, len(items))
	for _, item := range items {
		seen, err := p.Repo.Seen(item.GUID)
		if err != nil {
			return "", fmt.Errorf("failed to check seen items: %w", err)
		}
		if !seen {
			fresh = append(fresh, item)
		}
	}
	if len(fresh) == 0 {
		return "", fmt.Errorf("no new source items")
	}

	now := p.now()
	prompt := ai.DigestPrompt(now, promptSections(fresh))
	content, err := p.Generator.GenerateText(ctx, prompt)
	if err != nil {
		return "", fmt.Errorf("digest generation failed: %w", err)
	}

	d := digest.Digest{Content: content}
	page, err := p.Publisher.UpdateDigest(ctx, d)
	if err != nil {
		return "", err
	}

	// Items only count as digested once the page exists, so a failed
	// run picks them up again next time.
	for _, item := range fresh {
		if err := p.Repo.MarkSeen(item.GUID, now); err != nil {
			log.Printf("pipeline: failed to mark %s seen: %v", item.GUID, err)
		}
	}

	title := page.Title
	if title == "" {
		title = notion.DayPageTitle(now)
	}

	if p.Archive != nil {
		path, err := p.Archive.Write(archive.Entry{
			Date:       now,
			Title:      title,
			Categories: categoriesOf(fresh),
			PageURL:    page.URL,
			Content:    content,
		})
		if err != nil {
			log.Printf("pipeline: archive write failed: %v", err)
		} else {
			log.Printf("pipeline: archived digest to %s", path)
			if p.GitSync != nil {
				if err := p.GitSync.Sync("Archive digest " + title); err != nil {
					log.Printf("pipeline: archive sync failed: %v", err)
				}
			}
		}
	}

	for _, a := range p.Announcers {
		if err := a.Announce(title, page.URL, content); err != nil {
			log.Printf("pipeline: announcement failed: %v", err)
		}
	}

	return page.URL, nil
}

func promptSections(items []feeds.Item) map[string][]ai.SourceItem {
	sections := make(map[string][]ai.SourceItem)
	for cat, group := range feeds.GroupByCategory(items) {
		converted := make([]ai.SourceItem, 0, len(group))
		for _, item := range group {
			converted = append(converted, ai.SourceItem{
				Title:   item.Title,
				Link:    item.Link,
				Source:  item.Source,
				Summary: item.Summary,
			})
		}
		sections[cat] = converted
	}
	return sections
}

func categoriesOf(items []feeds.Item) []string {
	set := make(map[string]bool)
	for _, item := range items {
		set[item.Category] = true
	}
	categories := make([]string, 0, len(set))
	for cat := range set {
		categories = append(categories, cat)
	}
	sort.Strings(categories)
	return categories
}
