package notion

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mklimuk/digest-pilot/pkg/digest"
)

// API is the slice of the document store the resolver needs.
type API interface {
	ListChildren(ctx context.Context, pageID string) ([]ChildBlock, error)
	CreatePage(ctx context.Context, parentID, title string, children []Block) (*Page, error)
}

// NotionError wraps any failure from the remote document store during
// month-page resolution or day-page creation. No distinction is made
// between network, auth and validation failures at this layer, and
// nothing is retried; the caller decides how to surface it.
type NotionError struct {
	Op  string
	Err error
}

func (e *NotionError) Error() string {
	return fmt.Sprintf("notion: %s: %v", e.Op, e.Err)
}

func (e *NotionError) Unwrap() error {
	return e.Err
}

// Resolver publishes digests into a month/day page hierarchy under a
// fixed root page.
type Resolver struct {
	api    API
	rootID string
	now    func() time.Time
}

// NewResolver creates a resolver rooted at the given container page.
func NewResolver(api API, rootID string) *Resolver {
	return &Resolver{api: api, rootID: rootID, now: time.Now}
}

// UpdateDigest resolves (or creates) the current month's container
// page and creates a fresh day page beneath it holding the digest's
// converted blocks.
//
// Two concurrent callers that both miss the month page will both
// create one; nothing here guards against that.
func (r *Resolver) UpdateDigest(ctx context.Context, d digest.Digest) (*Page, error) {
	monthPage, err := r.ResolveMonthPage(ctx)
	if err != nil {
		return nil, err
	}
	return r.CreateDayPage(ctx, monthPage.ID, d)
}

// ResolveMonthPage returns the first child page of the root whose
// title contains the current month's name, creating one titled with
// the month name if none exists.
func (r *Resolver) ResolveMonthPage(ctx context.Context) (*Page, error) {
	children, err := r.api.ListChildren(ctx, r.rootID)
	if err != nil {
		return nil, &NotionError{Op: "list month pages", Err: err}
	}

	monthName := r.now().Month().String()
	for _, child := range children {
		if child.Type != "child_page" {
			continue
		}
		if strings.Contains(child.Title, monthName) {
			return &Page{ID: child.ID, Title: child.Title}, nil
		}
	}

	created, err := r.api.CreatePage(ctx, r.rootID, monthName, nil)
	if err != nil {
		return nil, &NotionError{Op: "create month page", Err: err}
	}
	return created, nil
}

// CreateDayPage converts the digest body and creates a page titled by
// the current day of month (e.g. "March 3rd") under the container.
func (r *Resolver) CreateDayPage(ctx context.Context, containerID string, d digest.Digest) (*Page, error) {
	title := DayPageTitle(r.now())
	blocks := BlocksToWire(digest.Convert(d.Content))

	created, err := r.api.CreatePage(ctx, containerID, title, blocks)
	if err != nil {
		return nil, &NotionError{Op: "create day page", Err: err}
	}
	return created, nil
}

// DayPageTitle formats a date as "<Month> <day><suffix>".
func DayPageTitle(t time.Time) string {
	day := t.Day()
	return fmt.Sprintf("%s %d%s", t.Month().String(), day, ordinalSuffix(day))
}

// ordinalSuffix returns the ordinal suffix for a day number (st, nd,
// rd, th).
func ordinalSuffix(day int) string {
	if day%100 >= 11 && day%100 <= 13 {
		return "th"
	}
	switch day % 10 {
	case 1:
		return "st"
	case 2:
		return "nd"
	case 3:
		return "rd"
	default:
		return "th"
	}
}
