package notion

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
)

const (
	defaultBaseURL = "https://api.notion.com/v1"
	apiVersion     = "2022-06-28"
)

// Client talks to the Notion REST API.
type Client struct {
	httpClient *http.Client
	token      string
	baseURL    string
}

// Ensure Client implements API
var _ API = (*Client)(nil)

// NewClient creates a new Notion API client.
func NewClient(token string) *Client {
	return &Client{
		httpClient: &http.Client{},
		token:      token,
		baseURL:    defaultBaseURL,
	}
}

type listChildrenResponse struct {
	Results    []childBlockData `json:"results"`
	HasMore    bool             `json:"has_more"`
	NextCursor string           `json:"next_cursor"`
}

type childBlockData struct {
	ID        string `json:"id"`
	Type      string `json:"type"`
	ChildPage *struct {
		Title string `json:"title"`
	} `json:"child_page,omitempty"`
}

type createPageRequest struct {
	Parent     pageParent     `json:"parent"`
	Properties pageProperties `json:"properties"`
	Children   []Block        `json:"children,omitempty"`
}

type pageParent struct {
	PageID string `json:"page_id"`
}

type pageProperties struct {
	Title titleProperty `json:"title"`
}

type titleProperty struct {
	Title []RichTextItem `json:"title"`
}

type apiErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ListChildren fetches the direct child blocks of a page, in listing
// order, following cursor pagination until exhausted.
func (c *Client) ListChildren(ctx context.Context, pageID string) ([]ChildBlock, error) {
	var children []ChildBlock
	cursor := ""
	for {
		endpoint := fmt.Sprintf("%s/blocks/%s/children?page_size=100", c.baseURL, url.PathEscape(pageID))
		if cursor != "" {
			endpoint += "&start_cursor=" + url.QueryEscape(cursor)
		}

		req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create request: %w", err)
		}

		var page listChildrenResponse
		if err := c.do(req, &page); err != nil {
			return nil, err
		}

		for _, b := range page.Results {
			child := ChildBlock{ID: b.ID, Type: b.Type}
			if b.ChildPage != nil {
				child.Title = b.ChildPage.Title
			}
			children = append(children, child)
		}

		if !page.HasMore || page.NextCursor == "" {
			return children, nil
		}
		cursor = page.NextCursor
	}
}

// CreatePage creates a new page under parentID with the given title
// and optional body blocks. Page creation is atomic on the remote
// side: either the whole page exists afterwards or an error is
// returned.
func (c *Client) CreatePage(ctx context.Context, parentID, title string, children []Block) (*Page, error) {
	reqBody := createPageRequest{
		Parent: pageParent{PageID: parentID},
		Properties: pageProperties{
			Title: titleProperty{
				Title: []RichTextItem{{Type: "text", Text: TextContent{Content: title}}},
			},
		},
		Children: children,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/pages", bytes.NewReader(bodyBytes))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	var created Page
	if err := c.do(req, &created); err != nil {
		return nil, err
	}
	created.Title = title
	return &created, nil
}

func (c *Client) do(req *http.Request, out interface{}) error {
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Notion-Version", apiVersion)
	if req.Method == http.MethodPost {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiErrorResponse
		if json.Unmarshal(respBytes, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("notion API error (status %d, code %s): %s", resp.StatusCode, apiErr.Code, apiErr.Message)
		}
		return fmt.Errorf("notion API error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	if err := json.Unmarshal(respBytes, out); err != nil {
		return fmt.Errorf("failed to parse response: %w", err)
	}
	return nil
}
