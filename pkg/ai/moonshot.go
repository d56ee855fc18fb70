package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

const (
	moonshotDefaultBaseURL = "https://api.moonshot.ai/v1"
	moonshotDefaultModel   = "kimi-k2.5"

	// The formatting contract lives in the per-run prompt; the system
	// message only pins the persona so retries stay on register.
	moonshotSystemPrompt = "You are a news digest writer. You write concise daily digests " +
		"and follow the formatting instructions in the user message exactly."

	// Digests are bounded at ~600 words, so cap the completion rather
	// than paying for runaway generations.
	moonshotMaxTokens = 2048
)

// MoonshotClient generates digest text through the Moonshot API
// (OpenAI-compatible chat completions).
type MoonshotClient struct {
	httpClient *http.Client
	apiKey     string
	model      string
	baseURL    string
}

// MoonshotOption customizes a MoonshotClient.
type MoonshotOption func(*MoonshotClient)

// WithMoonshotModel overrides the default model.
func WithMoonshotModel(model string) MoonshotOption {
	return func(c *MoonshotClient) {
		if model != "" {
			c.model = model
		}
	}
}

// Ensure MoonshotClient implements Generator
var _ Generator = (*MoonshotClient)(nil)

// NewMoonshotClient creates a new Moonshot digest generator.
func NewMoonshotClient(apiKey string, opts ...MoonshotOption) *MoonshotClient {
	c := &MoonshotClient{
		httpClient: &http.Client{},
		apiKey:     apiKey,
		model:      moonshotDefaultModel,
		baseURL:    moonshotDefaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

type moonshotRequest struct {
	Model       string            `json:"model"`
	Messages    []moonshotMessage `json:"messages"`
	Temperature float64           `json:"temperature"`
	MaxTokens   int               `json:"max_tokens"`
}

type moonshotMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type moonshotResponse struct {
	Choices []moonshotChoice `json:"choices"`
	Error   *moonshotError   `json:"error,omitempty"`
}

type moonshotChoice struct {
	Message moonshotMessage `json:"message"`
}

type moonshotError struct {
	Message string `json:"message"`
	Type    string `json:"type"`
}

// GenerateText asks the model for a digest body. The prompt (from
// DigestPrompt) rides as the user message under the digest-writer
// system message.
func (c *MoonshotClient) GenerateText(ctx context.Context, prompt string) (string, error) {
	reqBody := moonshotRequest{
		Model: c.model,
		Messages: []moonshotMessage{
			{Role: "system", Content: moonshotSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.7,
		MaxTokens:   moonshotMaxTokens,
	}

	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("moonshot API error (status %d): %s", resp.StatusCode, string(respBytes))
	}

	var result moonshotResponse
	if err := json.Unmarshal(respBytes, &result); err != nil {
		return "", fmt.Errorf("failed to parse response: %w", err)
	}

	if result.Error != nil {
		return "", fmt.Errorf("moonshot API error: %s", result.Error.Message)
	}

	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no choices returned")
	}

	return result.Choices[0].Message.Content, nil
}

// Close is a no-op for the HTTP-based Moonshot client
func (c *MoonshotClient) Close() error {
	return nil
}
