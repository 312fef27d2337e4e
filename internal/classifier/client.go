package classifier

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/teemow/mailsift/internal/mailbox"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com"
	modelPath      = "/v1beta/models/gemini-2.0-flash:generateContent"

	// Low-variance generation settings bias the model toward a single
	// deterministic label token.
	temperature     = 0.3
	maxOutputTokens = 20

	// maxInFlight bounds concurrent model calls per batch.
	maxInFlight = 10

	apiKeyHeader = "x-goog-api-key"
)

// ErrMissingAPIKey is returned before any model call when the caller
// supplies no API key.
var ErrMissingAPIKey = errors.New("missing model credential")

// Client calls the Gemini generateContent endpoint. The API key is
// supplied per Classify call and never stored or logged.
type Client struct {
	httpClient *http.Client
	baseURL    string
}

// Option configures a Client.
type Option func(*Client)

// WithBaseURL overrides the model endpoint (used by tests).
func WithBaseURL(u string) Option {
	return func(c *Client) { c.baseURL = u }
}

// WithHTTPClient overrides the HTTP client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) { c.httpClient = hc }
}

// NewClient creates a Gemini classification client.
func NewClient(opts ...Option) *Client {
	c := &Client{
		httpClient: defaultHTTPClient,
		baseURL:    defaultBaseURL,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify assigns exactly one category to every message, one model
// call per message, fanned out concurrently. The returned slice is
// index-aligned with the input regardless of completion order, and no
// message is ever dropped: a failed model call yields Unclassified for
// that message only. An empty API key fails the whole call before any
// per-message work starts.
func (c *Client) Classify(ctx context.Context, msgs []mailbox.Message, apiKey string) ([]ClassifiedMessage, error) {
	if apiKey == "" {
		return nil, ErrMissingAPIKey
	}

	out := make([]ClassifiedMessage, len(msgs))

	var g errgroup.Group
	g.SetLimit(maxInFlight)
	for i, msg := range msgs {
		g.Go(func() error {
			category, err := c.classifyOne(ctx, msg, apiKey)
			if err != nil {
				category = CategoryUnclassified
			}
			out[i] = ClassifiedMessage{Message: msg, Category: category}
			return nil
		})
	}
	_ = g.Wait()

	return out, nil
}

// classifyOne performs a single model call and normalizes the answer.
// An empty or missing candidate is not an error; it normalizes to
// General.
func (c *Client) classifyOne(ctx context.Context, msg mailbox.Message, apiKey string) (Category, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{Parts: []part{{Text: BuildPrompt(msg)}}}},
		GenerationConfig: generationConfig{
			Temperature:     temperature,
			MaxOutputTokens: maxOutputTokens,
		},
	})
	if err != nil {
		return "", fmt.Errorf("failed to encode model request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+modelPath, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("failed to build model request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(apiKeyHeader, apiKey)

	res, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("model call failed: %w", err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return "", fmt.Errorf("model call returned status %s", res.Status)
	}

	var parsed generateResponse
	if err := json.NewDecoder(res.Body).Decode(&parsed); err != nil {
		return "", fmt.Errorf("failed to decode model response: %w", err)
	}

	return Normalize(firstCandidateText(parsed)), nil
}

// firstCandidateText returns the first candidate's first text part, or
// "" when the response carries no usable candidate.
func firstCandidateText(res generateResponse) string {
	if len(res.Candidates) == 0 {
		return ""
	}
	parts := res.Candidates[0].Content.Parts
	if len(parts) == 0 {
		return ""
	}
	return parts[0].Text
}
