// Package vector provides a client for the external vector-search service.
// It is a minimal REST client to Qdrant's points search API.
package vector

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// Match is one ranked result of a nearest-neighbor search. URL is empty
// when the indexed chunk carried no source attribution.
type Match struct {
	Score float64
	Text  string
	URL   string
}

// Config configures the vector search client.
type Config struct {
	// BaseURL is the Qdrant endpoint, e.g. "http://localhost:6333".
	BaseURL string

	// APIKey is sent as the api-key header when set.
	APIKey string

	// Collection is the collection to search.
	Collection string

	// Timeout bounds each request.
	Timeout time.Duration
}

// Client issues nearest-neighbor searches with payload metadata.
type Client struct {
	baseURL    string
	apiKey     string
	collection string
	client     *http.Client
}

// NewClient creates a vector search client.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, fmt.Errorf("vector search base URL is required")
	}
	if cfg.Collection == "" {
		return nil, fmt.Errorf("vector search collection is required")
	}
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 15 * time.Second
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:     cfg.APIKey,
		collection: cfg.Collection,
		client:     &http.Client{Timeout: timeout},
	}, nil
}

type searchRequest struct {
	Vector      []float32 `json:"vector"`
	Limit       int       `json:"limit"`
	WithPayload bool      `json:"with_payload"`
}

type searchResponse struct {
	Result []struct {
		Score   float64        `json:"score"`
		Payload map[string]any `json:"payload"`
	} `json:"result"`
}

// Search returns the topK nearest matches with similarity scores and
// payload metadata, preserving the index's ranking order.
func (c *Client) Search(ctx context.Context, vec []float32, topK int) ([]Match, error) {
	if topK <= 0 {
		return nil, fmt.Errorf("topK must be positive")
	}

	body, err := json.Marshal(searchRequest{Vector: vec, Limit: topK, WithPayload: true})
	if err != nil {
		return nil, fmt.Errorf("marshal search request: %w", err)
	}

	url := fmt.Sprintf("%s/collections/%s/points/search", c.baseURL, c.collection)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("create search request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("api-key", c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("search request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("vector search error (status %d): %s", resp.StatusCode, strings.TrimSpace(string(msg)))
	}

	var parsed searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("decode search response: %w", err)
	}

	matches := make([]Match, 0, len(parsed.Result))
	for _, r := range parsed.Result {
		m := Match{Score: r.Score}
		if text, ok := r.Payload["text"].(string); ok {
			m.Text = text
		}
		if url, ok := r.Payload["url"].(string); ok {
			m.URL = url
		}
		matches = append(matches, m)
	}
	return matches, nil
}
