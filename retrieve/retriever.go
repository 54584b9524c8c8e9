// Package retrieve turns a user question into a grounding context block:
// encode the question, search the vector index, and render the matches
// into the text form the prompt builder consumes.
package retrieve

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/quarrylabs/quarry/vector"
)

// DefaultTopK is the number of chunks fetched per question.
const DefaultTopK = 50

// Encoder converts query text into a numeric vector.
type Encoder interface {
	Encode(ctx context.Context, text string) ([]float32, error)
}

// Searcher returns the nearest indexed chunks for a vector.
type Searcher interface {
	Search(ctx context.Context, vec []float32, topK int) ([]vector.Match, error)
}

// Retriever assembles retrieval context for questions.
type Retriever struct {
	encoder  Encoder
	searcher Searcher
	topK     int
	logger   *slog.Logger
}

// Option configures a Retriever.
type Option func(*Retriever)

// WithTopK overrides the number of chunks fetched per question.
func WithTopK(k int) Option {
	return func(r *Retriever) {
		if k > 0 {
			r.topK = k
		}
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Retriever) {
		r.logger = logger
	}
}

// New creates a Retriever.
func New(encoder Encoder, searcher Searcher, opts ...Option) *Retriever {
	r := &Retriever{
		encoder:  encoder,
		searcher: searcher,
		topK:     DefaultTopK,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Context retrieves the chunks most relevant to query and renders them as
// a single context block. Each chunk becomes "<text>\nSource URL: <url>",
// chunks are separated by blank lines, and ranking order is preserved.
// No matches yields an empty string, which is not an error.
func (r *Retriever) Context(ctx context.Context, query string) (string, error) {
	vec, err := r.encoder.Encode(ctx, query)
	if err != nil {
		return "", fmt.Errorf("encode query: %w", err)
	}

	matches, err := r.searcher.Search(ctx, vec, r.topK)
	if err != nil {
		return "", fmt.Errorf("search index: %w", err)
	}

	r.logger.Debug("retrieved context", "matches", len(matches), "top_k", r.topK)

	chunks := make([]string, 0, len(matches))
	for _, m := range matches {
		url := m.URL
		if url == "" {
			url = "N/A"
		}
		chunks = append(chunks, m.Text+"\nSource URL: "+url)
	}
	return strings.Join(chunks, "\n\n"), nil
}
