package store

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"

	"github.com/nats-io/nats.go/jetstream"
)

// Page is a stored crawl result: extracted plain text keyed by source URL.
type Page struct {
	URL  string
	Text string
}

// PageStore persists extracted page text keyed by URL. URLs contain
// characters that are not valid KV keys, so keys are base64url-encoded.
type PageStore struct {
	kv     Bucket
	logger *slog.Logger
}

// NewPageStore creates a page store over the given bucket.
func NewPageStore(kv Bucket, logger *slog.Logger) *PageStore {
	if logger == nil {
		logger = slog.Default()
	}
	return &PageStore{kv: kv, logger: logger}
}

// Put upserts the extracted text for a URL. Re-crawling a URL overwrites
// the previous text.
func (s *PageStore) Put(ctx context.Context, url, text string) error {
	if _, err := s.kv.Put(ctx, pageKey(url), []byte(text)); err != nil {
		return fmt.Errorf("put page %s: %w", url, err)
	}
	return nil
}

// ScanAll returns every stored page, paging through the bucket's key list
// internally. If an individual read fails mid-scan the pages fetched so far
// are returned alongside the error so callers can use partial results.
func (s *PageStore) ScanAll(ctx context.Context) ([]Page, error) {
	lister, err := s.kv.ListKeys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list pages: %w", err)
	}
	defer func() { _ = lister.Stop() }()

	var pages []Page
	for key := range lister.Keys() {
		entry, err := s.kv.Get(ctx, key)
		if err != nil {
			if errors.Is(err, jetstream.ErrKeyNotFound) {
				// Deleted between list and get.
				continue
			}
			s.logger.Warn("page scan read failed", "key", key, "error", err)
			return pages, fmt.Errorf("get page %s: %w", key, err)
		}
		url, err := pageURL(key)
		if err != nil {
			s.logger.Warn("skipping page with malformed key", "key", key)
			continue
		}
		pages = append(pages, Page{URL: url, Text: string(entry.Value())})
	}
	return pages, nil
}

// pageKey encodes a URL as a KV-safe key.
func pageKey(url string) string {
	return base64.RawURLEncoding.EncodeToString([]byte(url))
}

// pageURL decodes a KV key back to the original URL.
func pageURL(key string) (string, error) {
	raw, err := base64.RawURLEncoding.DecodeString(key)
	if err != nil {
		return "", err
	}
	return string(raw), nil
}
