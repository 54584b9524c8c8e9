package crawl

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/quarrylabs/quarry/extract"
)

// ContentTyper resolves a URL's declared content type, "" when
// undeterminable. Prober satisfies it.
type ContentTyper interface {
	ContentType(ctx context.Context, url string) string
}

// DocumentFetcher downloads a document. Fetcher satisfies it.
type DocumentFetcher interface {
	Fetch(ctx context.Context, url string) (*FetchResult, error)
	Close()
}

// PageWriter persists extracted page text. store.PageStore satisfies it.
type PageWriter interface {
	Put(ctx context.Context, url, text string) error
}

type state int

const (
	stateIdle state = iota
	stateRunning
	stateDone
)

// Frontier drives one breadth-first crawl run over a Job. A Frontier
// value runs exactly one job; create a new one per run.
type Frontier struct {
	prober  ContentTyper
	fetcher DocumentFetcher
	pages   PageWriter
	logger  *slog.Logger

	mu      sync.Mutex
	state   state
	visited map[string]bool
}

// NewFrontier creates a Frontier.
func NewFrontier(prober ContentTyper, fetcher DocumentFetcher, pages PageWriter, logger *slog.Logger) *Frontier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Frontier{
		prober:  prober,
		fetcher: fetcher,
		pages:   pages,
		logger:  logger,
		state:   stateIdle,
		visited: make(map[string]bool),
	}
}

// markIfNotVisited atomically tests and marks a URL. Returns true when
// the caller owns processing for this URL.
func (f *Frontier) markIfNotVisited(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.visited[url] {
		return false
	}
	f.visited[url] = true
	return true
}

// Run crawls the job to exhaustion and returns a result record per
// processed URL. Per-URL failures never abort the run; only a reused
// Frontier or a cancelled context produces an error.
func (f *Frontier) Run(ctx context.Context, job Job) ([]PageResult, error) {
	f.mu.Lock()
	if f.state != stateIdle {
		f.mu.Unlock()
		return nil, fmt.Errorf("frontier already ran")
	}
	f.state = stateRunning
	f.mu.Unlock()

	start := time.Now()
	defer func() {
		f.mu.Lock()
		f.state = stateDone
		f.mu.Unlock()
		f.fetcher.Close()
		runDuration.Observe(time.Since(start).Seconds())
	}()

	pending := append([]string(nil), job.Seeds...)
	var results []PageResult

	for len(pending) > 0 {
		if err := ctx.Err(); err != nil {
			return results, err
		}

		// Stray whitespace in a seed or href must not defeat dedup
		// against its trimmed twin.
		url := strings.TrimSpace(pending[0])
		pending = pending[1:]

		if url == "" || !f.markIfNotVisited(url) {
			continue
		}

		result, links := f.process(ctx, url)
		results = append(results, result)

		switch result.Outcome {
		case OutcomeStored:
			pagesStored.Inc()
		case OutcomeSkipped:
			pagesSkipped.Inc()
		case OutcomeFailed:
			pagesFailed.Inc()
		}

		for _, link := range links {
			if job.admit(link) {
				pending = append(pending, link)
			}
		}
	}

	f.logger.Info("crawl run complete",
		"processed", len(results),
		"duration", time.Since(start))
	return results, nil
}

// process handles one URL: probe, fetch, extract, store. Returned links
// are unfiltered; the caller applies the job's admission rules.
func (f *Frontier) process(ctx context.Context, url string) (PageResult, []string) {
	result := PageResult{URL: url}

	ct := f.prober.ContentType(ctx, url)
	result.ContentType = ct

	kind := extract.Classify(ct)
	if kind == extract.KindSkip {
		result.Outcome = OutcomeSkipped
		result.Reason = "unhandled content type"
		f.logger.Info("skipping url", "url", url, "content_type", ct)
		return result, nil
	}

	fetched, err := f.fetcher.Fetch(ctx, url)
	if err != nil {
		result.Outcome = OutcomeFailed
		result.Reason = "fetch failed"
		result.Err = err
		f.logger.Warn("fetch failed", "url", url, "error", err)
		return result, nil
	}

	switch kind {
	case extract.KindHTML:
		parsed, err := extract.HTML(url, fetched.Body)
		if err != nil {
			result.Outcome = OutcomeFailed
			result.Reason = "parse failed"
			result.Err = err
			f.logger.Warn("html parse failed", "url", url, "error", err)
			return result, nil
		}
		if parsed.Text == "" {
			result.Outcome = OutcomeSkipped
			result.Reason = "empty text"
			return result, nil
		}
		if err := f.pages.Put(ctx, url, parsed.Text); err != nil {
			// Best-effort write; the crawl continues, but links from
			// this page still propagate.
			f.logger.Error("page store write failed", "url", url, "error", err)
			result.Outcome = OutcomeFailed
			result.Reason = "store failed"
			result.Err = err
			return result, parsed.Links
		}
		result.Outcome = OutcomeStored
		return result, parsed.Links

	case extract.KindPDF:
		text, err := extract.PDF(fetched.Body)
		if err != nil {
			result.Outcome = OutcomeFailed
			result.Reason = "parse failed"
			result.Err = err
			f.logger.Warn("pdf parse failed", "url", url, "error", err)
			return result, nil
		}
		if text == "" {
			result.Outcome = OutcomeSkipped
			result.Reason = "empty text"
			return result, nil
		}
		if err := f.pages.Put(ctx, url, text); err != nil {
			f.logger.Error("page store write failed", "url", url, "error", err)
			result.Outcome = OutcomeFailed
			result.Reason = "store failed"
			result.Err = err
			return result, nil
		}
		result.Outcome = OutcomeStored
		return result, nil
	}

	result.Outcome = OutcomeSkipped
	result.Reason = "unhandled content type"
	return result, nil
}
