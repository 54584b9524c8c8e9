package crawl

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"time"
)

const defaultUserAgent = "Mozilla/5.0 (compatible; quarry-crawler/1.0)"

// Prober determines a URL's content type without downloading the whole
// document: a HEAD request first, then a 1 KiB ranged GET when HEAD
// fails or omits the header.
type Prober struct {
	client    *http.Client
	userAgent string
	logger    *slog.Logger
}

// NewProber creates a content-type prober. timeout bounds each of the
// two probe requests independently.
func NewProber(timeout time.Duration, logger *slog.Logger) *Prober {
	if timeout == 0 {
		timeout = 20 * time.Second
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Prober{
		client:    &http.Client{Timeout: timeout},
		userAgent: defaultUserAgent,
		logger:    logger,
	}
}

// ContentType returns the URL's declared content type, or "" when it
// cannot be determined after both probe attempts.
func (p *Prober) ContentType(ctx context.Context, url string) string {
	if ct := p.probe(ctx, http.MethodHead, url, false); ct != "" {
		return ct
	}
	// HEAD is commonly rejected or answered without a Content-Type;
	// retry with a partial-content GET.
	if ct := p.probe(ctx, http.MethodGet, url, true); ct != "" {
		return ct
	}
	p.logger.Debug("content type undeterminable", "url", url)
	return ""
}

func (p *Prober) probe(ctx context.Context, method, url string, ranged bool) string {
	req, err := http.NewRequestWithContext(ctx, method, url, nil)
	if err != nil {
		return ""
	}
	req.Header.Set("User-Agent", p.userAgent)
	if ranged {
		req.Header.Set("Range", "bytes=0-1023")
	}

	resp, err := p.client.Do(req)
	if err != nil {
		return ""
	}
	defer resp.Body.Close()
	io.Copy(io.Discard, io.LimitReader(resp.Body, 1024))

	if resp.StatusCode >= 400 {
		return ""
	}
	return resp.Header.Get("Content-Type")
}
