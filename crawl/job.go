// Package crawl implements the breadth-first crawl frontier: content-type
// probing, fetching, extraction dispatch, and domain-scoped link discovery.
package crawl

import (
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
)

// Job describes one crawl run.
type Job struct {
	// Seeds are the starting URLs.
	Seeds []string

	// AllowedDomains restricts traversal. A URL passes when its host
	// equals an entry or is a dot-bounded subdomain of one. Empty means
	// unrestricted.
	AllowedDomains []string

	// IncludePaths, when non-empty, restricts enqueued links to URLs
	// whose path matches at least one glob (doublestar syntax).
	IncludePaths []string

	// ExcludePaths drops enqueued links whose path matches any glob.
	ExcludePaths []string
}

// Outcome classifies how a URL was handled.
type Outcome string

const (
	OutcomeStored  Outcome = "stored"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)

// PageResult records the per-URL outcome of a run.
type PageResult struct {
	URL         string
	Outcome     Outcome
	ContentType string
	Reason      string
	Err         error
}

// Allowed reports whether rawURL's host is covered by the domain
// allow-set. An empty set allows everything.
func Allowed(rawURL string, domains []string) bool {
	if len(domains) == 0 {
		return true
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	host := strings.ToLower(parsed.Hostname())
	if host == "" {
		return false
	}
	for _, d := range domains {
		d = strings.ToLower(strings.TrimSpace(d))
		if d == "" {
			continue
		}
		if host == d || strings.HasSuffix(host, "."+d) {
			return true
		}
	}
	return false
}

// pathAllowed applies the job's include/exclude globs to a URL path.
func (j *Job) pathAllowed(rawURL string) bool {
	if len(j.IncludePaths) == 0 && len(j.ExcludePaths) == 0 {
		return true
	}
	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	path := parsed.EscapedPath()
	if path == "" {
		path = "/"
	}

	for _, glob := range j.ExcludePaths {
		if ok, err := doublestar.Match(glob, path); err == nil && ok {
			return false
		}
	}
	if len(j.IncludePaths) == 0 {
		return true
	}
	for _, glob := range j.IncludePaths {
		if ok, err := doublestar.Match(glob, path); err == nil && ok {
			return true
		}
	}
	return false
}

// admit reports whether a discovered link may enter the pending queue.
func (j *Job) admit(rawURL string) bool {
	return Allowed(rawURL, j.AllowedDomains) && j.pathAllowed(rawURL)
}
