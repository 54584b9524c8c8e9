// Package extract turns fetched documents into cleaned plain text.
// HTML documents additionally yield their outbound hyperlinks.
package extract

import "strings"

// Kind is the extraction route chosen for a declared content type.
type Kind int

const (
	// KindSkip means the document is not extracted at all.
	KindSkip Kind = iota
	// KindHTML routes the document to HTML extraction.
	KindHTML
	// KindPDF routes the document to PDF extraction.
	KindPDF
)

// String returns a human-readable kind name for result records and logs.
func (k Kind) String() string {
	switch k {
	case KindHTML:
		return "html"
	case KindPDF:
		return "pdf"
	default:
		return "skip"
	}
}

// Classify maps a declared Content-Type to an extraction route.
// Images, video, stylesheets and RSS feeds are skipped outright, as is
// anything that is neither HTML nor PDF. An empty content type means the
// type could not be determined and the document is skipped.
func Classify(contentType string) Kind {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	if ct == "" {
		return KindSkip
	}

	switch {
	case strings.HasPrefix(ct, "image/"),
		strings.HasPrefix(ct, "video/"),
		strings.Contains(ct, "text/css"),
		strings.Contains(ct, "application/rss+xml"):
		return KindSkip
	case strings.Contains(ct, "text/html"):
		return KindHTML
	case strings.Contains(ct, "application/pdf"):
		return KindPDF
	}

	return KindSkip
}
