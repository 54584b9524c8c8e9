package extract

import (
	"bytes"
	"net/url"
	"regexp"
	"strings"

	"golang.org/x/net/html"
)

// strippedTags are structural and non-content elements removed before text
// serialization.
var strippedTags = map[string]struct{}{
	"header":   {},
	"footer":   {},
	"nav":      {},
	"script":   {},
	"style":    {},
	"img":      {},
	"video":    {},
	"svg":      {},
	"noscript": {},
}

// hrefRe scans raw markup for hyperlink attribute values. Matching on the
// raw bytes rather than the pruned DOM also catches links inside removed
// regions such as nav bars.
var hrefRe = regexp.MustCompile(`href=["']([^"']+)["']`)

// HTMLResult holds the outcome of HTML extraction.
type HTMLResult struct {
	// Text is the cleaned plain text of the page.
	Text string
	// Links are deduplicated absolute http(s) URLs found in the raw markup.
	Links []string
}

// HTML extracts cleaned text and outbound links from raw HTML markup.
// Text comes from the DOM with non-content elements pruned: remaining text
// nodes are serialized depth-first in document order, split into lines,
// blank lines dropped, and rejoined with newlines. Links are resolved
// against baseURL; only absolute http(s) results are kept. Links are not
// checked against any visited set here.
func HTML(baseURL string, body []byte) (*HTMLResult, error) {
	doc, err := html.Parse(bytes.NewReader(body))
	if err != nil {
		return nil, err
	}

	pruneTags(doc)

	var sb strings.Builder
	collectText(doc, &sb)

	return &HTMLResult{
		Text:  cleanLines(sb.String()),
		Links: extractLinks(baseURL, body),
	}, nil
}

// pruneTags removes every subtree rooted at a stripped tag.
func pruneTags(n *html.Node) {
	var toRemove []*html.Node
	var walk func(*html.Node)
	walk = func(node *html.Node) {
		if node.Type == html.ElementNode {
			if _, ok := strippedTags[node.Data]; ok {
				toRemove = append(toRemove, node)
				return
			}
		}
		for c := node.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)

	for _, node := range toRemove {
		if node.Parent != nil {
			node.Parent.RemoveChild(node)
		}
	}
}

// collectText serializes text nodes depth-first in document order, one
// text node per line.
func collectText(n *html.Node, sb *strings.Builder) {
	if n.Type == html.TextNode {
		sb.WriteString(n.Data)
		sb.WriteString("\n")
		return
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collectText(c, sb)
	}
}

// cleanLines trims each line and drops empty ones.
func cleanLines(text string) string {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line != "" {
			kept = append(kept, line)
		}
	}
	return strings.Join(kept, "\n")
}

// extractLinks scans raw markup for href values, resolves them against the
// page URL, and keeps deduplicated absolute http(s) URLs.
func extractLinks(baseURL string, body []byte) []string {
	base, err := url.Parse(baseURL)
	if err != nil {
		return nil
	}

	seen := make(map[string]struct{})
	var links []string
	for _, match := range hrefRe.FindAllSubmatch(body, -1) {
		href := strings.TrimSpace(string(match[1]))
		if href == "" {
			continue
		}
		ref, err := url.Parse(href)
		if err != nil {
			continue
		}
		abs := base.ResolveReference(ref)
		if abs.Scheme != "http" && abs.Scheme != "https" {
			continue
		}
		link := abs.String()
		if _, ok := seen[link]; ok {
			continue
		}
		seen[link] = struct{}{}
		links = append(links, link)
	}
	return links
}
