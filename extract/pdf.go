package extract

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDF extracts cleaned plain text from a PDF document. Each page is decoded
// independently into a list of trimmed non-blank lines; pages that yield no
// text are recorded as empty and sit out the boilerplate heuristic.
// A document where no page yields text produces an empty string, which the
// caller treats as nothing to store.
func PDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("open pdf: %w", err)
	}

	numPages := reader.NumPage()
	pages := make([][]string, 0, numPages)
	for i := 1; i <= numPages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			pages = append(pages, nil)
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			// Some pages fail to decode; record an empty page and move on.
			pages = append(pages, nil)
			continue
		}
		pages = append(pages, pageLines(text))
	}

	return stripBoilerplate(pages), nil
}

// pageLines splits decoded page text into trimmed non-blank lines.
func pageLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return lines
}

// stripBoilerplate applies the running-header/footer heuristic over whole
// documents: pages that decoded to no text take no part, and when all
// remaining pages share an identical first line that line is a repeated
// header and is removed from each of them; the same check runs
// independently for last lines. A page emptied by the header strip does
// disable the footer strip. Surviving lines are joined with newlines
// within a page and pages with a blank line.
func stripBoilerplate(pages [][]string) string {
	var kept [][]string
	for _, page := range pages {
		if len(page) > 0 {
			kept = append(kept, page)
		}
	}

	if allFirstLinesEqual(kept) {
		for i := range kept {
			kept[i] = kept[i][1:]
		}
	}
	if allLastLinesEqual(kept) {
		for i := range kept {
			kept[i] = kept[i][:len(kept[i])-1]
		}
	}

	var parts []string
	for _, page := range kept {
		if len(page) == 0 {
			continue
		}
		parts = append(parts, strings.Join(page, "\n"))
	}
	return strings.TrimSpace(strings.Join(parts, "\n\n"))
}

// allFirstLinesEqual reports whether every page is non-empty and shares an
// identical first line.
func allFirstLinesEqual(pages [][]string) bool {
	if len(pages) == 0 {
		return false
	}
	var first string
	for i, page := range pages {
		if len(page) == 0 {
			return false
		}
		if i == 0 {
			first = page[0]
			continue
		}
		if page[0] != first {
			return false
		}
	}
	return true
}

// allLastLinesEqual is the footer counterpart of allFirstLinesEqual.
func allLastLinesEqual(pages [][]string) bool {
	if len(pages) == 0 {
		return false
	}
	var last string
	for i, page := range pages {
		if len(page) == 0 {
			return false
		}
		if i == 0 {
			last = page[len(page)-1]
			continue
		}
		if page[len(page)-1] != last {
			return false
		}
	}
	return true
}
