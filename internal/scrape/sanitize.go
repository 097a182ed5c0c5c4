package scrape

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

var (
	blockBreaks = regexp.MustCompile(`(?i)<\s*(?:br\s*/?|/p|/div|/li|/h[1-6])\s*>`)
	spaceRuns   = regexp.MustCompile(`[ \t]+`)
	blankRuns   = regexp.MustCompile(`\n{3,}`)
)

// HTMLToText converts a scraped description fragment to plain text. Scrapers
// return whatever the source page held, which is often HTML; feeds and
// classifiers want readable text. Block-level closers become newlines so
// paragraph structure survives, whitespace is collapsed, and anything that
// fails to parse is returned trimmed as-is.
func HTMLToText(s string) string {
	if !strings.ContainsRune(s, '<') {
		return collapseWhitespace(s)
	}

	withBreaks := blockBreaks.ReplaceAllString(s, "\n")
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(withBreaks))
	if err != nil {
		return collapseWhitespace(s)
	}

	doc.Find("script, style").Remove()
	return collapseWhitespace(doc.Text())
}

func collapseWhitespace(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	s = spaceRuns.ReplaceAllString(s, " ")

	lines := strings.Split(s, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSpace(line)
	}
	s = strings.Join(lines, "\n")
	s = blankRuns.ReplaceAllString(s, "\n\n")
	return strings.TrimSpace(s)
}
