package news

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// CleanText strips markup from feed text and collapses whitespace.
func CleanText(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	if strings.ContainsAny(s, "<&") {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(s))
		if err == nil {
			s = doc.Text()
		}
	}
	return strings.Join(strings.Fields(s), " ")
}

// trimSourceSuffix drops the " - Publisher" tail Google News appends to titles.
func trimSourceSuffix(title, source string) string {
	if source == "" {
		return title
	}
	return strings.TrimSpace(strings.TrimSuffix(title, " - "+source))
}
