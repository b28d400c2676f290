package session

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Document is a parsed HTML page, queryable with CSS selectors.
type Document = goquery.Document

// ParseDocument parses text as HTML.
func ParseDocument(text string) (*Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(text))
	if err != nil {
		return nil, &ParseError{Format: "html", Err: err}
	}
	return doc, nil
}
