package goquery

import (
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/wxrport"
)

// Compile-time interface verification.
var _ wxrport.MetadataResolver = (*MetadataResolver)(nil)

// Open Graph article date properties.
const (
	publishedTimeSelector = `meta[property="article:published_time"]`
	modifiedTimeSelector  = `meta[property="article:modified_time"]`
)

// dateLayouts are tried in order when parsing meta dates.
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02",
}

// MetadataResolver reads the title and date of a rendered page.
type MetadataResolver struct {
	// Now returns the current time. It is the last date fallback.
	Now func() time.Time
}

// NewMetadataResolver returns a MetadataResolver using the wall clock.
func NewMetadataResolver() *MetadataResolver {
	return &MetadataResolver{Now: time.Now}
}

// Resolve returns the page title and date. The title is the document
// title, else the first h1. The date is the published time meta, else the
// modified time meta, else Now. Dates are returned in UTC.
func (r *MetadataResolver) Resolve(html string) (*wxrport.Metadata, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, wxrport.Errorf(wxrport.EINVALID, "failed to parse HTML: %v", err)
	}

	title := documentTitle(doc)
	if title == "" {
		title = collapse(doc.Find("h1").First().Text())
	}
	if title == "" {
		return nil, wxrport.Errorf(wxrport.ENOTFOUND, "no title")
	}

	meta := &wxrport.Metadata{Title: title}
	if t, ok := metaTime(doc, publishedTimeSelector); ok {
		meta.Date, meta.DateSource = t, wxrport.DatePublished
	} else if t, ok := metaTime(doc, modifiedTimeSelector); ok {
		meta.Date, meta.DateSource = t, wxrport.DateModified
	} else {
		now := time.Now
		if r.Now != nil {
			now = r.Now
		}
		meta.Date, meta.DateSource = now().UTC(), wxrport.DateNow
	}
	return meta, nil
}

// documentTitle returns the first HTML title element's text. Titles of
// inline SVG icons live in the svg namespace and are ignored.
func documentTitle(doc *goquery.Document) string {
	var title string
	doc.Find("title").EachWithBreak(func(_ int, s *goquery.Selection) bool {
		if s.Nodes[0].Namespace != "" {
			return true
		}
		title = collapse(s.Text())
		return false
	})
	return title
}

func metaTime(doc *goquery.Document, selector string) (time.Time, bool) {
	content := strings.TrimSpace(doc.Find(selector).First().AttrOr("content", ""))
	if content == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, content); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// collapse trims s and collapses internal whitespace runs to one space.
func collapse(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
