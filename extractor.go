package wxrport

import "time"

// ContentRoot names the DOM subtree chosen as a page's body.
type ContentRoot string

// Content roots in fallback order.
const (
	RootArticle ContentRoot = "article"
	RootMain    ContentRoot = "main"
	RootBody    ContentRoot = "body"
)

// Content holds the cleaned body of a page.
type Content struct {
	// HTML is the inner HTML of the content root after sanitizing.
	HTML string

	// Root is the container the content was taken from.
	// RootBody means extraction degraded to the whole page.
	Root ContentRoot

	// Images lists absolute image URLs referenced by HTML.
	Images []string
}

// Extractor locates the content root of a rendered page and cleans it.
type Extractor interface {
	// Extract returns the cleaned content of the page.
	// Returns ENOTFOUND when no root exists or the cleaned content is
	// shorter than MinContentLength.
	Extract(html string) (*Content, error)
}

// DateSource tells which fallback produced a resolved date.
type DateSource string

// Date sources in fallback order.
const (
	DatePublished DateSource = "published"
	DateModified  DateSource = "modified"
	DateNow       DateSource = "now"
)

// Metadata holds the title and date resolved for a page.
type Metadata struct {
	Title      string
	Date       time.Time
	DateSource DateSource
}

// MetadataResolver derives a page's title and publish date.
type MetadataResolver interface {
	// Resolve returns the page metadata.
	// Returns ENOTFOUND when neither the document title nor a first-level
	// heading yields a title.
	Resolve(html string) (*Metadata, error)
}

// LinkExtractor lists the anchor targets of a rendered page.
type LinkExtractor interface {
	// ExtractLinks returns absolute URLs for every anchor of the page,
	// resolved against baseURL, in document order without duplicates.
	ExtractLinks(html string, baseURL string) ([]string, error)
}
