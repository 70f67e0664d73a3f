package wxrport

import (
	"time"
	"unicode/utf8"
)

// MinContentLength is the minimum number of characters a cleaned body must
// have for a page to become a CrawlItem.
const MinContentLength = 200

// PostType classifies a CrawlItem as a blog post or a static page.
type PostType string

// PostType values, matching the wp:post_type field of the export.
const (
	PostTypePost PostType = "post"
	PostTypePage PostType = "page"
)

// CrawlItem represents one extracted content page.
// Items are created once during the crawl and never mutated afterwards.
type CrawlItem struct {
	Title       string    `json:"title"`
	Slug        string    `json:"slug"`
	URL         string    `json:"url"`
	Date        time.Time `json:"date"`
	BodyHTML    string    `json:"bodyHtml"`
	PostType    PostType  `json:"postType"`
	Categories  []string  `json:"categories,omitempty"`
	Images      []string  `json:"images,omitempty"`
	ContentHash string    `json:"contentHash"`
}

// Validate returns an error if the item contains invalid fields.
func (i *CrawlItem) Validate() error {
	if i.Title == "" {
		return Errorf(EINVALID, "item title required")
	}
	if i.URL == "" {
		return Errorf(EINVALID, "item URL required")
	}
	if !AcceptableContent(i.BodyHTML) {
		return Errorf(EINVALID, "item body shorter than %d characters", MinContentLength)
	}
	switch i.PostType {
	case PostTypePost, PostTypePage:
	default:
		return Errorf(EINVALID, "unknown post type %q", i.PostType)
	}
	return nil
}

// AcceptableContent reports whether a cleaned fragment is long enough to keep.
// Length is measured in characters, not bytes.
func AcceptableContent(fragment string) bool {
	return fragment != "" && utf8.RuneCountInString(fragment) >= MinContentLength
}
