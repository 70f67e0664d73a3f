package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/wxrport"
)

// Compile-time interface verification.
var _ wxrport.Extractor = (*Extractor)(nil)

// contentRoots lists the content containers in fallback order.
var contentRoots = []wxrport.ContentRoot{
	wxrport.RootArticle,
	wxrport.RootMain,
	wxrport.RootBody,
}

// Extractor takes the inner HTML of the first of article, main or body
// found in the page and runs it through Sanitizers.
type Extractor struct {
	Sanitizers []wxrport.Sanitizer
}

// NewExtractor returns an Extractor with the default Wix cleaning pipeline.
func NewExtractor() *Extractor {
	return &Extractor{Sanitizers: DefaultSanitizers()}
}

// Extract returns the cleaned content of the page.
func (e *Extractor) Extract(html string) (*wxrport.Content, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, wxrport.Errorf(wxrport.EINVALID, "failed to parse HTML: %v", err)
	}

	for _, root := range contentRoots {
		sel := doc.Find(string(root)).First()
		if sel.Length() == 0 {
			continue
		}

		inner, err := sel.Html()
		if err != nil {
			return nil, wxrport.Errorf(wxrport.EINTERNAL, "failed to render %s: %v", root, err)
		}

		cleaned := wxrport.Sanitize(inner, e.Sanitizers...)
		if !wxrport.AcceptableContent(cleaned) {
			return nil, wxrport.Errorf(wxrport.ENOTFOUND, "too little content in <%s>", root)
		}

		return &wxrport.Content{
			HTML:   cleaned,
			Root:   root,
			Images: imageURLs(cleaned),
		}, nil
	}

	return nil, wxrport.Errorf(wxrport.ENOTFOUND, "no content root")
}

// imageURLs returns the absolute http(s) image sources of a fragment in
// document order without duplicates.
func imageURLs(fragment string) []string {
	root, err := parseFragment(fragment)
	if err != nil {
		return nil
	}

	seen := make(map[string]bool)
	var images []string
	goquery.NewDocumentFromNode(root).Find("img").Each(func(_ int, sel *goquery.Selection) {
		src := strings.TrimSpace(sel.AttrOr("src", ""))
		if strings.HasPrefix(src, "//") {
			src = "https:" + src
		}
		u, err := url.Parse(src)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			return
		}
		if seen[src] {
			return
		}
		seen[src] = true
		images = append(images, src)
	})
	return images
}
