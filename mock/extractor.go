package mock

import "github.com/fwojciec/wxrport"

var (
	_ wxrport.Extractor        = (*Extractor)(nil)
	_ wxrport.MetadataResolver = (*MetadataResolver)(nil)
	_ wxrport.LinkExtractor    = (*LinkExtractor)(nil)
)

// Extractor is a mock implementation of wxrport.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*wxrport.Content, error)
}

func (e *Extractor) Extract(html string) (*wxrport.Content, error) {
	return e.ExtractFn(html)
}

// MetadataResolver is a mock implementation of wxrport.MetadataResolver.
type MetadataResolver struct {
	ResolveFn func(html string) (*wxrport.Metadata, error)
}

func (r *MetadataResolver) Resolve(html string) (*wxrport.Metadata, error) {
	return r.ResolveFn(html)
}

// LinkExtractor is a mock implementation of wxrport.LinkExtractor.
type LinkExtractor struct {
	ExtractLinksFn func(html string, baseURL string) ([]string, error)
}

func (l *LinkExtractor) ExtractLinks(html string, baseURL string) ([]string, error) {
	return l.ExtractLinksFn(html, baseURL)
}
