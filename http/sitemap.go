// Package http discovers crawl seeds from a site's published sitemaps.
package http

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/wxrport"
)

// Ensure SitemapService implements wxrport.SitemapService.
var _ wxrport.SitemapService = (*SitemapService)(nil)

// Wix publishes /sitemap.xml as an index with one child sitemap per
// content type.
const (
	PostsSitemap = "blog-posts-sitemap.xml"
	PagesSitemap = "pages-sitemap.xml"
)

// sitemapKind orders discovered URLs: blog posts first, then pages, then
// everything else (categories, tags, dynamic pages).
type sitemapKind int

const (
	kindPosts sitemapKind = iota
	kindPages
	kindOther
	kindCount
)

func kindOf(loc string) sitemapKind {
	u, err := url.Parse(loc)
	if err != nil {
		return kindOther
	}
	switch path.Base(u.Path) {
	case PostsSitemap:
		return kindPosts
	case PagesSitemap:
		return kindPages
	}
	return kindOther
}

// SitemapService discovers crawlable URLs of a site from its sitemaps.
// Every listed URL passes the site's normalization and link policy, so the
// result can be pushed to the frontier as is.
type SitemapService struct {
	site    *wxrport.Site
	client  *http.Client
	limiter wxrport.DomainLimiter
}

// Option configures a SitemapService.
type Option func(*SitemapService)

// WithRateLimiter makes every request wait on limiter first.
func WithRateLimiter(limiter wxrport.DomainLimiter) Option {
	return func(s *SitemapService) {
		s.limiter = limiter
	}
}

// NewSitemapService creates a SitemapService for site.
// If client is nil, http.DefaultClient is used.
func NewSitemapService(site *wxrport.Site, client *http.Client, opts ...Option) *SitemapService {
	if client == nil {
		client = http.DefaultClient
	}
	s := &SitemapService{site: site, client: client}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// DiscoverURLs returns the normalized URLs listed in the sitemaps of
// baseURL's host that the site's link policy follows, without duplicates.
// Sitemaps are taken from robots.txt, else /sitemap.xml. Post URLs come
// first, then pages, then the rest, each in sitemap order.
//
// When baseURL has a path, such as a locale root, only URLs at or under
// that path are returned. A sitemap that cannot be fetched contributes no
// URLs; only context and XML errors are returned.
func (s *SitemapService) DiscoverURLs(ctx context.Context, baseURL string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return nil, wxrport.Errorf(wxrport.EINVALID, "invalid base URL: %v", err)
	}
	prefix := strings.TrimSuffix(base.Path, "/")
	root := &url.URL{Scheme: base.Scheme, Host: base.Host}

	d := &discovery{
		visited: make(map[string]bool),
		seen:    make(map[string]bool),
	}
	for _, loc := range s.declaredSitemaps(ctx, root) {
		if err := s.walk(ctx, d, loc, kindOf(loc)); err != nil {
			return nil, err
		}
	}

	urls := []string{}
	for _, group := range d.urls {
		for _, u := range group {
			if underPath(u, prefix) {
				urls = append(urls, u)
			}
		}
	}
	return urls, nil
}

// discovery is the state of one DiscoverURLs call.
type discovery struct {
	visited map[string]bool
	seen    map[string]bool
	urls    [kindCount][]string
}

// declaredSitemaps returns the Sitemap: directives of robots.txt, or the
// conventional /sitemap.xml when there are none.
func (s *SitemapService) declaredSitemaps(ctx context.Context, root *url.URL) []string {
	fallback := []string{root.ResolveReference(&url.URL{Path: "/sitemap.xml"}).String()}

	body, err := s.get(ctx, root.ResolveReference(&url.URL{Path: "/robots.txt"}).String())
	if err != nil {
		return fallback
	}
	defer body.Close()

	var declared []string
	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		key, value, ok := strings.Cut(line, ":")
		if !ok || !strings.EqualFold(strings.TrimSpace(key), "sitemap") {
			continue
		}
		if loc := strings.TrimSpace(value); loc != "" {
			declared = append(declared, loc)
		}
	}
	if scanner.Err() != nil || len(declared) == 0 {
		return fallback
	}
	return declared
}

// walk reads the sitemap at loc. Index entries are followed recursively and
// classified by their file name; urlset entries are collected under kind.
func (s *SitemapService) walk(ctx context.Context, d *discovery, loc string, kind sitemapKind) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if d.visited[loc] {
		return nil
	}
	d.visited[loc] = true

	root, err := s.fetchXML(ctx, loc)
	if err != nil || root == nil {
		return err
	}

	switch root.Tag {
	case "sitemapindex":
		for _, child := range locs(root, "sitemap") {
			if err := s.walk(ctx, d, child, kindOf(child)); err != nil {
				return err
			}
		}
	case "urlset":
		for _, raw := range locs(root, "url") {
			u, err := s.site.Normalize(raw)
			if err != nil || !s.site.Follows(u) || d.seen[u] {
				continue
			}
			d.seen[u] = true
			d.urls[kind] = append(d.urls[kind], u)
		}
	}
	return nil
}

// fetchXML returns the root element of the sitemap at loc, or nil if it
// cannot be fetched.
func (s *SitemapService) fetchXML(ctx context.Context, loc string) (*etree.Element, error) {
	body, err := s.get(ctx, loc)
	if err != nil {
		return nil, ctx.Err()
	}
	defer body.Close()

	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(body); err != nil {
		return nil, wxrport.Errorf(wxrport.EINVALID, "parsing sitemap %s: %v", loc, err)
	}
	root := doc.Root()
	if root == nil {
		return nil, wxrport.Errorf(wxrport.EINVALID, "empty sitemap %s", loc)
	}
	return root, nil
}

// locs returns the trimmed, non-empty <loc> texts of the parent's children
// named tag.
func locs(parent *etree.Element, tag string) []string {
	var out []string
	for _, el := range parent.SelectElements(tag) {
		loc := el.SelectElement("loc")
		if loc == nil {
			continue
		}
		if v := strings.TrimSpace(loc.Text()); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// underPath reports whether the path of u is prefix or below it.
func underPath(u, prefix string) bool {
	if prefix == "" {
		return true
	}
	parsed, err := url.Parse(u)
	if err != nil {
		return false
	}
	return parsed.Path == prefix || strings.HasPrefix(parsed.Path, prefix+"/")
}

// get fetches targetURL after waiting on the rate limiter, if any.
// Non-200 responses are errors.
func (s *SitemapService) get(ctx context.Context, targetURL string) (io.ReadCloser, error) {
	if s.limiter != nil {
		u, err := url.Parse(targetURL)
		if err != nil {
			return nil, fmt.Errorf("invalid URL %q: %w", targetURL, err)
		}
		if err := s.limiter.Wait(ctx, u.Host); err != nil {
			return nil, err
		}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("HTTP %d for %s", resp.StatusCode, targetURL)
	}
	return resp.Body, nil
}
