package wxrport

import (
	"net/url"
	"strings"
)

// DefaultOrigin is the site crawled when no origin is given.
const DefaultOrigin = "https://www.detoxretreatscolombia.com"

// DefaultDisclosureSelector matches the collapsed FAQ accordions of the
// Wix template family.
const DefaultDisclosureSelector = `[data-hook="expandIcon"], .sNKyLaH`

// Locale describes a locale-prefixed section of the site, e.g. /es/.
type Locale struct {
	// Prefix is the first path segment of the locale, without slashes.
	Prefix string

	// Category is the display label attached to posts under this locale.
	Category string
}

// Site is the profile of the crawled site: its origin and the URL shapes
// that identify posts, listing pages and locales.
type Site struct {
	// Origin is the normalized origin URL, e.g. https://www.example.com.
	Origin string

	// PostSegment is the path segment that marks a detail page ("post").
	PostSegment string

	// ListingSegment is the path segment of a blog index page ("blog").
	ListingSegment string

	// Locales lists the locale prefixes of the site.
	Locales []Locale

	// MaxShallowSegments bounds the path depth of non-post links that are
	// still followed.
	MaxShallowSegments int

	// DisclosureSelector matches collapsed disclosure elements.
	DisclosureSelector string

	origin *url.URL
}

// NewSite returns a Site for origin with the defaults of the Wix template
// family: posts under /post/, listings at /blog, a Spanish /es/ locale.
func NewSite(origin string) (*Site, error) {
	u, err := url.Parse(strings.TrimSpace(origin))
	if err != nil {
		return nil, Errorf(EINVALID, "invalid origin %q: %v", origin, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, Errorf(EINVALID, "origin %q must be an http(s) URL", origin)
	}
	if u.Host == "" {
		return nil, Errorf(EINVALID, "origin %q has no host", origin)
	}

	base := &url.URL{Scheme: u.Scheme, Host: strings.ToLower(u.Host)}
	return &Site{
		Origin:             base.String(),
		PostSegment:        "post",
		ListingSegment:     "blog",
		Locales:            []Locale{{Prefix: "es", Category: "Spanish"}},
		MaxShallowSegments: 4,
		DisclosureSelector: DefaultDisclosureSelector,
		origin:             base,
	}, nil
}

// Normalize canonicalizes rawURL for de-duplication. Relative URLs are
// resolved against the origin; fragments, query strings and trailing
// slashes are stripped. URLs outside the origin return EINVALID.
func (s *Site) Normalize(rawURL string) (string, error) {
	ref, err := url.Parse(strings.TrimSpace(rawURL))
	if err != nil {
		return "", Errorf(EINVALID, "invalid URL %q: %v", rawURL, err)
	}

	u := s.origin.ResolveReference(ref)
	u.Host = strings.ToLower(u.Host)
	if u.Scheme != s.origin.Scheme || u.Host != s.origin.Host {
		return "", Errorf(EINVALID, "URL %q is outside %s", rawURL, s.Origin)
	}

	u.User = nil
	u.Fragment = ""
	u.RawFragment = ""
	u.RawQuery = ""
	u.ForceQuery = false
	// Stripping every trailing slash keeps Normalize idempotent.
	u.Path = strings.TrimRight(u.Path, "/")
	u.RawPath = ""

	return u.String(), nil
}

// Seeds returns the fixed seed set: the origin, each locale root, and the
// listing page of the default and every locale section.
func (s *Site) Seeds() []string {
	seeds := []string{s.Origin}
	for _, l := range s.Locales {
		seeds = append(seeds, s.Origin+"/"+l.Prefix)
	}
	seeds = append(seeds, s.Origin+"/"+s.ListingSegment)
	for _, l := range s.Locales {
		seeds = append(seeds, s.Origin+"/"+l.Prefix+"/"+s.ListingSegment)
	}
	return seeds
}

// IsListing reports whether u is a blog index page.
func (s *Site) IsListing(u string) bool {
	segs := pathSegments(u)
	switch len(segs) {
	case 1:
		return segs[0] == s.ListingSegment
	case 2:
		return s.locale(segs[0]) != nil && segs[1] == s.ListingSegment
	}
	return false
}

// IsPost reports whether u is a detail page, with or without a locale prefix.
func (s *Site) IsPost(u string) bool {
	segs := pathSegments(u)
	if len(segs) >= 2 && segs[0] == s.PostSegment {
		return true
	}
	return len(segs) >= 3 && s.locale(segs[0]) != nil && segs[1] == s.PostSegment
}

// IsShallow reports whether u is the origin root, a locale root, or a path
// of at most MaxShallowSegments segments.
func (s *Site) IsShallow(u string) bool {
	segs := pathSegments(u)
	if len(segs) == 0 {
		return true
	}
	if len(segs) == 1 && s.locale(segs[0]) != nil {
		return true
	}
	return len(segs) <= s.MaxShallowSegments
}

// Follows reports whether a discovered in-origin link joins the frontier.
func (s *Site) Follows(u string) bool {
	return s.IsPost(u) || s.IsShallow(u)
}

// Classify derives the post type and categories of a normalized URL.
// A locale category is attached to posts under a locale prefix only.
func (s *Site) Classify(u string) (PostType, []string) {
	if !s.IsPost(u) {
		return PostTypePage, nil
	}
	segs := pathSegments(u)
	if l := s.locale(segs[0]); l != nil && l.Category != "" {
		return PostTypePost, []string{l.Category}
	}
	return PostTypePost, nil
}

func (s *Site) locale(prefix string) *Locale {
	for i := range s.Locales {
		if s.Locales[i].Prefix == prefix {
			return &s.Locales[i]
		}
	}
	return nil
}

// pathSegments returns the non-empty path segments of rawURL.
func pathSegments(rawURL string) []string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}
	var segs []string
	for _, seg := range strings.Split(u.Path, "/") {
		if seg != "" {
			segs = append(segs, seg)
		}
	}
	return segs
}
