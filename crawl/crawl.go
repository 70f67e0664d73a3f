// Package crawl drives a rendered-page crawl of a single site. It owns the
// frontier, visits one URL at a time through a wxrport.Navigator, and
// collects the extracted pages as wxrport.CrawlItem values.
package crawl

import (
	"context"
	"log/slog"
	"net/url"
	"time"

	"github.com/fwojciec/wxrport"
)

// Crawler orchestrates the crawl of a site. The crawl is strictly
// sequential: one URL is loaded, expanded and extracted at a time.
type Crawler struct {
	Site        *wxrport.Site
	Navigator   wxrport.Navigator
	Expander    *Expander
	Extractor   wxrport.Extractor
	Resolver    wxrport.MetadataResolver
	Links       wxrport.LinkExtractor
	RateLimiter wxrport.DomainLimiter
	RetryDelays []time.Duration
	Logger      *slog.Logger

	// ExtraSeeds are added to the site's seed set when they pass the
	// normal link policy, e.g. URLs discovered from a sitemap.
	ExtraSeeds []string
}

// ProgressEvent reports progress during a crawl.
type ProgressEvent struct {
	Type    ProgressType
	URL     string
	Visited int
	Pending int
	Items   int
	Reason  string
	Error   error
}

// ProgressType indicates the type of progress event.
type ProgressType int

const (
	ProgressVisited ProgressType = iota
	ProgressListing
	ProgressExtracted
	ProgressSkipped
	ProgressFailed
	ProgressFinished
)

// ProgressFunc is a callback for reporting crawl progress.
type ProgressFunc func(event ProgressEvent)

// Run crawls the site from its seeds until the frontier is empty.
// The progress callback, if provided, receives events as crawling proceeds.
//
// Navigation and extraction failures never abort the crawl. If ctx is
// canceled the crawl stops early and the session collected so far is
// returned together with the context error.
func (c *Crawler) Run(ctx context.Context, progress ProgressFunc) (*Session, error) {
	if c.Site == nil || c.Navigator == nil {
		return nil, wxrport.Errorf(wxrport.EINVALID, "crawler requires a site and a navigator")
	}
	if c.Extractor == nil || c.Resolver == nil || c.Links == nil {
		return nil, wxrport.Errorf(wxrport.EINVALID, "crawler requires an extractor, a resolver and a link extractor")
	}
	if c.Logger == nil {
		c.Logger = slog.New(slog.DiscardHandler)
	}
	if progress == nil {
		progress = func(ProgressEvent) {}
	}

	s := NewSession()
	c.seed(s)

	s.State = StateCrawling
	var err error
	for {
		if err = ctx.Err(); err != nil {
			c.Logger.Warn("crawl interrupted", "visited", s.Stats.Visited, "items", len(s.Items), "err", err)
			break
		}

		raw, ok := s.Frontier.Pop()
		if !ok {
			break
		}
		u, nerr := c.Site.Normalize(raw)
		if nerr != nil {
			continue
		}
		if !s.Frontier.MarkVisited(u) {
			continue
		}
		s.Stats.Visited++
		progress(c.event(s, ProgressVisited, u))

		c.visit(ctx, s, u, progress)
	}
	s.State = StateDone

	c.Logger.Info("crawl finished",
		"visited", s.Stats.Visited,
		"listings", s.Stats.Listings,
		"items", len(s.Items),
		"skipped", s.Stats.Skipped,
		"failed", s.Stats.Failed,
	)
	progress(c.event(s, ProgressFinished, ""))

	return s, err
}

// seed pushes the site's fixed seed set followed by any extra seeds.
func (c *Crawler) seed(s *Session) {
	for _, raw := range c.Site.Seeds() {
		if u, err := c.Site.Normalize(raw); err == nil {
			s.Frontier.Push(u)
		}
	}
	for _, raw := range c.ExtraSeeds {
		u, err := c.Site.Normalize(raw)
		if err != nil || !c.Site.Follows(u) {
			continue
		}
		s.Frontier.Push(u)
	}
	c.Logger.Debug("seeded", "pending", s.Frontier.Len())
}

// visit loads u and processes the rendered page.
func (c *Crawler) visit(ctx context.Context, s *Session, u string, progress ProgressFunc) {
	if c.RateLimiter != nil {
		if err := c.RateLimiter.Wait(ctx, hostOf(u)); err != nil {
			return
		}
	}

	delays := c.RetryDelays
	if delays == nil {
		delays = DefaultRetryDelays()
	}
	if err := LoadWithRetry(ctx, u, c.Navigator.Load, c.Logger.Debug, delays); err != nil {
		c.fail(s, u, err, progress)
		return
	}

	listing := c.Site.IsListing(u)
	if c.Expander != nil {
		if listing {
			res := c.Expander.ScrollToExhaustion(ctx)
			c.Logger.Debug("scrolled listing", "url", u, "iterations", res.Iterations, "exhausted", res.Exhausted)
		} else {
			res := c.Expander.ExpandDisclosures(ctx)
			if res.Found > 0 || res.Revealed > 0 {
				c.Logger.Debug("expanded disclosures", "url", u, "found", res.Found, "clicked", res.Clicked(), "revealed", res.Revealed)
			}
		}
	}

	html, err := c.Navigator.HTML(ctx)
	if err != nil {
		c.fail(s, u, err, progress)
		return
	}

	c.discover(s, html, u)

	if listing {
		s.Stats.Listings++
		progress(c.event(s, ProgressListing, u))
		return
	}

	c.extract(s, html, u, progress)
}

// discover enqueues every in-origin link of the page the link policy follows.
// Relative hrefs resolve against the site origin, not the page URL, so
// "blog" on /post/a means /blog.
func (c *Crawler) discover(s *Session, html, pageURL string) {
	links, err := c.Links.ExtractLinks(html, c.Site.Origin)
	if err != nil {
		c.Logger.Debug("link extraction failed", "url", pageURL, "err", err)
		return
	}

	added := 0
	for _, link := range links {
		u, err := c.Site.Normalize(link)
		if err != nil || !c.Site.Follows(u) {
			continue
		}
		if s.Frontier.Push(u) {
			added++
		}
	}
	c.Logger.Debug("links discovered", "url", pageURL, "links", len(links), "queued", added)
}

// extract turns the page into a CrawlItem, or records a skip.
func (c *Crawler) extract(s *Session, html, u string, progress ProgressFunc) {
	content, err := c.Extractor.Extract(html)
	if err != nil {
		c.skip(s, u, err, progress)
		return
	}
	if content.Root == wxrport.RootBody {
		c.Logger.Warn("degraded extraction", "url", u, "root", content.Root)
	}

	meta, err := c.Resolver.Resolve(html)
	if err != nil {
		c.skip(s, u, err, progress)
		return
	}

	postType, categories := c.Site.Classify(u)
	item := &wxrport.CrawlItem{
		Title:       meta.Title,
		Slug:        wxrport.SlugFor(meta.Title, u),
		URL:         u,
		Date:        meta.Date,
		BodyHTML:    content.HTML,
		PostType:    postType,
		Categories:  categories,
		Images:      content.Images,
		ContentHash: contentHash(content.HTML),
	}
	if err := item.Validate(); err != nil {
		c.skip(s, u, err, progress)
		return
	}

	if first := s.add(item); first != "" {
		c.Logger.Warn("duplicate content", "url", u, "first", first, "hash", item.ContentHash)
	}
	c.Logger.Info("extracted", "url", u, "title", item.Title, "type", item.PostType, "date_source", meta.DateSource)
	progress(c.event(s, ProgressExtracted, u))
}

func (c *Crawler) skip(s *Session, u string, err error, progress ProgressFunc) {
	s.Stats.Skipped++
	reason := wxrport.ErrorMessage(err)
	if wxrport.ErrorCode(err) == wxrport.EINTERNAL {
		reason = err.Error()
	}
	c.Logger.Info("skip", "url", u, "reason", reason)

	ev := c.event(s, ProgressSkipped, u)
	ev.Reason = reason
	progress(ev)
}

func (c *Crawler) fail(s *Session, u string, err error, progress ProgressFunc) {
	s.Stats.Failed++
	c.Logger.Warn("navigation failed", "url", u, "err", err)

	ev := c.event(s, ProgressFailed, u)
	ev.Error = err
	progress(ev)
}

func (c *Crawler) event(s *Session, typ ProgressType, u string) ProgressEvent {
	return ProgressEvent{
		Type:    typ,
		URL:     u,
		Visited: s.Stats.Visited,
		Pending: s.Frontier.Len(),
		Items:   len(s.Items),
	}
}

func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}
