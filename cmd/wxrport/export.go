package main

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/fwojciec/wxrport"
	"github.com/fwojciec/wxrport/crawl"
	"golang.org/x/sync/errgroup"
)

// Run executes the export command. When the crawl is interrupted, the items
// collected so far are still exported and the interruption is returned.
func (c *ExportCmd) Run(deps *Dependencies) error {
	if deps.Sitemaps != nil {
		urls, err := deps.Sitemaps.DiscoverURLs(deps.Ctx, deps.Site.Origin)
		switch {
		case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
			return err
		case err != nil:
			fmt.Fprintf(deps.Stderr, "sitemap discovery failed: %s\n", wxrport.ErrorMessage(err))
		default:
			fmt.Fprintf(deps.Stdout, "Found %d sitemap URLs\n", len(urls))
			deps.Crawler.ExtraSeeds = urls
		}
	}

	fmt.Fprintf(deps.Stdout, "Crawling %s\n", deps.Site.Origin)

	progress := func(e crawl.ProgressEvent) {
		switch e.Type {
		case crawl.ProgressVisited:
			fmt.Fprintf(deps.Stdout, "\r[%d visited, %d pending, %d items] %s",
				e.Visited, e.Pending, e.Items, progressPath(deps.Site.Origin, e.URL))
		case crawl.ProgressFailed:
			fmt.Fprintf(deps.Stderr, "\nfailed %s: %v\n", e.URL, e.Error)
		}
	}

	session, crawlErr := deps.Crawler.Run(deps.Ctx, progress)
	if session == nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", wxrport.ErrorMessage(crawlErr))
		return crawlErr
	}

	// Clear progress line
	fmt.Fprintf(deps.Stdout, "\r%80s\r", "")
	st := session.Stats
	fmt.Fprintf(deps.Stdout, "Visited %d pages: %d items, %d listings, %d skipped, %d failed\n",
		st.Visited, len(session.Items), st.Listings, st.Skipped, st.Failed)
	if crawlErr != nil {
		fmt.Fprintf(deps.Stderr, "crawl interrupted (%v), exporting %d items collected so far\n",
			crawlErr, len(session.Items))
	}

	// Exports run even after an interrupt so partial results are kept.
	export := wxrport.NewExport(deps.Site, session.Items)
	if err := runExporters(context.WithoutCancel(deps.Ctx), deps.Exporters, export); err != nil {
		fmt.Fprintf(deps.Stderr, "error exporting: %v\n", err)
		return err
	}

	wxrPath := filepath.Join(c.Out, WXRFile)
	if fi, err := os.Stat(wxrPath); err == nil {
		fmt.Fprintf(deps.Stdout, "Wrote %s (%s)\n", wxrPath, formatSize(fi.Size()))
	}

	return crawlErr
}

// runExporters writes export with every exporter concurrently and returns
// the first error.
func runExporters(ctx context.Context, exporters []wxrport.Exporter, export *wxrport.Export) error {
	g, ctx := errgroup.WithContext(ctx)
	for _, e := range exporters {
		g.Go(func() error {
			if err := e.Export(ctx, export); err != nil {
				return fmt.Errorf("%s: %w", e.Name(), err)
			}
			return nil
		})
	}
	return g.Wait()
}

// progressLen bounds the URL shown on the progress line.
const progressLen = 50

// progressPath shortens u for the progress line. URLs on the origin's host
// show only their path, and long paths keep their tail, where the slug is.
func progressPath(origin, u string) string {
	p := u
	if o, err := url.Parse(origin); err == nil {
		if parsed, err := url.Parse(u); err == nil && strings.EqualFold(parsed.Host, o.Host) {
			p = parsed.Path
			if p == "" {
				p = "/"
			}
		}
	}
	if r := []rune(p); len(r) > progressLen {
		p = "..." + string(r[len(r)-progressLen+3:])
	}
	return p
}

// formatSize formats a file size for the summary line.
func formatSize(n int64) string {
	const (
		kb = 1024
		mb = kb * 1024
	)
	switch {
	case n >= mb:
		return fmt.Sprintf("%.1f MB", float64(n)/mb)
	case n >= kb:
		return fmt.Sprintf("%.1f KB", float64(n)/kb)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
