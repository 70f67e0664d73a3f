//go:build integration

package http_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/wxrport"
	wxrhttp "github.com/fwojciec/wxrport/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSitemapService_Integration_WixSite(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	site, err := wxrport.NewSite(wxrport.DefaultOrigin)
	require.NoError(t, err)
	svc := wxrhttp.NewSitemapService(site, nil)

	// Wix sites publish a sitemap index declared in robots.txt
	urls, err := svc.DiscoverURLs(ctx, site.Origin)
	require.NoError(t, err)

	assert.NotEmpty(t, urls, "expected at least some URLs from the sitemap")
	t.Logf("Found %d URLs", len(urls))

	for _, u := range urls[:min(5, len(urls))] {
		t.Logf("  - %s", u)
	}
}
