package crawl_test

import (
	"context"
	"testing"
	"time"

	"github.com/fwojciec/wxrport"
	"github.com/fwojciec/wxrport/crawl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDomainLimiter(t *testing.T) {
	t.Parallel()

	t.Run("paces listing and detail loads on the origin", func(t *testing.T) {
		t.Parallel()

		fs := newFakeSite(map[string]string{
			"https://example.com/blog":   listingPage("/post/a", "/post/b"),
			"https://example.com/post/a": postPage("Post A", `<article><p>`+longText+`</p></article>`),
			"https://example.com/post/b": postPage("Post B", `<article><p>`+longText+`</p></article>`),
		})
		nav := fs.navigator()
		var loads []time.Time
		load := nav.LoadFn
		nav.LoadFn = func(ctx context.Context, url string) error {
			loads = append(loads, time.Now())
			return load(ctx, url)
		}

		c := newCrawler(t, nav)
		c.RetryDelays = []time.Duration{}
		c.RateLimiter = crawl.NewDomainLimiter(20) // 50ms between loads
		s, err := c.Run(context.Background(), nil)

		require.NoError(t, err)
		require.Len(t, s.Items, 2)
		require.Greater(t, len(loads), 3, "seeds, listing and posts are all loaded")
		for i := 1; i < len(loads); i++ {
			assert.GreaterOrEqual(t, loads[i].Sub(loads[i-1]), 40*time.Millisecond, "load %d", i)
		}
	})

	t.Run("sitemap fetches count against the crawl budget", func(t *testing.T) {
		t.Parallel()

		fs := newFakeSite(map[string]string{})
		nav := fs.navigator()
		var first time.Time
		load := nav.LoadFn
		nav.LoadFn = func(ctx context.Context, url string) error {
			if first.IsZero() {
				first = time.Now()
			}
			return load(ctx, url)
		}

		limiter := crawl.NewDomainLimiter(10) // 100ms between requests
		c := newCrawler(t, nav)
		c.RetryDelays = []time.Duration{}
		c.RateLimiter = limiter

		start := time.Now()
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))
		_, err := c.Run(context.Background(), nil)

		require.NoError(t, err)
		assert.GreaterOrEqual(t, first.Sub(start), 80*time.Millisecond)
	})

	t.Run("media host is paced separately from the origin", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "static.wixstatic.com")

		require.NoError(t, err)
		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("host names are case-insensitive", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(10)
		require.NoError(t, limiter.Wait(context.Background(), "Example.com"))

		start := time.Now()
		err := limiter.Wait(context.Background(), "example.com")

		require.NoError(t, err)
		assert.GreaterOrEqual(t, time.Since(start), 80*time.Millisecond)
	})

	t.Run("zero rate disables pacing", func(t *testing.T) {
		t.Parallel()

		var limiter wxrport.DomainLimiter = crawl.NewDomainLimiter(0)

		start := time.Now()
		for range 5 {
			require.NoError(t, limiter.Wait(context.Background(), "example.com"))
		}

		assert.Less(t, time.Since(start), 50*time.Millisecond)
	})

	t.Run("gives up when the context ends first", func(t *testing.T) {
		t.Parallel()

		limiter := crawl.NewDomainLimiter(1)
		require.NoError(t, limiter.Wait(context.Background(), "example.com"))

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		assert.Error(t, limiter.Wait(ctx, "example.com"))
	})
}
