package goquery_test

import (
	"testing"

	"github.com/fwojciec/wxrport"
	"github.com/fwojciec/wxrport/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkExtractor_ExtractLinks(t *testing.T) {
	t.Parallel()

	t.Run("resolves links against the base URL in document order", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<a href="/post/a">A</a>
<a href="post/b">B</a>
<a href="https://example.com/about">About</a>
<a href="https://facebook.com/share">Share</a>
</body></html>`

		links, err := goquery.NewLinkExtractor().ExtractLinks(html, "https://example.com/es/blog")

		require.NoError(t, err)
		assert.Equal(t, []string{
			"https://example.com/post/a",
			"https://example.com/es/post/b",
			"https://example.com/about",
			"https://facebook.com/share",
		}, links)
	})

	t.Run("resolves bare relative hrefs against an origin", func(t *testing.T) {
		t.Parallel()

		html := `<html><body><a href="blog">Blog</a><a href="es/post/hola">Hola</a></body></html>`

		links, err := goquery.NewLinkExtractor().ExtractLinks(html, "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/blog", "https://example.com/es/post/hola"}, links)
	})

	t.Run("skips fragment-only and non-HTTP links", func(t *testing.T) {
		t.Parallel()

		html := `<a href="#top">Top</a>
<a href="mailto:info@example.com">Mail</a>
<a href="tel:+57123">Call</a>
<a href="javascript:void(0)">JS</a>
<a href="">Empty</a>
<a>No href</a>
<a href="/contact">Contact</a>`

		links, err := goquery.NewLinkExtractor().ExtractLinks(html, "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/contact"}, links)
	})

	t.Run("strips fragments and deduplicates", func(t *testing.T) {
		t.Parallel()

		html := `<a href="/post/c#comments">1</a><a href="/post/c">2</a><a href="/post/c#top">3</a>`

		links, err := goquery.NewLinkExtractor().ExtractLinks(html, "https://example.com")

		require.NoError(t, err)
		assert.Equal(t, []string{"https://example.com/post/c"}, links)
	})

	t.Run("rejects invalid page URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.NewLinkExtractor().ExtractLinks(`<a href="/x">x</a>`, "://bad")

		require.Error(t, err)
		assert.Equal(t, wxrport.EINVALID, wxrport.ErrorCode(err))
	})
}
