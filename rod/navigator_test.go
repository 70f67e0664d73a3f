//go:build integration

package rod_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/wxrport"
	"github.com/fwojciec/wxrport/rod"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func serve(t *testing.T, pages map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, ok := pages[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newNavigator(t *testing.T, opts ...rod.Option) *rod.Navigator {
	t.Helper()
	nav, err := rod.NewNavigator(opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = nav.Close() })
	return nav
}

func TestNavigator_Load_ReturnsRenderedHTML(t *testing.T) {
	t.Parallel()

	srv := serve(t, map[string]string{
		"/": `<!DOCTYPE html><html><head><title>Test</title></head><body>
<div id="content">Initial</div>
<script>document.getElementById('content').innerHTML = '<article>Rendered by JS</article>';</script>
</body></html>`,
	})
	nav := newNavigator(t)

	require.NoError(t, nav.Load(context.Background(), srv.URL+"/"))
	html, err := nav.HTML(context.Background())

	require.NoError(t, err)
	assert.Contains(t, html, "<article>Rendered by JS</article>")
}

func TestNavigator_Evaluate(t *testing.T) {
	t.Parallel()

	srv := serve(t, map[string]string{
		"/": `<html><head><title>Eval</title></head><body style="height: 3000px"></body></html>`,
	})
	nav := newNavigator(t)
	require.NoError(t, nav.Load(context.Background(), srv.URL+"/"))

	title, err := nav.Evaluate(context.Background(), `() => document.title`)
	require.NoError(t, err)
	assert.Equal(t, "Eval", title)

	height, err := nav.Evaluate(context.Background(), `() => document.body.scrollHeight`)
	require.NoError(t, err)
	assert.Equal(t, "3000", height)
}

func TestNavigator_QueryAll_Click(t *testing.T) {
	t.Parallel()

	srv := serve(t, map[string]string{
		"/": `<html><body>
<button data-hook="expandIcon" onclick="document.getElementById('a').setAttribute('aria-hidden','false')">Q1</button>
<div id="a" aria-hidden="true">Answer 1</div>
<button data-hook="expandIcon" style="display:none">Hidden</button>
</body></html>`,
	})
	nav := newNavigator(t)
	require.NoError(t, nav.Load(context.Background(), srv.URL+"/"))

	els, err := nav.QueryAll(context.Background(), wxrport.DefaultDisclosureSelector)
	require.NoError(t, err)
	require.Len(t, els, 2)

	require.NoError(t, els[0].Click(context.Background(), 2*time.Second))
	assert.Error(t, els[1].Click(context.Background(), 200*time.Millisecond), "invisible element cannot be clicked")

	html, err := nav.HTML(context.Background())
	require.NoError(t, err)
	assert.Contains(t, html, `<div id="a" aria-hidden="false">`)
}

func TestNavigator_Load_TimeoutTriggersOnSlowPage(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(`<html><body>delayed</body></html>`))
	}))
	defer srv.Close()

	nav := newNavigator(t, rod.WithLoadTimeout(100*time.Millisecond))

	err := nav.Load(context.Background(), srv.URL)

	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestNavigator_Load_ContextCancellation(t *testing.T) {
	t.Parallel()

	nav := newNavigator(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := nav.Load(ctx, "http://example.com")

	assert.ErrorIs(t, err, context.Canceled)
}

func TestNavigator_Close_Idempotent(t *testing.T) {
	t.Parallel()

	nav, err := rod.NewNavigator()
	require.NoError(t, err)

	require.NoError(t, nav.Close())
	require.NoError(t, nav.Close())
}

func TestNavigator_Load_AfterClose_ReturnsError(t *testing.T) {
	t.Parallel()

	nav, err := rod.NewNavigator()
	require.NoError(t, err)
	require.NoError(t, nav.Close())

	err = nav.Load(context.Background(), "http://example.com")

	require.Error(t, err)
	assert.Equal(t, wxrport.EINVALID, wxrport.ErrorCode(err))
	assert.True(t, strings.Contains(wxrport.ErrorMessage(err), "closed"))
}
