package fs_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/fwojciec/wxrport"
	"github.com/fwojciec/wxrport/fs"
	"github.com/fwojciec/wxrport/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func newItem(title, slug, url string) *wxrport.CrawlItem {
	return &wxrport.CrawlItem{
		Title:    title,
		Slug:     slug,
		URL:      url,
		Date:     time.Date(2024, 3, 5, 10, 30, 0, 0, time.UTC),
		BodyHTML: "<p>" + strings.Repeat("x", 200) + "</p>",
		PostType: wxrport.PostTypePost,
	}
}

// echoConverter returns the HTML unchanged.
func echoConverter() *mock.Converter {
	return &mock.Converter{
		ConvertFn: func(html string) (string, error) {
			return html, nil
		},
	}
}

func TestFormatItem(t *testing.T) {
	t.Parallel()

	item := newItem("Qué es: un detox", "que-es-un-detox", "https://example.com/es/post/que-es")
	item.Categories = []string{"Spanish"}

	content, err := fs.FormatItem(item, "# Body")
	require.NoError(t, err)

	parts := strings.SplitN(string(content), "---\n", 3)
	require.Len(t, parts, 3, "front matter should be delimited by ---")
	assert.Empty(t, parts[0])

	var fm map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(parts[1]), &fm))
	assert.Equal(t, "Qué es: un detox", fm["title"])
	assert.Equal(t, "que-es-un-detox", fm["slug"])
	assert.Equal(t, "2024-03-05T10:30:00Z", fm["date"])
	assert.Equal(t, "https://example.com/es/post/que-es", fm["url"])
	assert.Equal(t, "post", fm["type"])
	assert.Equal(t, []any{"Spanish"}, fm["categories"])

	assert.Equal(t, "\n# Body\n", parts[2])
}

func TestFormatItem_OmitsEmptyCategories(t *testing.T) {
	t.Parallel()

	content, err := fs.FormatItem(newItem("About", "about", "https://example.com/about"), "body")

	require.NoError(t, err)
	assert.NotContains(t, string(content), "categories")
}

func TestMarkdownExporter_Export(t *testing.T) {
	t.Parallel()

	t.Run("writes one file per item", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		exp := fs.NewMarkdownExporter(out, echoConverter(), nil)
		export := &wxrport.Export{Items: []*wxrport.CrawlItem{
			newItem("Detox Basics", "detox-basics", "https://example.com/post/detox-basics"),
			newItem("About", "about", "https://example.com/about"),
		}}

		err := exp.Export(context.Background(), export)

		require.NoError(t, err)
		entries, err := os.ReadDir(filepath.Join(out, fs.MarkdownDir))
		require.NoError(t, err)
		var names []string
		for _, e := range entries {
			names = append(names, e.Name())
		}
		assert.ElementsMatch(t, []string{"detox-basics.md", "about.md"}, names)

		content, err := os.ReadFile(filepath.Join(out, fs.MarkdownDir, "detox-basics.md"))
		require.NoError(t, err)
		assert.Contains(t, string(content), "title: Detox Basics")
		assert.Contains(t, string(content), strings.Repeat("x", 200))
	})

	t.Run("suffixes colliding slugs", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		exp := fs.NewMarkdownExporter(out, echoConverter(), nil)
		export := &wxrport.Export{Items: []*wxrport.CrawlItem{
			newItem("Detox", "detox", "https://example.com/post/detox"),
			newItem("Detox!", "detox", "https://example.com/es/post/detox"),
		}}

		require.NoError(t, exp.Export(context.Background(), export))

		_, err := os.Stat(filepath.Join(out, fs.MarkdownDir, "detox.md"))
		require.NoError(t, err)
		_, err = os.Stat(filepath.Join(out, fs.MarkdownDir, "detox-2.md"))
		require.NoError(t, err)
	})

	t.Run("leaves previous output on conversion failure", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		previous := filepath.Join(out, fs.MarkdownDir, "old.md")
		require.NoError(t, os.MkdirAll(filepath.Dir(previous), 0755))
		require.NoError(t, os.WriteFile(previous, []byte("old"), 0644))

		conv := &mock.Converter{
			ConvertFn: func(html string) (string, error) {
				return "", errors.New("bad markup")
			},
		}
		exp := fs.NewMarkdownExporter(out, conv, nil)
		export := &wxrport.Export{Items: []*wxrport.CrawlItem{
			newItem("A", "a", "https://example.com/post/a"),
		}}

		err := exp.Export(context.Background(), export)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "bad markup")
		_, err = os.Stat(previous)
		require.NoError(t, err, "previous output should survive a failed export")
		_, err = os.Stat(filepath.Join(out, fs.MarkdownDir+".tmp"))
		assert.True(t, os.IsNotExist(err), "temp directory should be removed")
	})

	t.Run("stops on cancelled context", func(t *testing.T) {
		t.Parallel()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		exp := fs.NewMarkdownExporter(t.TempDir(), echoConverter(), nil)
		export := &wxrport.Export{Items: []*wxrport.CrawlItem{
			newItem("A", "a", "https://example.com/post/a"),
		}}

		err := exp.Export(ctx, export)

		require.ErrorIs(t, err, context.Canceled)
	})
}

func TestMarkdownExporter_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "markdown", fs.NewMarkdownExporter(t.TempDir(), echoConverter(), nil).Name())
}
