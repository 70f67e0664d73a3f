package fs_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/fwojciec/wxrport"
	"github.com/fwojciec/wxrport/fs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestManifest(t *testing.T) {
	t.Parallel()

	withImages := newItem("Detox", "detox", "https://example.com/post/detox")
	withImages.Images = []string{"https://static.wixstatic.com/media/a.jpg"}
	without := newItem("About", "about", "https://example.com/about")

	entries := fs.Manifest([]*wxrport.CrawlItem{without, withImages})

	assert.Equal(t, []fs.ManifestEntry{{
		Title:  "Detox",
		Slug:   "detox",
		URL:    "https://example.com/post/detox",
		Images: []string{"https://static.wixstatic.com/media/a.jpg"},
	}}, entries)
}

func TestImageManifestExporter_Export(t *testing.T) {
	t.Parallel()

	t.Run("writes images.json", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()
		item := newItem("Detox", "detox", "https://example.com/post/detox")
		item.Images = []string{
			"https://static.wixstatic.com/media/a.jpg",
			"https://static.wixstatic.com/media/b.png",
		}

		err := fs.NewImageManifestExporter(out).Export(context.Background(), &wxrport.Export{
			Items: []*wxrport.CrawlItem{item},
		})
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(out, fs.ManifestFile))
		require.NoError(t, err)
		var entries []fs.ManifestEntry
		require.NoError(t, json.Unmarshal(data, &entries))
		require.Len(t, entries, 1)
		assert.Equal(t, "detox", entries[0].Slug)
		assert.Equal(t, item.Images, entries[0].Images)

		_, err = os.Stat(filepath.Join(out, fs.ManifestFile+".tmp"))
		assert.True(t, os.IsNotExist(err), "temp file should not remain")
	})

	t.Run("writes empty array when no item has images", func(t *testing.T) {
		t.Parallel()

		out := t.TempDir()

		err := fs.NewImageManifestExporter(out).Export(context.Background(), &wxrport.Export{})
		require.NoError(t, err)

		data, err := os.ReadFile(filepath.Join(out, fs.ManifestFile))
		require.NoError(t, err)
		assert.JSONEq(t, "[]", string(data))
	})
}

func TestImageManifestExporter_Name(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "images", fs.NewImageManifestExporter(t.TempDir()).Name())
}
