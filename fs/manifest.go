package fs

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"

	"github.com/fwojciec/wxrport"
)

// Ensure ImageManifestExporter implements wxrport.Exporter at compile time.
var _ wxrport.Exporter = (*ImageManifestExporter)(nil)

// ManifestFile is the file name of the image manifest.
const ManifestFile = "images.json"

// ManifestEntry lists the images referenced by one item.
type ManifestEntry struct {
	Title  string   `json:"title"`
	Slug   string   `json:"slug"`
	URL    string   `json:"url"`
	Images []string `json:"images"`
}

// ImageManifestExporter writes images.json: the absolute image URLs found
// in each item's cleaned body. Items without images are omitted.
type ImageManifestExporter struct {
	path string
}

// NewImageManifestExporter creates an ImageManifestExporter writing to
// outDir/images.json.
func NewImageManifestExporter(outDir string) *ImageManifestExporter {
	return &ImageManifestExporter{path: filepath.Join(outDir, ManifestFile)}
}

// Name returns "images".
func (e *ImageManifestExporter) Name() string {
	return "images"
}

// Export writes the manifest atomically.
func (e *ImageManifestExporter) Export(ctx context.Context, export *wxrport.Export) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	data, err := json.MarshalIndent(Manifest(export.Items), "", "  ")
	if err != nil {
		return fmt.Errorf("encoding manifest: %w", err)
	}
	return writeFileAtomic(e.path, append(data, '\n'))
}

// Manifest returns the manifest entries of items, in item order.
func Manifest(items []*wxrport.CrawlItem) []ManifestEntry {
	entries := []ManifestEntry{}
	for _, item := range items {
		if len(item.Images) == 0 {
			continue
		}
		entries = append(entries, ManifestEntry{
			Title:  item.Title,
			Slug:   item.Slug,
			URL:    item.URL,
			Images: item.Images,
		})
	}
	return entries
}
