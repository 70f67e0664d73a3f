package fs

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/fwojciec/wxrport"
	"gopkg.in/yaml.v3"
)

// Ensure MarkdownExporter implements wxrport.Exporter at compile time.
var _ wxrport.Exporter = (*MarkdownExporter)(nil)

// MarkdownDir is the directory, relative to the output directory, that
// holds the Markdown files.
const MarkdownDir = "markdown"

// MarkdownExporter writes one <slug>.md file per item, with YAML front
// matter followed by the Markdown-converted body.
type MarkdownExporter struct {
	store     *FileStore
	converter wxrport.Converter
	logger    *slog.Logger
}

// NewMarkdownExporter creates a MarkdownExporter writing to outDir/markdown.
func NewMarkdownExporter(outDir string, converter wxrport.Converter, logger *slog.Logger) *MarkdownExporter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &MarkdownExporter{
		store:     NewFileStore(outDir, MarkdownDir),
		converter: converter,
		logger:    logger,
	}
}

// Name returns "markdown".
func (e *MarkdownExporter) Name() string {
	return "markdown"
}

// Export converts every item and replaces the markdown directory
// atomically. Nothing is replaced if any item fails.
func (e *MarkdownExporter) Export(ctx context.Context, export *wxrport.Export) (err error) {
	defer func() {
		if err != nil {
			_ = e.store.Abort()
		}
	}()

	used := make(map[string]bool, len(export.Items))
	for _, item := range export.Items {
		if err := ctx.Err(); err != nil {
			return err
		}

		body, err := e.converter.Convert(item.BodyHTML)
		if err != nil {
			return fmt.Errorf("converting %s: %w", item.URL, err)
		}
		content, err := FormatItem(item, body)
		if err != nil {
			return err
		}

		name := uniqueName(item.Slug, used)
		if name != item.Slug {
			e.logger.Warn("slug collision", "url", item.URL, "file", name+".md")
		}
		if err := e.store.Save(name+".md", content); err != nil {
			return err
		}
	}

	return e.store.Commit()
}

// frontMatter is the YAML header of a Markdown file.
type frontMatter struct {
	Title      string   `yaml:"title"`
	Slug       string   `yaml:"slug"`
	Date       string   `yaml:"date"`
	URL        string   `yaml:"url"`
	Type       string   `yaml:"type"`
	Categories []string `yaml:"categories,omitempty"`
}

// FormatItem formats an item with YAML front matter followed by body.
func FormatItem(item *wxrport.CrawlItem, body string) ([]byte, error) {
	fm, err := yaml.Marshal(frontMatter{
		Title:      item.Title,
		Slug:       item.Slug,
		Date:       item.Date.UTC().Format(time.RFC3339),
		URL:        item.URL,
		Type:       string(item.PostType),
		Categories: item.Categories,
	})
	if err != nil {
		return nil, fmt.Errorf("encoding front matter: %w", err)
	}

	var b bytes.Buffer
	b.WriteString("---\n")
	b.Write(fm)
	b.WriteString("---\n\n")
	b.WriteString(body)
	b.WriteString("\n")
	return b.Bytes(), nil
}

// uniqueName returns slug, or slug suffixed with the first free counter,
// and records the result in used.
func uniqueName(slug string, used map[string]bool) string {
	if slug == "" {
		slug = "untitled"
	}
	candidate := slug
	for n := 2; used[candidate]; n++ {
		candidate = slug + "-" + strconv.Itoa(n)
	}
	used[candidate] = true
	return candidate
}
