// Package etree writes exports as WordPress eXtended RSS (WXR) 1.2
// documents using github.com/beevik/etree.
package etree

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/wxrport"
)

// Compile-time interface verification.
var _ wxrport.Exporter = (*Exporter)(nil)

// WXR namespaces declared on the rss root.
const (
	NamespaceExcerpt = "http://wordpress.org/export/1.2/excerpt/"
	NamespaceContent = "http://purl.org/rss/1.0/modules/content/"
	NamespaceWfw     = "http://wellformedweb.org/CommentAPI/"
	NamespaceDC      = "http://purl.org/dc/elements/1.1/"
	NamespaceWP      = "http://wordpress.org/export/1.2/"
)

// Date layouts of the item fields.
const (
	PubDateLayout  = "Mon, 02 Jan 2006 15:04:05 GMT"
	PostDateLayout = "2006-01-02 15:04:05"
)

// WXRVersion is the wp:wxr_version of written documents.
const WXRVersion = "1.2"

// Exporter writes an export as a single WXR file.
type Exporter struct {
	// Path is the destination file, e.g. output/import.xml.
	Path string

	Logger *slog.Logger
}

// NewExporter creates an Exporter writing to path.
func NewExporter(path string, logger *slog.Logger) *Exporter {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Exporter{Path: path, Logger: logger}
}

// Name returns "wxr".
func (e *Exporter) Name() string {
	return "wxr"
}

// Export builds the WXR document and writes it to Path. The file is written
// to a temporary sibling first and renamed into place.
func (e *Exporter) Export(ctx context.Context, export *wxrport.Export) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	doc, renamed := Build(export)
	for _, r := range renamed {
		e.Logger.Warn("slug collision", "url", r.URL, "slug", r.From, "renamed", r.To)
	}

	if err := os.MkdirAll(filepath.Dir(e.Path), 0755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	tmp := e.Path + ".tmp"
	if err := doc.WriteToFile(tmp); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, e.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("renaming %s: %w", tmp, err)
	}
	return nil
}

// Rename records a slug changed to keep wp:post_name unique.
type Rename struct {
	URL  string
	From string
	To   string
}

// Build returns the WXR document of export together with the slugs that
// were suffixed ("-2", "-3", ...) because an earlier item already used them.
// Items keep their order; wp:post_id counts up from 1.
func Build(export *wxrport.Export) (*etree.Document, []Rename) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.WriteSettings.CanonicalEndTags = true

	rss := doc.CreateElement("rss")
	rss.CreateAttr("version", "2.0")
	rss.CreateAttr("xmlns:excerpt", NamespaceExcerpt)
	rss.CreateAttr("xmlns:content", NamespaceContent)
	rss.CreateAttr("xmlns:wfw", NamespaceWfw)
	rss.CreateAttr("xmlns:dc", NamespaceDC)
	rss.CreateAttr("xmlns:wp", NamespaceWP)

	channel := rss.CreateElement("channel")
	ch := export.Channel
	text(channel, "title", ch.Title)
	text(channel, "link", ch.Link)
	text(channel, "description", ch.Description)
	text(channel, "wp:wxr_version", WXRVersion)
	text(channel, "wp:base_site_url", ch.Link)
	text(channel, "wp:base_blog_url", ch.Link)

	author := channel.CreateElement("wp:author")
	text(author, "wp:author_id", strconv.Itoa(ch.Author.ID))
	text(author, "wp:author_login", ch.Author.Login)
	text(author, "wp:author_email", ch.Author.Email)
	cdata(author.CreateElement("wp:author_display_name"), ch.Author.DisplayName)
	text(author, "wp:author_first_name", ch.Author.FirstName)
	text(author, "wp:author_last_name", ch.Author.LastName)

	slugs := make(map[string]bool)
	var renamed []Rename
	for i, item := range export.Items {
		slug := uniqueSlug(item.Slug, slugs)
		if slug != item.Slug {
			renamed = append(renamed, Rename{URL: item.URL, From: item.Slug, To: slug})
		}
		writeItem(channel, item, i+1, slug, ch.Author.Login)
	}

	doc.Indent(2)
	return doc, renamed
}

func writeItem(channel *etree.Element, item *wxrport.CrawlItem, id int, slug, creator string) {
	date := item.Date.UTC()

	el := channel.CreateElement("item")
	text(el, "title", item.Title)
	text(el, "link", item.URL)
	text(el, "pubDate", date.Format(PubDateLayout))
	text(el, "dc:creator", creator)
	guid := text(el, "guid", item.URL)
	guid.CreateAttr("isPermaLink", "false")
	text(el, "description", "")
	cdata(el.CreateElement("content:encoded"), item.BodyHTML)
	cdata(el.CreateElement("excerpt:encoded"), "")
	text(el, "wp:post_id", strconv.Itoa(id))
	text(el, "wp:post_date", date.Format(PostDateLayout))
	text(el, "wp:post_date_gmt", date.Format(PostDateLayout))
	text(el, "wp:comment_status", "closed")
	text(el, "wp:ping_status", "closed")
	text(el, "wp:post_name", slug)
	text(el, "wp:status", "publish")
	text(el, "wp:post_parent", "0")
	text(el, "wp:menu_order", "0")
	text(el, "wp:post_type", string(item.PostType))
	text(el, "wp:post_password", "")
	text(el, "wp:is_sticky", "0")

	for _, label := range item.Categories {
		cat := text(el, "category", label)
		cat.CreateAttr("domain", "category")
		cat.CreateAttr("nicename", wxrport.Slugify(label))
	}
}

// uniqueSlug returns slug, or slug suffixed with the first free counter,
// and records the result in used.
func uniqueSlug(slug string, used map[string]bool) string {
	candidate := slug
	for n := 2; used[candidate]; n++ {
		candidate = slug + "-" + strconv.Itoa(n)
	}
	used[candidate] = true
	return candidate
}

func text(parent *etree.Element, tag, value string) *etree.Element {
	el := parent.CreateElement(tag)
	el.SetText(value)
	return el
}

// cdata sets the content of el as unescaped character data. A "]]>" in
// data would end the section early, so it is split across two sections.
func cdata(el *etree.Element, data string) {
	parts := strings.Split(data, "]]>")
	for i, part := range parts {
		if i > 0 {
			part = ">" + part
		}
		if i < len(parts)-1 {
			part += "]]"
		}
		el.CreateCData(part)
	}
}
