package wxrport

import "context"

// Author is the single synthetic author record of an export.
type Author struct {
	ID          int
	Login       string
	Email       string
	DisplayName string
	FirstName   string
	LastName    string
}

// Channel is the channel-level metadata of an export.
type Channel struct {
	Title       string
	Link        string
	Description string
	Author      Author
}

// Export is everything an Exporter writes: channel metadata followed by the
// collected items in discovery order.
type Export struct {
	Channel Channel
	Items   []*CrawlItem
}

// NewExport returns an Export of items for the site with the default
// channel metadata and admin author.
func NewExport(site *Site, items []*CrawlItem) *Export {
	return &Export{
		Channel: Channel{
			Title:       "Wix Export Import",
			Link:        site.Origin,
			Description: "Migrated content from Wix",
			Author: Author{
				ID:          1,
				Login:       "admin",
				Email:       "admin@example.com",
				DisplayName: "Admin",
			},
		},
		Items: items,
	}
}

// Exporter writes an export to its destination.
type Exporter interface {
	// Export writes the export. Implementations must not modify it.
	Export(ctx context.Context, export *Export) error

	// Name returns the exporter's identifier (e.g., "wxr", "markdown").
	Name() string
}
