package wxrport

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown.
	// The input should be a cleaned content fragment.
	Convert(html string) (string, error)
}
