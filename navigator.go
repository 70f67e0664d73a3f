package wxrport

import (
	"context"
	"time"
)

// Navigator drives a single rendered page session. Every call operates on
// the page most recently loaded with Load.
type Navigator interface {
	// Load navigates to the URL and waits for the document to load.
	// Implementations bound each attempt by their own timeout.
	Load(ctx context.Context, url string) error

	// HTML returns a snapshot of the rendered DOM.
	HTML(ctx context.Context) (string, error)

	// Evaluate runs a JavaScript function expression on the page and
	// returns its result in string form, e.g. "() => document.title".
	Evaluate(ctx context.Context, js string) (string, error)

	// QueryAll returns handles for every element matching the CSS selector.
	QueryAll(ctx context.Context, selector string) ([]Element, error)

	// Close releases the page and browser.
	// Must be called when the Navigator is no longer needed.
	Close() error
}

// Element is a handle to an element of the current page.
type Element interface {
	// Click clicks the element, giving up after timeout.
	Click(ctx context.Context, timeout time.Duration) error
}
