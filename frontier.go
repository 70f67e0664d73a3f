package wxrport

import "context"

// URLFrontier holds the pending and visited URLs of a crawl.
// URLs are expected to be normalized before they reach the frontier.
type URLFrontier interface {
	// Push queues a URL. It is a no-op returning false when the URL has
	// already been visited or queued.
	Push(url string) bool

	// Pop removes and returns the next pending URL.
	// Returns false if the frontier is empty.
	Pop() (string, bool)

	// MarkVisited records the URL as visited.
	// Returns false if it was already visited.
	MarkVisited(url string) bool

	// Visited returns true if the URL has been marked visited.
	Visited(url string) bool

	// Len returns the number of pending URLs.
	Len() int
}

// DomainLimiter provides per-domain rate limiting.
type DomainLimiter interface {
	// Wait blocks until the rate limit allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
