package crawl

import (
	"sync"

	"github.com/fwojciec/wxrport"
	"github.com/fwojciec/wxrport/bloom"
)

// Compile-time interface verification.
var _ wxrport.URLFrontier = (*Frontier)(nil)

// Frontier is an in-memory FIFO URL frontier. Membership is exact; a Bloom
// filter answers the common "never seen" case before the maps are consulted.
// It is safe for concurrent use by multiple goroutines.
type Frontier struct {
	mu      sync.Mutex
	seen    *bloom.Filter
	queue   []string
	queued  map[string]struct{}
	visited map[string]struct{}
}

// NewFrontier creates a new Frontier with its Bloom filter sized for n
// expected URLs at the given false positive rate.
func NewFrontier(n uint, fpRate float64) *Frontier {
	return &Frontier{
		seen:    bloom.NewFilter(n, fpRate),
		queued:  make(map[string]struct{}),
		visited: make(map[string]struct{}),
	}
}

// Push appends url to the queue.
// Returns false if the URL has already been visited or queued.
func (f *Frontier) Push(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.seen.TestAndAdd(url) {
		if _, ok := f.visited[url]; ok {
			return false
		}
		if _, ok := f.queued[url]; ok {
			return false
		}
	}

	f.queued[url] = struct{}{}
	f.queue = append(f.queue, url)
	return true
}

// Pop returns the oldest pending URL.
// The bool result is false if the frontier is empty.
func (f *Frontier) Pop() (string, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if len(f.queue) == 0 {
		return "", false
	}
	url := f.queue[0]
	f.queue[0] = ""
	f.queue = f.queue[1:]
	delete(f.queued, url)
	return url, true
}

// MarkVisited records url as visited.
// Returns false if it was already visited.
func (f *Frontier) MarkVisited(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if _, ok := f.visited[url]; ok {
		return false
	}
	f.seen.Add(url)
	f.visited[url] = struct{}{}
	return true
}

// Visited returns true if url has been marked visited.
func (f *Frontier) Visited(url string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if !f.seen.Test(url) {
		return false
	}
	_, ok := f.visited[url]
	return ok
}

// Len returns the number of pending URLs.
func (f *Frontier) Len() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.queue)
}

// VisitedCount returns the number of visited URLs.
func (f *Frontier) VisitedCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.visited)
}
