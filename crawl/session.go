package crawl

import (
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/fwojciec/wxrport"
)

// Frontier sizing for a single site crawl.
const (
	// frontierExpectedURLs is the expected number of URLs for Bloom filter sizing.
	frontierExpectedURLs = 10000
	// frontierFalsePositiveRate is the acceptable false positive rate of the pre-check.
	frontierFalsePositiveRate = 0.01
)

// State is the lifecycle stage of a crawl session.
type State int

// Crawl session states.
const (
	StateSeeding State = iota
	StateCrawling
	StateDone
)

func (s State) String() string {
	switch s {
	case StateSeeding:
		return "seeding"
	case StateCrawling:
		return "crawling"
	case StateDone:
		return "done"
	}
	return "unknown"
}

// Stats counts what happened to the URLs of a session.
type Stats struct {
	Visited   int
	Listings  int
	Extracted int
	Skipped   int
	Failed    int
}

// Session is the explicit state of one crawl: the frontier with its
// visited set, and the items collected so far in discovery order.
// A Session is owned by a single Run and is not safe for concurrent use.
type Session struct {
	State    State
	Frontier wxrport.URLFrontier
	Items    []*wxrport.CrawlItem
	Stats    Stats

	// hashes maps a content hash to the first URL that produced it.
	hashes map[string]string
}

// NewSession returns an empty session in the seeding state.
func NewSession() *Session {
	return &Session{
		State:    StateSeeding,
		Frontier: NewFrontier(frontierExpectedURLs, frontierFalsePositiveRate),
		hashes:   make(map[string]string),
	}
}

// add appends item and returns the URL of an earlier item with the same
// content hash, if any.
func (s *Session) add(item *wxrport.CrawlItem) string {
	s.Items = append(s.Items, item)
	s.Stats.Extracted++
	if first, ok := s.hashes[item.ContentHash]; ok {
		return first
	}
	s.hashes[item.ContentHash] = item.URL
	return ""
}

// contentHash fingerprints a cleaned body as 16 hex digits of its xxhash.
func contentHash(body string) string {
	return fmt.Sprintf("%016x", xxhash.Sum64String(body))
}
