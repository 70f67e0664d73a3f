package crawl

import (
	"context"
	"strings"
	"sync"

	"github.com/fwojciec/wxrport"
	"golang.org/x/time/rate"
)

var _ wxrport.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter spaces out requests per host. The crawl loads one page at a
// time, so on a Wix site it paces every listing and detail load on the
// origin. Sitemap discovery shares the limiter, so robots.txt and sitemap
// fetches count against the same host budget.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter returns a limiter allowing rps requests per second to each
// host, without bursts. A rate of zero or less disables pacing.
func NewDomainLimiter(rps float64) *DomainLimiter {
	limit := rate.Limit(rps)
	if rps <= 0 {
		limit = rate.Inf
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until a request to host is allowed or ctx is done.
// Host names are compared case-insensitively.
func (d *DomainLimiter) Wait(ctx context.Context, host string) error {
	host = strings.ToLower(host)

	d.mu.Lock()
	limiter, ok := d.limiters[host]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[host] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
