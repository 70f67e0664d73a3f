package crawl

import (
	"context"
	"time"
)

// LoadFunc is the signature for a page load function.
type LoadFunc func(ctx context.Context, url string) error

// LogFunc is the signature for a logging function.
type LogFunc func(msg string, args ...any)

// DefaultRetryDelays returns the pauses between load attempts: 1s, 2s.
// Together with the initial attempt this allows 3 attempts in total.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second}
}

// RetryDelaysFor returns backoff delays allowing the given number of attempts.
func RetryDelaysFor(attempts int) []time.Duration {
	if attempts <= 1 {
		return []time.Duration{}
	}
	delays := make([]time.Duration, attempts-1)
	for i := range delays {
		delays[i] = time.Duration(1<<i) * time.Second
	}
	return delays
}

// LoadWithRetry attempts to load a URL, retrying failed attempts after
// each of the given delays. The logger, if provided, is called for each
// retry. The last attempt's error is returned when all attempts fail.
func LoadWithRetry(ctx context.Context, url string, load LoadFunc, logger LogFunc, delays []time.Duration) error {
	maxAttempts := len(delays) + 1 // 1 initial + N retries

	var lastErr error
	for attempt := 0; attempt < maxAttempts; attempt++ {
		err := load(ctx, url)
		if err == nil {
			return nil
		}
		lastErr = err

		// Don't retry after the last attempt
		if attempt >= maxAttempts-1 {
			break
		}

		if logger != nil {
			logger("load failed, retrying", "url", url, "attempt", attempt+1, "err", err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}

	return lastErr
}
