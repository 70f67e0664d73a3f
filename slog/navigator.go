package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/wxrport"
)

// Ensure LoggingNavigator implements wxrport.Navigator.
var _ wxrport.Navigator = (*LoggingNavigator)(nil)

// LoggingNavigator wraps a Navigator with logging of page loads and DOM
// snapshots. Script evaluation is logged at debug level only.
type LoggingNavigator struct {
	next   wxrport.Navigator
	logger *slog.Logger
}

// NewLoggingNavigator creates a new LoggingNavigator.
func NewLoggingNavigator(next wxrport.Navigator, logger *slog.Logger) *LoggingNavigator {
	return &LoggingNavigator{next: next, logger: logger}
}

// Load logs the URL being loaded and delegates to the wrapped navigator.
func (n *LoggingNavigator) Load(ctx context.Context, url string) (err error) {
	defer func(begin time.Time) {
		n.logger.Info("load",
			"url", url,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return n.next.Load(ctx, url)
}

// HTML logs the snapshot size and delegates to the wrapped navigator.
func (n *LoggingNavigator) HTML(ctx context.Context) (html string, err error) {
	defer func(begin time.Time) {
		n.logger.Debug("snapshot",
			"bytes", len(html),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return n.next.HTML(ctx)
}

// Evaluate delegates to the wrapped navigator.
func (n *LoggingNavigator) Evaluate(ctx context.Context, js string) (result string, err error) {
	defer func(begin time.Time) {
		n.logger.Debug("evaluate",
			"result", result,
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return n.next.Evaluate(ctx, js)
}

// QueryAll logs the number of matches and delegates to the wrapped navigator.
func (n *LoggingNavigator) QueryAll(ctx context.Context, selector string) (elems []wxrport.Element, err error) {
	defer func(begin time.Time) {
		n.logger.Debug("query",
			"selector", selector,
			"count", len(elems),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return n.next.QueryAll(ctx, selector)
}

// Close delegates to the wrapped navigator.
func (n *LoggingNavigator) Close() error {
	return n.next.Close()
}
