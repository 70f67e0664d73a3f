package crawl

import (
	"context"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/fwojciec/wxrport"
)

// Default expander timings.
const (
	DefaultSettle       = 4 * time.Second
	DefaultClickTimeout = 2 * time.Second
	DefaultClickPause   = 300 * time.Millisecond
	DefaultMaxScrolls   = 100
)

// Page scripts used by the Expander.
const (
	scrollHeightJS = `() => document.body.scrollHeight`
	scrollBottomJS = `() => { window.scrollTo(0, document.body.scrollHeight); return true; }`
	revealHiddenJS = `() => {
	const nodes = document.querySelectorAll('[aria-hidden="true"]');
	nodes.forEach((n) => n.setAttribute("aria-hidden", "false"));
	return nodes.length;
}`
)

// Expander reveals lazily loaded and collapsed content on the current page
// of a Navigator. Both operations are best-effort: failures are logged and
// reported in the result, never returned as errors.
type Expander struct {
	Navigator wxrport.Navigator

	// Settle is the pause after each scroll before the height is measured.
	Settle time.Duration

	// ClickTimeout bounds each disclosure click.
	ClickTimeout time.Duration

	// ClickPause is the pause after each successful click.
	ClickPause time.Duration

	// Selector matches collapsed disclosure elements.
	Selector string

	// MaxScrolls caps scroll iterations on pages that grow forever.
	MaxScrolls int

	Logger *slog.Logger
}

// NewExpander returns an Expander for nav with the default timings.
func NewExpander(nav wxrport.Navigator, selector string, logger *slog.Logger) *Expander {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Expander{
		Navigator:    nav,
		Settle:       DefaultSettle,
		ClickTimeout: DefaultClickTimeout,
		ClickPause:   DefaultClickPause,
		Selector:     selector,
		MaxScrolls:   DefaultMaxScrolls,
		Logger:       logger,
	}
}

// ScrollResult reports the outcome of ScrollToExhaustion.
type ScrollResult struct {
	// Iterations is the number of scrolls performed.
	Iterations int

	// Height is the last measured document height.
	Height int

	// Exhausted is true when the height stopped changing.
	// It is false when the scroll was cut short by an error, the
	// MaxScrolls cap, or context cancellation.
	Exhausted bool

	Err error
}

// ScrollToExhaustion scrolls to the bottom of the document and waits Settle
// until the document height is unchanged between two measurements.
func (e *Expander) ScrollToExhaustion(ctx context.Context) ScrollResult {
	var res ScrollResult

	height, err := e.height(ctx)
	if err != nil {
		res.Err = err
		e.Logger.Debug("scroll aborted", "err", err)
		return res
	}
	res.Height = height

	for e.MaxScrolls <= 0 || res.Iterations < e.MaxScrolls {
		if _, err := e.Navigator.Evaluate(ctx, scrollBottomJS); err != nil {
			res.Err = err
			e.Logger.Debug("scroll aborted", "iteration", res.Iterations, "err", err)
			return res
		}
		res.Iterations++

		if err := sleep(ctx, e.Settle); err != nil {
			res.Err = err
			return res
		}

		next, err := e.height(ctx)
		if err != nil {
			res.Err = err
			e.Logger.Debug("scroll aborted", "iteration", res.Iterations, "err", err)
			return res
		}
		e.Logger.Debug("scrolled", "iteration", res.Iterations, "height", next)
		if next == res.Height {
			res.Exhausted = true
			return res
		}
		res.Height = next
	}

	e.Logger.Warn("scroll cap reached", "iterations", res.Iterations, "height", res.Height)
	return res
}

func (e *Expander) height(ctx context.Context) (int, error) {
	out, err := e.Navigator.Evaluate(ctx, scrollHeightJS)
	if err != nil {
		return 0, err
	}
	f, err := strconv.ParseFloat(strings.TrimSpace(out), 64)
	if err != nil {
		return 0, wxrport.Errorf(wxrport.EINVALID, "unexpected document height %q", out)
	}
	return int(f), nil
}

// ClickResult is the outcome of clicking one disclosure element.
type ClickResult struct {
	Index int
	Err   error
}

// ExpandResult reports the outcome of ExpandDisclosures.
type ExpandResult struct {
	// Found is the number of elements matching the selector.
	Found int

	// Clicks holds one result per element, in document order.
	Clicks []ClickResult

	// Revealed is the number of elements forced visible afterwards.
	Revealed int
}

// Clicked returns the number of successful clicks.
func (r ExpandResult) Clicked() int {
	n := 0
	for _, c := range r.Clicks {
		if c.Err == nil {
			n++
		}
	}
	return n
}

// ExpandDisclosures clicks every element matching Selector, each bounded by
// ClickTimeout, then marks every aria-hidden element of the page visible.
// One element's failure never stops the others.
func (e *Expander) ExpandDisclosures(ctx context.Context) ExpandResult {
	var res ExpandResult

	if e.Selector != "" {
		elements, err := e.Navigator.QueryAll(ctx, e.Selector)
		if err != nil {
			e.Logger.Debug("disclosure query failed", "selector", e.Selector, "err", err)
		}
		res.Found = len(elements)

		for i, el := range elements {
			if ctx.Err() != nil {
				break
			}
			err := el.Click(ctx, e.ClickTimeout)
			res.Clicks = append(res.Clicks, ClickResult{Index: i, Err: err})
			if err != nil {
				e.Logger.Debug("disclosure click failed", "index", i, "err", err)
				continue
			}
			_ = sleep(ctx, e.ClickPause)
		}
	}

	out, err := e.Navigator.Evaluate(ctx, revealHiddenJS)
	if err != nil {
		e.Logger.Debug("reveal hidden failed", "err", err)
		return res
	}
	if n, err := strconv.Atoi(strings.TrimSpace(out)); err == nil {
		res.Revealed = n
	}
	return res
}

// sleep waits for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
