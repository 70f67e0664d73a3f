package rod

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fwojciec/wxrport"
	"github.com/go-rod/rod"
	"github.com/go-rod/rod/lib/launcher"
	"github.com/go-rod/rod/lib/proto"
)

// Ensure Navigator implements wxrport.Navigator at compile time.
var (
	_ wxrport.Navigator = (*Navigator)(nil)
	_ wxrport.Element   = (*element)(nil)
)

// DefaultLoadTimeout bounds a single page load.
const DefaultLoadTimeout = 120 * time.Second

// Navigator drives one page of a headless Chrome browser. The page is
// created once and reused for every Load, so state such as cookies and
// the consent banner dismissal carries over between pages.
//
// Navigator is not meant for concurrent page loads; calls are serialized.
type Navigator struct {
	mu          sync.Mutex
	launcher    *launcher.Launcher
	browser     *rod.Browser
	page        *rod.Page
	loadTimeout time.Duration
	closed      atomic.Bool
}

// Option configures a Navigator.
type Option func(*Navigator)

// WithLoadTimeout sets the timeout of a single Load.
// Defaults to 120 seconds.
func WithLoadTimeout(d time.Duration) Option {
	return func(n *Navigator) {
		n.loadTimeout = d
	}
}

// NewNavigator launches a headless Chrome browser and opens a blank page.
// Close must be called when the Navigator is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewNavigator(opts ...Option) (*Navigator, error) {
	n := &Navigator{loadTimeout: DefaultLoadTimeout}
	for _, opt := range opts {
		opt(n)
	}

	l := launcher.New().
		Set("disable-background-timer-throttling").
		Set("disable-backgrounding-occluded-windows").
		Set("disable-renderer-backgrounding").
		Set("disable-dev-shm-usage").
		Set("disable-hang-monitor").
		Leakless(true).
		Headless(true)

	u, err := l.Launch()
	if err != nil {
		return nil, fmt.Errorf("launching browser: %w", err)
	}

	browser := rod.New().ControlURL(u)
	if err := browser.Connect(); err != nil {
		l.Kill()
		return nil, fmt.Errorf("connecting to browser: %w", err)
	}

	page, err := browser.Page(proto.TargetCreateTarget{})
	if err != nil {
		_ = browser.Close()
		l.Kill()
		return nil, fmt.Errorf("opening page: %w", err)
	}

	n.launcher = l
	n.browser = browser
	n.page = page
	return n, nil
}

// Load navigates to url and waits for the load event, giving up after the
// load timeout.
func (n *Navigator) Load(ctx context.Context, url string) error {
	page, unlock, err := n.acquire(ctx)
	if err != nil {
		return err
	}
	defer unlock()

	tctx, cancel := context.WithTimeout(ctx, n.loadTimeout)
	defer cancel()

	p := page.Context(tctx)
	if err := p.Navigate(url); err != nil {
		return err
	}
	return p.WaitLoad()
}

// HTML returns the serialized DOM of the current page.
func (n *Navigator) HTML(ctx context.Context) (string, error) {
	page, unlock, err := n.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer unlock()

	return page.Context(ctx).HTML()
}

// Evaluate runs a JavaScript function expression on the current page and
// returns its result. Strings are returned as is, other values as JSON.
func (n *Navigator) Evaluate(ctx context.Context, js string) (string, error) {
	page, unlock, err := n.acquire(ctx)
	if err != nil {
		return "", err
	}
	defer unlock()

	res, err := page.Context(ctx).Eval(js)
	if err != nil {
		return "", err
	}
	return res.Value.String(), nil
}

// QueryAll returns the elements of the current page matching selector.
// It does not wait for matches to appear.
func (n *Navigator) QueryAll(ctx context.Context, selector string) ([]wxrport.Element, error) {
	page, unlock, err := n.acquire(ctx)
	if err != nil {
		return nil, err
	}
	defer unlock()

	els, err := page.Context(ctx).Elements(selector)
	if err != nil {
		return nil, err
	}
	out := make([]wxrport.Element, len(els))
	for i, el := range els {
		out[i] = &element{el: el}
	}
	return out, nil
}

// Close releases the page and the browser. Close is safe to call multiple times.
func (n *Navigator) Close() error {
	if !n.closed.CompareAndSwap(false, true) {
		return nil
	}

	n.mu.Lock()
	defer n.mu.Unlock()

	var err error
	if n.page != nil {
		_ = n.page.Close()
		n.page = nil
	}
	if n.browser != nil {
		err = n.browser.Close()
		n.browser = nil
	}
	if n.launcher != nil {
		n.launcher.Kill()
		n.launcher = nil
	}
	return err
}

// LauncherPID returns the process ID of the browser launcher.
// This method exists for testing purposes to verify proper cleanup.
func (n *Navigator) LauncherPID() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.launcher == nil {
		return 0
	}
	return n.launcher.PID()
}

// acquire locks the navigator and returns its page, or an error if the
// navigator is closed or ctx is done.
func (n *Navigator) acquire(ctx context.Context) (*rod.Page, func(), error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, err
	}
	if n.closed.Load() {
		return nil, nil, wxrport.Errorf(wxrport.EINVALID, "navigator is closed")
	}
	n.mu.Lock()
	if n.page == nil {
		n.mu.Unlock()
		return nil, nil, wxrport.Errorf(wxrport.EINVALID, "navigator is closed")
	}
	return n.page, n.mu.Unlock, nil
}

// element is a handle to an element of the navigator's page.
type element struct {
	el *rod.Element
}

// Click scrolls the element into view and clicks it, giving up after timeout.
func (e *element) Click(ctx context.Context, timeout time.Duration) error {
	tctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	return e.el.Context(tctx).Click(proto.InputMouseButtonLeft, 1)
}
