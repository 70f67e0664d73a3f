package mock

import (
	"context"
	"time"

	"github.com/fwojciec/wxrport"
)

var (
	_ wxrport.Navigator = (*Navigator)(nil)
	_ wxrport.Element   = (*Element)(nil)
)

// Navigator is a mock implementation of wxrport.Navigator.
type Navigator struct {
	LoadFn     func(ctx context.Context, url string) error
	HTMLFn     func(ctx context.Context) (string, error)
	EvaluateFn func(ctx context.Context, js string) (string, error)
	QueryAllFn func(ctx context.Context, selector string) ([]wxrport.Element, error)
	CloseFn    func() error
}

func (n *Navigator) Load(ctx context.Context, url string) error {
	return n.LoadFn(ctx, url)
}

func (n *Navigator) HTML(ctx context.Context) (string, error) {
	return n.HTMLFn(ctx)
}

func (n *Navigator) Evaluate(ctx context.Context, js string) (string, error) {
	return n.EvaluateFn(ctx, js)
}

func (n *Navigator) QueryAll(ctx context.Context, selector string) ([]wxrport.Element, error) {
	return n.QueryAllFn(ctx, selector)
}

func (n *Navigator) Close() error {
	return n.CloseFn()
}

// Element is a mock implementation of wxrport.Element.
type Element struct {
	ClickFn func(ctx context.Context, timeout time.Duration) error
}

func (e *Element) Click(ctx context.Context, timeout time.Duration) error {
	return e.ClickFn(ctx, timeout)
}
