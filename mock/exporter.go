package mock

import (
	"context"

	"github.com/fwojciec/wxrport"
)

var _ wxrport.Exporter = (*Exporter)(nil)

// Exporter is a mock implementation of wxrport.Exporter.
type Exporter struct {
	ExportFn func(ctx context.Context, export *wxrport.Export) error
	NameFn   func() string
}

func (e *Exporter) Export(ctx context.Context, export *wxrport.Export) error {
	return e.ExportFn(ctx, export)
}

func (e *Exporter) Name() string {
	return e.NameFn()
}
