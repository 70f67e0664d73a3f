package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/wxrport"
)

// Ensure LoggingExporter implements wxrport.Exporter.
var _ wxrport.Exporter = (*LoggingExporter)(nil)

// LoggingExporter wraps an Exporter with logging.
type LoggingExporter struct {
	next   wxrport.Exporter
	logger *slog.Logger
}

// NewLoggingExporter creates a new LoggingExporter.
func NewLoggingExporter(next wxrport.Exporter, logger *slog.Logger) *LoggingExporter {
	return &LoggingExporter{next: next, logger: logger}
}

// Export delegates to the wrapped exporter and logs the operation.
func (e *LoggingExporter) Export(ctx context.Context, export *wxrport.Export) (err error) {
	defer func(begin time.Time) {
		e.logger.Info("export",
			"exporter", e.next.Name(),
			"items", len(export.Items),
			"duration", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return e.next.Export(ctx, export)
}

// Name returns the wrapped exporter's name.
func (e *LoggingExporter) Name() string {
	return e.next.Name()
}
