// Package logout reports change-detection results as log records.
package logout

import (
	"context"
	"log/slog"

	"github.com/nathantilsley/changed-containers/internal/detect/domain"
)

// Adapter implements ports.ReportingPort by writing one INFO record per
// container. The message keeps the "<changed>, <descriptor>" line shape that
// pipeline steps scrape; the same data is attached as attributes.
type Adapter struct {
	logger *slog.Logger
}

// New creates a new log reporting adapter.
func New(logger *slog.Logger) *Adapter {
	return &Adapter{logger: logger}
}

// Report logs results in the order given.
func (a *Adapter) Report(ctx context.Context, results []domain.ContainerResult) error {
	for _, r := range results {
		a.logger.InfoContext(ctx, r.String(),
			"changed", r.Changed,
			"container", r.Container.Label(),
		)
	}

	a.logger.DebugContext(ctx, "change detection complete",
		"containers", len(results),
		"changed_count", domain.CountChanged(results),
	)
	return nil
}
