package app

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/nathantilsley/changed-containers/internal/detect/domain"
	"github.com/nathantilsley/changed-containers/internal/detect/ports"
)

// DetectService implements ports.DetectUseCase: load the deployment config,
// list the files changed by the last commit, evaluate every container and
// report the results.
type DetectService struct {
	configSource ports.DeploymentConfigPort
	changedFiles ports.ChangedFilesPort
	reporter     ports.ReportingPort
	logger       *slog.Logger
	tracer       trace.Tracer

	evaluatedCounter metric.Int64Counter
	changedCounter   metric.Int64Counter
}

// NewDetectService creates a DetectService wired with all driven ports.
func NewDetectService(
	cs ports.DeploymentConfigPort,
	cf ports.ChangedFilesPort,
	rp ports.ReportingPort,
	logger *slog.Logger,
	meter metric.Meter,
	tracer trace.Tracer,
) (*DetectService, error) {
	evaluated, err := meter.Int64Counter(
		"changed_containers.evaluated",
		metric.WithDescription("Containers evaluated against the changed-file list"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating evaluated counter: %w", err)
	}
	changed, err := meter.Int64Counter(
		"changed_containers.changed",
		metric.WithDescription("Containers reported as changed"),
	)
	if err != nil {
		return nil, fmt.Errorf("creating changed counter: %w", err)
	}

	return &DetectService{
		configSource:     cs,
		changedFiles:     cf,
		reporter:         rp,
		logger:           logger,
		tracer:           tracer,
		evaluatedCounter: evaluated,
		changedCounter:   changed,
	}, nil
}

// Execute runs one detection pass. Any failure aborts the run before
// results are reported.
func (s *DetectService) Execute(ctx context.Context) (err error) {
	ctx, span := s.tracer.Start(ctx, "detect")
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	cfg, err := s.configSource.LoadConfig(ctx)
	if err != nil {
		return fmt.Errorf("loading deployment config: %w", err)
	}
	s.logger.Debug("loaded deployment config", "containers", len(cfg.Containers))

	files, err := s.changedFiles.GetChangedFiles(ctx)
	if err != nil {
		return fmt.Errorf("listing changed files: %w", err)
	}
	s.logger.Debug("found changed files", "count", len(files), "files", files)

	results, err := domain.Evaluate(cfg, files)
	if err != nil {
		return fmt.Errorf("evaluating containers: %w", err)
	}

	changed := domain.CountChanged(results)
	s.evaluatedCounter.Add(ctx, int64(len(results)))
	s.changedCounter.Add(ctx, int64(changed))
	span.SetAttributes(
		attribute.Int("containers.total", len(results)),
		attribute.Int("containers.changed", changed),
		attribute.Int("files.changed", len(files)),
	)

	if err := s.reporter.Report(ctx, results); err != nil {
		return fmt.Errorf("reporting results: %w", err)
	}
	return nil
}
