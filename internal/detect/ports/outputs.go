package ports

import (
	"context"

	"github.com/nathantilsley/changed-containers/internal/detect/domain"
)

// ChangedFilesPort abstracts listing the paths that differ between HEAD and
// its first parent.
type ChangedFilesPort interface {
	GetChangedFiles(ctx context.Context) ([]string, error)
}

// DeploymentConfigPort abstracts loading the deployment configuration that
// declares the containers and their change patterns.
type DeploymentConfigPort interface {
	LoadConfig(ctx context.Context) (domain.DeploymentConfig, error)
}

// ReportingPort abstracts publishing the per-container results, in
// configuration order.
type ReportingPort interface {
	Report(ctx context.Context, results []domain.ContainerResult) error
}
