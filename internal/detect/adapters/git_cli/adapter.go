// Package gitcli lists changed files by running git in a local working copy.
package gitcli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/nathantilsley/changed-containers/internal/detect/domain"
	"github.com/nathantilsley/changed-containers/internal/platform/gitrepo"
)

// Adapter implements ports.ChangedFilesPort with `git diff --name-only HEAD^ HEAD`.
type Adapter struct {
	repo   *gitrepo.GitRepo
	logger *slog.Logger
}

// New creates a new git CLI adapter.
func New(repo *gitrepo.GitRepo, logger *slog.Logger) *Adapter {
	return &Adapter{
		repo:   repo,
		logger: logger,
	}
}

// GetChangedFiles returns the paths changed by HEAD relative to its first
// parent, in git's output order.
func (a *Adapter) GetChangedFiles(ctx context.Context) ([]string, error) {
	hasParent, err := a.repo.HasParent(ctx)
	if err != nil {
		return nil, fmt.Errorf("inspecting %s: %w", a.repo.Path(), err)
	}
	if !hasParent {
		return nil, domain.ErrNoParentCommit
	}

	output, err := a.repo.DiffNames(ctx, "HEAD^", "HEAD")
	if err != nil {
		return nil, fmt.Errorf("diffing HEAD against its parent: %w", err)
	}

	files := domain.SplitLines(string(output))
	a.logger.Debug("listed changed files with git", "path", a.repo.Path(), "count", len(files))
	return files, nil
}
