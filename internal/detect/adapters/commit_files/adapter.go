// Package commitfiles lists changed files through the GitHub commits API,
// for runners that only have a shallow checkout.
package commitfiles

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/google/go-github/v68/github"

	"github.com/nathantilsley/changed-containers/internal/detect/domain"
)

// Adapter implements ports.ChangedFilesPort by asking GitHub for the files
// of a single commit, which GitHub compares against the commit's first parent.
type Adapter struct {
	client *github.Client
	owner  string
	repo   string
	sha    string
	logger *slog.Logger
}

// New creates a new commit files adapter for owner/repo at sha.
func New(client *github.Client, owner, repo, sha string, logger *slog.Logger) *Adapter {
	return &Adapter{
		client: client,
		owner:  owner,
		repo:   repo,
		sha:    sha,
		logger: logger,
	}
}

// GetChangedFiles returns the paths changed by the commit, in the order
// GitHub lists them.
func (a *Adapter) GetChangedFiles(ctx context.Context) ([]string, error) {
	files := []string{}
	opts := &github.ListOptions{PerPage: 100}

	for {
		commit, resp, err := a.client.Repositories.GetCommit(ctx, a.owner, a.repo, a.sha, opts)
		if err != nil {
			return nil, fmt.Errorf("getting commit %s of %s/%s: %w", a.sha, a.owner, a.repo, err)
		}
		if len(commit.Parents) == 0 {
			return nil, domain.ErrNoParentCommit
		}

		for _, f := range commit.Files {
			files = append(files, f.GetFilename())
		}

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}

	a.logger.Debug("listed changed files from github",
		"repo", a.owner+"/"+a.repo,
		"sha", a.sha,
		"count", len(files),
	)
	return files, nil
}
