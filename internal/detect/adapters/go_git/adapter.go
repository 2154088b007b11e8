// Package gogit lists changed files by diffing commit trees in-process with go-git.
package gogit

import (
	"context"
	"fmt"
	"log/slog"
	"slices"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing/object"

	"github.com/nathantilsley/changed-containers/internal/detect/domain"
)

// diffTreeOptions detects renames at git diff's default similarity of 50%,
// below go-git's own default of 60.
var diffTreeOptions = &object.DiffTreeOptions{
	DetectRenames: true,
	RenameScore:   50,
}

// Adapter implements ports.ChangedFilesPort without a git binary. It is the
// in-process equivalent of `git diff --name-only HEAD^ HEAD`, renames
// included.
type Adapter struct {
	path   string
	logger *slog.Logger
}

// New creates a new go-git adapter for the repository containing path.
func New(path string, logger *slog.Logger) *Adapter {
	return &Adapter{
		path:   path,
		logger: logger,
	}
}

// GetChangedFiles returns the paths changed by HEAD relative to its first
// parent, sorted. Renamed files are reported under their new path and
// deleted files under their old one.
func (a *Adapter) GetChangedFiles(ctx context.Context) ([]string, error) {
	repo, err := git.PlainOpenWithOptions(a.path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("opening repository %s: %w", a.path, err)
	}

	head, err := repo.Head()
	if err != nil {
		return nil, fmt.Errorf("resolving HEAD: %w", err)
	}
	commit, err := repo.CommitObject(head.Hash())
	if err != nil {
		return nil, fmt.Errorf("reading HEAD commit %s: %w", head.Hash(), err)
	}
	if commit.NumParents() == 0 {
		return nil, domain.ErrNoParentCommit
	}
	parent, err := commit.Parent(0)
	if err != nil {
		return nil, fmt.Errorf("reading parent of %s: %w", commit.Hash, err)
	}

	parentTree, err := parent.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading tree of %s: %w", parent.Hash, err)
	}
	headTree, err := commit.Tree()
	if err != nil {
		return nil, fmt.Errorf("reading tree of %s: %w", commit.Hash, err)
	}

	changes, err := object.DiffTreeWithOptions(ctx, parentTree, headTree, diffTreeOptions)
	if err != nil {
		return nil, fmt.Errorf("diffing %s against %s: %w", commit.Hash, parent.Hash, err)
	}

	files := make([]string, 0, len(changes))
	for _, change := range changes {
		files = append(files, changedPath(change))
	}
	slices.Sort(files)

	a.logger.Debug("listed changed files with go-git",
		"head", commit.Hash.String(),
		"parent", parent.Hash.String(),
		"count", len(files),
	)
	return files, nil
}

// changedPath is the path a change is reported under: the destination,
// or the source for deletions.
func changedPath(c *object.Change) string {
	if c.To.Name != "" {
		return c.To.Name
	}
	return c.From.Name
}
