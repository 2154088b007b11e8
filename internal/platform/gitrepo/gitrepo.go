// Package gitrepo runs read-only git commands against a local working copy.
package gitrepo

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
)

// GitRepo is a local working copy driven through the git CLI.
type GitRepo struct {
	path   string
	logger *slog.Logger
}

// New creates a GitRepo for the working copy at path. No I/O is performed.
func New(path string, logger *slog.Logger) *GitRepo {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(os.Stderr, nil))
	}
	return &GitRepo{
		path:   path,
		logger: logger,
	}
}

// Path returns the local filesystem path of the working copy.
func (r *GitRepo) Path() string {
	return r.path
}

// HasParent reports whether HEAD has a first parent. It fails when HEAD
// itself cannot be resolved (not a repository, no commits, git missing).
func (r *GitRepo) HasParent(ctx context.Context) (bool, error) {
	if _, err := r.run(ctx, "rev-parse", "--verify", "--quiet", "HEAD^{commit}"); err != nil {
		return false, fmt.Errorf("resolving HEAD: %w", err)
	}

	_, err := r.run(ctx, "rev-parse", "--verify", "--quiet", "HEAD^1^{commit}")
	if err == nil {
		return true, nil
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return false, nil
	}
	return false, err
}

// DiffNames returns the raw `git diff --name-only from to` output.
func (r *GitRepo) DiffNames(ctx context.Context, from, to string) ([]byte, error) {
	return r.run(ctx, "diff", "--name-only", from, to)
}

// run executes git in the working copy and returns stdout. Paths are not
// quoted so non-ASCII file names come back verbatim.
func (r *GitRepo) run(ctx context.Context, args ...string) ([]byte, error) {
	full := append([]string{"-C", r.path, "-c", "core.quotepath=off"}, args...)
	r.logger.Debug("running git", "args", strings.Join(args, " "), "path", r.path)

	//nolint:gosec // G204: arguments are fixed by this package, path is from trusted config
	cmd := exec.CommandContext(ctx, "git", full...)
	var stderr bytes.Buffer
	cmd.Stderr = &stderr

	output, err := cmd.Output()
	if err != nil {
		return nil, fmt.Errorf("git %s failed: %w\noutput: %s",
			strings.Join(args, " "), err, bytes.TrimSpace(stderr.Bytes()))
	}
	return output, nil
}
