// Package main provides the changed-containers CLI, which reports which
// deployment containers are affected by the files changed in HEAD.
package main

import (
	"fmt"
	"log/slog"

	gogithub "github.com/google/go-github/v68/github"

	commitfiles "github.com/nathantilsley/changed-containers/internal/detect/adapters/commit_files"
	"github.com/nathantilsley/changed-containers/internal/detect/adapters/deployment_config/filesystem"
	gitcli "github.com/nathantilsley/changed-containers/internal/detect/adapters/git_cli"
	gogit "github.com/nathantilsley/changed-containers/internal/detect/adapters/go_git"
	logout "github.com/nathantilsley/changed-containers/internal/detect/adapters/log_out"
	"github.com/nathantilsley/changed-containers/internal/detect/app"
	"github.com/nathantilsley/changed-containers/internal/detect/ports"
	"github.com/nathantilsley/changed-containers/internal/platform/config"
	ghclient "github.com/nathantilsley/changed-containers/internal/platform/github"
	"github.com/nathantilsley/changed-containers/internal/platform/gitrepo"
	"github.com/nathantilsley/changed-containers/internal/platform/telemetry"
)

// Container holds all application dependencies.
type Container struct {
	Config        config.Config
	Logger        *slog.Logger
	ConfigPath    string
	DetectService ports.DetectUseCase
}

// NewContainer builds and wires all dependencies.
func NewContainer(cfg config.Config, log *slog.Logger, tel *telemetry.Telemetry) (*Container, error) {
	configPath := cfg.DeploymentConfigPath
	if configPath == "" {
		p, err := filesystem.DefaultPath()
		if err != nil {
			return nil, fmt.Errorf("locating deployment config: %w", err)
		}
		configPath = p
	}

	changedFiles, err := newChangedFilesSource(cfg, log)
	if err != nil {
		return nil, err
	}

	detectService, err := app.NewDetectService(
		filesystem.New(configPath, log),
		changedFiles,
		logout.New(log),
		log,
		tel.Meter,
		tel.Tracer,
	)
	if err != nil {
		return nil, fmt.Errorf("creating detect service: %w", err)
	}

	return &Container{
		Config:        cfg,
		Logger:        log,
		ConfigPath:    configPath,
		DetectService: detectService,
	}, nil
}

func newChangedFilesSource(cfg config.Config, log *slog.Logger) (ports.ChangedFilesPort, error) {
	switch cfg.ChangedFilesSource {
	case config.SourceGit:
		return gitcli.New(gitrepo.New(cfg.RepoPath, log), log), nil
	case config.SourceGoGit:
		return gogit.New(cfg.RepoPath, log), nil
	case config.SourceGitHub:
		owner, repo, err := cfg.GitHubOwnerRepo()
		if err != nil {
			return nil, err
		}
		var client *gogithub.Client
		if cfg.UsesGitHubApp() {
			log.Debug("using github app credentials", "appID", cfg.GitHubAppID)
			client, err = ghclient.NewAppClient(cfg.GitHubAppID, cfg.GitHubInstallationID, cfg.GitHubPrivateKey, cfg.GitHubAPIURL)
		} else {
			client, err = ghclient.NewTokenClient(cfg.GitHubToken, cfg.GitHubAPIURL)
		}
		if err != nil {
			return nil, fmt.Errorf("creating github client: %w", err)
		}
		return commitfiles.New(client, owner, repo, cfg.GitHubSHA, log), nil
	default:
		return nil, fmt.Errorf("unknown changed files source %q", cfg.ChangedFilesSource)
	}
}
