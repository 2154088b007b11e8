// Package config provides application configuration from environment variables.
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Changed-file sources selectable with CHANGED_FILES_SOURCE.
const (
	SourceGit    = "git"    // git CLI in REPO_PATH
	SourceGoGit  = "gogit"  // in-process diff with go-git
	SourceGitHub = "github" // GitHub commits API
)

// Config holds the application configuration loaded from environment variables.
type Config struct {
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Empty means deployment_config.json next to the executable.
	DeploymentConfigPath string `envconfig:"DEPLOYMENT_CONFIG_PATH"`

	ChangedFilesSource string `envconfig:"CHANGED_FILES_SOURCE" default:"git"`
	RepoPath           string `envconfig:"REPO_PATH" default:"."`

	// GitHub source (optional)
	GitHubRepository     string `envconfig:"GITHUB_REPOSITORY"` // owner/repo
	GitHubSHA            string `envconfig:"GITHUB_SHA"`
	GitHubToken          string `envconfig:"GITHUB_TOKEN"`
	GitHubAppID          int64  `envconfig:"GITHUB_APP_ID"`
	GitHubInstallationID int64  `envconfig:"GITHUB_INSTALLATION_ID"`
	GitHubPrivateKey     string `envconfig:"GITHUB_PRIVATE_KEY"` // PEM file contents
	GitHubAPIURL         string `envconfig:"GITHUB_API_URL"`

	// OpenTelemetry (optional)
	OTelEnabled bool `envconfig:"OTEL_ENABLED" default:"false"`
}

// Load reads configuration from environment variables, applies defaults and
// validates the selected changed-file source.
func Load() (Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}

	cfg.ChangedFilesSource = strings.ToLower(cfg.ChangedFilesSource)
	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) validate() error {
	switch c.ChangedFilesSource {
	case SourceGit, SourceGoGit:
		return nil
	case SourceGitHub:
		return c.validateGitHub()
	default:
		return fmt.Errorf("invalid CHANGED_FILES_SOURCE %q: want %s, %s or %s",
			c.ChangedFilesSource, SourceGit, SourceGoGit, SourceGitHub)
	}
}

func (c Config) validateGitHub() error {
	if _, _, err := c.GitHubOwnerRepo(); err != nil {
		return err
	}
	if c.GitHubSHA == "" {
		return errors.New("GITHUB_SHA is required for the github source")
	}
	if c.GitHubToken == "" && !c.UsesGitHubApp() {
		return errors.New("GITHUB_TOKEN or GITHUB_APP_ID, GITHUB_INSTALLATION_ID and GITHUB_PRIVATE_KEY are required for the github source")
	}
	return nil
}

// UsesGitHubApp reports whether GitHub App installation credentials are set.
func (c Config) UsesGitHubApp() bool {
	return c.GitHubAppID != 0 && c.GitHubInstallationID != 0 && c.GitHubPrivateKey != ""
}

// GitHubOwnerRepo splits GITHUB_REPOSITORY into owner and repository name.
func (c Config) GitHubOwnerRepo() (string, string, error) {
	owner, repo, ok := strings.Cut(c.GitHubRepository, "/")
	if !ok || owner == "" || repo == "" || strings.Contains(repo, "/") {
		return "", "", fmt.Errorf("invalid GITHUB_REPOSITORY %q: want owner/repo", c.GitHubRepository)
	}
	return owner, repo, nil
}
