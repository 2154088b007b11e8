// Package filesystem loads the deployment configuration from a local file.
package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/nathantilsley/changed-containers/api"
	"github.com/nathantilsley/changed-containers/internal/detect/domain"
)

// DefaultFileName is the configuration file looked up next to the executable.
const DefaultFileName = "deployment_config.json"

// Adapter implements ports.DeploymentConfigPort by reading a JSON (or YAML)
// file from disk.
type Adapter struct {
	path   string
	logger *slog.Logger
}

// New creates a new filesystem config adapter reading path.
func New(path string, logger *slog.Logger) *Adapter {
	return &Adapter{
		path:   path,
		logger: logger,
	}
}

// DefaultPath returns deployment_config.json in the directory of the
// running executable, symlinks resolved.
func DefaultPath() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Join(filepath.Dir(exe), DefaultFileName), nil
}

// Path returns the file the adapter reads.
func (a *Adapter) Path() string {
	return a.path
}

// LoadConfig reads and parses the configuration file. Files ending in .yaml
// or .yml are decoded as YAML, everything else as JSON.
func (a *Adapter) LoadConfig(_ context.Context) (domain.DeploymentConfig, error) {
	data, err := os.ReadFile(a.path)
	if err != nil {
		return domain.DeploymentConfig{}, fmt.Errorf("reading deployment config: %w", err)
	}

	var entries []json.RawMessage
	switch strings.ToLower(filepath.Ext(a.path)) {
	case ".yaml", ".yml":
		entries, err = decodeYAML(data)
	default:
		entries, err = decodeJSON(data)
	}
	if err != nil {
		return domain.DeploymentConfig{}, fmt.Errorf("parsing deployment config %s: %w", a.path, err)
	}

	cfg, err := domain.NewDeploymentConfig(entries)
	if err != nil {
		return domain.DeploymentConfig{}, fmt.Errorf("parsing deployment config %s: %w", a.path, err)
	}

	a.logger.Debug("read deployment config", "path", a.path, "containers", len(cfg.Containers))
	return cfg, nil
}

func decodeJSON(data []byte) ([]json.RawMessage, error) {
	var doc api.DeploymentConfig
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	// Absent and null both decode to a nil slice; [] decodes to an empty one.
	if doc.Containers == nil {
		return nil, domain.ErrMissingContainers
	}
	return doc.Containers, nil
}
