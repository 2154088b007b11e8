package filesystem

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nathantilsley/changed-containers/internal/detect/domain"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestAdapter_LoadConfig(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		content     string
		wantStrings []string // String() of each container, in order
		wantErr     error
		errContains string
	}{
		{
			name: "json containers in order",
			file: "deployment_config.json",
			content: `{
				"containers": [
					{"name": "api", "is_changed_regexp": "^src/api/"},
					{"name": "web", "image": "registry/web", "is_changed_regexp": "^src/web/"}
				]
			}`,
			wantStrings: []string{
				`{"name":"api","is_changed_regexp":"^src/api/"}`,
				`{"name":"web","image":"registry/web","is_changed_regexp":"^src/web/"}`,
			},
		},
		{
			name:        "json empty container list",
			file:        "deployment_config.json",
			content:     `{"containers": []}`,
			wantStrings: []string{},
		},
		{
			name:    "json without containers",
			file:    "deployment_config.json",
			content: `{"services": []}`,
			wantErr: domain.ErrMissingContainers,
		},
		{
			name:    "json null containers",
			file:    "deployment_config.json",
			content: `{"containers": null}`,
			wantErr: domain.ErrMissingContainers,
		},
		{
			name:        "json containers not a list",
			file:        "deployment_config.json",
			content:     `{"containers": {"api": {}}}`,
			errContains: "invalid JSON",
		},
		{
			name:        "malformed json",
			file:        "deployment_config.json",
			content:     `{"containers": [`,
			errContains: "invalid JSON",
		},
		{
			name:    "json container without pattern",
			file:    "deployment_config.json",
			content: `{"containers": [{"name": "api"}]}`,
			wantErr: domain.ErrMissingPattern,
		},
		{
			name: "yaml keeps key order and types",
			file: "deployment_config.yaml",
			content: `containers:
  - is_changed_regexp: ^src/api/
    name: api
    replicas: 2
    tags: [backend, "python"]
  - name: web
    is_changed_regexp: '(?P<app>src/web)/'
`,
			wantStrings: []string{
				`{"is_changed_regexp":"^src/api/","name":"api","replicas":2,"tags":["backend","python"]}`,
				`{"name":"web","is_changed_regexp":"(?P<app>src/web)/"}`,
			},
		},
		{
			name: "yaml anchors",
			file: "deployment_config.yml",
			content: `defaults: &defaults
  team: platform
containers:
  - name: api
    is_changed_regexp: src/api/
    owner: *defaults
`,
			wantStrings: []string{
				`{"name":"api","is_changed_regexp":"src/api/","owner":{"team":"platform"}}`,
			},
		},
		{
			name:    "yaml without containers",
			file:    "deployment_config.yaml",
			content: "services: []\n",
			wantErr: domain.ErrMissingContainers,
		},
		{
			name:    "empty yaml",
			file:    "deployment_config.yaml",
			content: "",
			wantErr: domain.ErrMissingContainers,
		},
		{
			name:        "yaml top level not a mapping",
			file:        "deployment_config.yaml",
			content:     "- name: api\n",
			errContains: "top level must be a mapping",
		},
		{
			name:        "yaml containers not a sequence",
			file:        "deployment_config.yaml",
			content:     "containers: api\n",
			errContains: "containers must be a sequence",
		},
		{
			name:    "yaml container without pattern",
			file:    "deployment_config.yaml",
			content: "containers:\n  - name: api\n",
			wantErr: domain.ErrMissingPattern,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, tt.file, tt.content)
			cfg, err := New(path, testLogger()).LoadConfig(context.Background())

			if tt.wantErr != nil || tt.errContains != "" {
				if err == nil {
					t.Fatalf("expected error, got config %v", cfg)
				}
				if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
					t.Errorf("error = %v, want %v", err, tt.wantErr)
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error = %v, want it to contain %q", err, tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("LoadConfig failed: %v", err)
			}

			if len(cfg.Containers) != len(tt.wantStrings) {
				t.Fatalf("got %d containers, want %d", len(cfg.Containers), len(tt.wantStrings))
			}
			for i, c := range cfg.Containers {
				if c.String() != tt.wantStrings[i] {
					t.Errorf("container %d = %s, want %s", i, c.String(), tt.wantStrings[i])
				}
			}
		})
	}
}

func TestAdapter_MissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultFileName)

	_, err := New(path, testLogger()).LoadConfig(context.Background())
	if !errors.Is(err, fs.ErrNotExist) {
		t.Fatalf("expected fs.ErrNotExist, got %v", err)
	}
}

func TestDefaultPath(t *testing.T) {
	path, err := DefaultPath()
	if err != nil {
		t.Fatalf("DefaultPath failed: %v", err)
	}
	if filepath.Base(path) != DefaultFileName {
		t.Errorf("DefaultPath() = %q, want a %s file", path, DefaultFileName)
	}
	if !filepath.IsAbs(path) {
		t.Errorf("DefaultPath() = %q, want an absolute path", path)
	}
}
