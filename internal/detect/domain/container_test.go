package domain

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
)

func mustDescriptor(t *testing.T, raw string) ContainerDescriptor {
	t.Helper()
	c, err := NewContainerDescriptor(json.RawMessage(raw))
	if err != nil {
		t.Fatalf("NewContainerDescriptor(%s) failed: %v", raw, err)
	}
	return c
}

func TestNewContainerDescriptor(t *testing.T) {
	tests := []struct {
		name        string
		raw         string
		wantName    string
		wantPattern string
		wantString  string
		wantErr     error
		errContains string
	}{
		{
			name:        "name and pattern",
			raw:         `{"name": "api", "is_changed_regexp": "^src/api/"}`,
			wantName:    "api",
			wantPattern: "^src/api/",
			wantString:  `{"name":"api","is_changed_regexp":"^src/api/"}`,
		},
		{
			name:        "preserves field order and opaque metadata",
			raw:         `{"is_changed_regexp": "web/", "image": "registry/web", "name": "web", "replicas": 2}`,
			wantName:    "web",
			wantPattern: "web/",
			wantString:  `{"is_changed_regexp":"web/","image":"registry/web","name":"web","replicas":2}`,
		},
		{
			name:        "no name",
			raw:         `{"service": "worker", "is_changed_regexp": "worker/"}`,
			wantPattern: "worker/",
			wantString:  `{"service":"worker","is_changed_regexp":"worker/"}`,
		},
		{
			name:        "non-string name is ignored for the label",
			raw:         `{"name": 7, "is_changed_regexp": "x"}`,
			wantPattern: "x",
			wantString:  `{"name":7,"is_changed_regexp":"x"}`,
		},
		{
			name:    "missing pattern",
			raw:     `{"name": "api"}`,
			wantErr: ErrMissingPattern,
		},
		{
			name:        "pattern not a string",
			raw:         `{"name": "api", "is_changed_regexp": 42}`,
			errContains: "must be a string",
		},
		{
			name:        "entry is not an object",
			raw:         `"api"`,
			errContains: "must be an object",
		},
		{
			name:        "entry is null",
			raw:         `null`,
			errContains: "must be an object",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewContainerDescriptor(json.RawMessage(tt.raw))
			if tt.wantErr != nil || tt.errContains != "" {
				if err == nil {
					t.Fatalf("expected error, got descriptor %v", got)
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
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", got.Name, tt.wantName)
			}
			if got.IsChangedRegexp != tt.wantPattern {
				t.Errorf("IsChangedRegexp = %q, want %q", got.IsChangedRegexp, tt.wantPattern)
			}
			if got.String() != tt.wantString {
				t.Errorf("String() = %s, want %s", got.String(), tt.wantString)
			}
		})
	}
}

func TestContainerDescriptor_Label(t *testing.T) {
	named := mustDescriptor(t, `{"name": "api", "is_changed_regexp": "a"}`)
	if named.Label() != "api" {
		t.Errorf("Label() = %q, want %q", named.Label(), "api")
	}

	unnamed := mustDescriptor(t, `{"is_changed_regexp": "a"}`)
	if unnamed.Label() != `{"is_changed_regexp":"a"}` {
		t.Errorf("Label() = %q, want the descriptor JSON", unnamed.Label())
	}
}

func TestContainerDescriptor_IsChanged(t *testing.T) {
	tests := []struct {
		name    string
		pattern string
		files   []string
		want    bool
	}{
		{
			name:    "no match",
			pattern: "^src/api/",
			files:   []string{"src/web/index.html"},
			want:    false,
		},
		{
			name:    "match",
			pattern: "^src/api/",
			files:   []string{"src/api/handler.py", "README.md"},
			want:    true,
		},
		{
			name:    "several matches",
			pattern: "src/api/",
			files:   []string{"src/api/a.go", "src/api/b.go", "src/api/c.go"},
			want:    true,
		},
		{
			name:    "empty diff",
			pattern: "^src/api/",
			files:   []string{},
			want:    false,
		},
		{
			name:    "prefix match suffices",
			pattern: "src",
			files:   []string{"src/api/handler.go"},
			want:    true,
		},
		{
			name:    "anchored at the start without a caret",
			pattern: "api/",
			files:   []string{"src/api/handler.go"},
			want:    false,
		},
		{
			name:    "alternation stays anchored",
			pattern: "docs/|api/",
			files:   []string{"src/api/handler.go"},
			want:    false,
		},
		{
			name:    "alternation matches either branch at the start",
			pattern: "docs/|api/",
			files:   []string{"api/handler.go"},
			want:    true,
		},
		{
			name:    "multi-line flag does not unanchor",
			pattern: "(?m)^api/",
			files:   []string{"src/api/handler.go"},
			want:    false,
		},
		{
			name:    "case-insensitive flag",
			pattern: "(?i)SRC/",
			files:   []string{"src/api/handler.go"},
			want:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := ContainerDescriptor{Name: "test", IsChangedRegexp: tt.pattern}
			got, err := c.IsChanged(tt.files)
			if err != nil {
				t.Fatalf("IsChanged() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("IsChanged(%v) with %q = %v, want %v", tt.files, tt.pattern, got, tt.want)
			}
		})
	}
}

func TestContainerDescriptor_IsChanged_InvalidPattern(t *testing.T) {
	for _, pattern := range []string{"(", "a)|(b", "[z-a]"} {
		t.Run(pattern, func(t *testing.T) {
			c := ContainerDescriptor{Name: "broken", IsChangedRegexp: pattern}
			_, err := c.IsChanged([]string{"a"})
			var perr *PatternError
			if !errors.As(err, &perr) {
				t.Fatalf("expected *PatternError, got %v", err)
			}
			if perr.Container.Name != "broken" {
				t.Errorf("PatternError.Container.Name = %q, want %q", perr.Container.Name, "broken")
			}
			if !strings.Contains(err.Error(), "broken") {
				t.Errorf("error %q should name the container", err)
			}
		})
	}
}

func TestNewDeploymentConfig(t *testing.T) {
	entries := []json.RawMessage{
		json.RawMessage(`{"name": "api", "is_changed_regexp": "^src/api/"}`),
		json.RawMessage(`{"name": "web", "is_changed_regexp": "^src/web/"}`),
	}

	cfg, err := NewDeploymentConfig(entries)
	if err != nil {
		t.Fatalf("NewDeploymentConfig failed: %v", err)
	}
	if len(cfg.Containers) != 2 {
		t.Fatalf("got %d containers, want 2", len(cfg.Containers))
	}
	if cfg.Containers[0].Name != "api" || cfg.Containers[1].Name != "web" {
		t.Errorf("containers out of order: %v", cfg.Containers)
	}

	_, err = NewDeploymentConfig(append(entries, json.RawMessage(`{"name": "db"}`)))
	if !errors.Is(err, ErrMissingPattern) {
		t.Fatalf("expected ErrMissingPattern, got %v", err)
	}
	if !strings.Contains(err.Error(), "containers[2]") {
		t.Errorf("error %q should point at containers[2]", err)
	}
}
