package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

func TestLoadDefaults(t *testing.T) {
	// Point the loader at an empty directory so no real config leaks in.
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Limits != DefaultLimits {
		t.Errorf("limits = %+v, want defaults %+v", cfg.Limits, DefaultLimits)
	}
	if len(cfg.Phases) != 3 || cfg.Phases[0] != "quick" {
		t.Errorf("phases = %v, want default sequence", cfg.Phases)
	}
	if !cfg.Output.Color || cfg.Output.Width != 80 {
		t.Errorf("output = %+v, want defaults", cfg.Output)
	}
	if len(cfg.Filters) != 0 || len(cfg.Ignore) != 0 {
		t.Errorf("expected no filters or ignore rules by default")
	}
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := `
limits:
  max_files: 500
  timeout: 30s
phases:
  - quick
filters:
  - name: source-only
    pattern: "**/*.go"
    action: include
    priority: 10
ignore:
  - pattern: "**/tmp/**"
    description: scratch space
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.Limits.MaxFiles != 500 {
		t.Errorf("max_files = %d, want 500", cfg.Limits.MaxFiles)
	}
	if cfg.Limits.Timeout != 30*time.Second {
		t.Errorf("timeout = %s, want 30s", cfg.Limits.Timeout)
	}
	// Unset limits keep their defaults.
	if cfg.Limits.MaxDepth != DefaultLimits.MaxDepth {
		t.Errorf("max_depth = %d, want default %d", cfg.Limits.MaxDepth, DefaultLimits.MaxDepth)
	}
	if len(cfg.Phases) != 1 || cfg.Phases[0] != "quick" {
		t.Errorf("phases = %v, want [quick]", cfg.Phases)
	}
	if len(cfg.Filters) != 1 || cfg.Filters[0].Name != "source-only" {
		t.Errorf("filters = %+v", cfg.Filters)
	}
	if len(cfg.Ignore) != 1 || cfg.Ignore[0].Pattern != "**/tmp/**" {
		t.Errorf("ignore = %+v", cfg.Ignore)
	}
}

func TestLoadRejectsInvalidConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "limits:\n  max_files: -1\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := Load(path); err == nil {
		t.Fatal("expected validation error for negative max_files")
	}
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{Limits: DefaultLimits}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}

	cases := []struct {
		name   string
		mutate func(*Config)
	}{
		{"zero max_files", func(c *Config) { c.Limits.MaxFiles = 0 }},
		{"negative max_file_size", func(c *Config) { c.Limits.MaxFileSize = -1 }},
		{"zero max_depth", func(c *Config) { c.Limits.MaxDepth = 0 }},
		{"zero timeout", func(c *Config) { c.Limits.Timeout = 0 }},
		{"zero memory_limit", func(c *Config) { c.Limits.MemoryLimit = 0 }},
		{"filter without name", func(c *Config) {
			c.Filters = []Filter{{Pattern: "*.go", Action: "include"}}
		}},
		{"filter without pattern", func(c *Config) {
			c.Filters = []Filter{{Name: "x", Action: "include"}}
		}},
		{"filter without action", func(c *Config) {
			c.Filters = []Filter{{Name: "x", Pattern: "*.go"}}
		}},
		{"filter with bad action", func(c *Config) {
			c.Filters = []Filter{{Name: "x", Pattern: "*.go", Action: "drop"}}
		}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := valid()
			tc.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestFileFilters(t *testing.T) {
	cfg := &Config{
		Filters: []Filter{
			{Name: "inc", Pattern: "**/*.go", Action: "include", Priority: 5},
			{Name: "exc", Pattern: "**/*.bak", Action: "exclude"},
		},
	}
	filters := cfg.FileFilters()
	if len(filters) != 2 {
		t.Fatalf("got %d filters, want 2", len(filters))
	}
	if filters[0].Action != inventory.ActionInclude || filters[0].Priority != 5 {
		t.Errorf("filters[0] = %+v", filters[0])
	}
	if filters[1].Action != inventory.ActionExclude {
		t.Errorf("filters[1] = %+v", filters[1])
	}
}

func TestIgnoreRulesDefaultPriority(t *testing.T) {
	cfg := &Config{
		Ignore: []IgnoreRule{
			{Pattern: "**/tmp/**"},
			{Pattern: "**/cache/**", Priority: 3},
		},
	}
	rules := cfg.IgnoreRules()
	if rules[0].Priority != DefaultIgnorePriority {
		t.Errorf("unset priority = %d, want %d", rules[0].Priority, DefaultIgnorePriority)
	}
	if rules[1].Priority != 3 {
		t.Errorf("explicit priority = %d, want 3", rules[1].Priority)
	}
}

func TestScanPhases(t *testing.T) {
	cfg := &Config{Phases: []string{"quick", "deep"}}
	phases := cfg.ScanPhases()
	if len(phases) != 2 || phases[0] != inventory.PhaseQuick || phases[1] != inventory.PhaseDeep {
		t.Errorf("phases = %v", phases)
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	if got := expandPath("~/x/y"); got != filepath.Join(home, "x", "y") {
		t.Errorf("expandPath(~/x/y) = %s", got)
	}
	if got := expandPath("/abs/path"); got != "/abs/path" {
		t.Errorf("expandPath(/abs/path) = %s", got)
	}
}
