// Package config provides configuration loading and defaults for repoatlas.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

// Config is the top-level repoatlas configuration.
type Config struct {
	Limits  Limits       `mapstructure:"limits"`
	Filters []Filter     `mapstructure:"filters"`
	Ignore  []IgnoreRule `mapstructure:"ignore"`
	Phases  []string     `mapstructure:"phases"`
	Output  Output       `mapstructure:"output"`
}

// Limits defines the hard performance limits enforced during a scan.
type Limits struct {
	MaxFiles    int           `mapstructure:"max_files"`
	MaxFileSize int64         `mapstructure:"max_file_size"`
	MaxDepth    int           `mapstructure:"max_depth"`
	Timeout     time.Duration `mapstructure:"timeout"`
	MemoryLimit int64         `mapstructure:"memory_limit"`
}

// Filter is a user-configured include/exclude pattern.
type Filter struct {
	Name     string `mapstructure:"name"`
	Pattern  string `mapstructure:"pattern"`
	Action   string `mapstructure:"action"`
	Priority int    `mapstructure:"priority"`
}

// IgnoreRule is a user-configured ignore pattern layered on top of the
// built-in rule set.
type IgnoreRule struct {
	Pattern     string `mapstructure:"pattern"`
	Description string `mapstructure:"description"`
	Priority    int    `mapstructure:"priority"`
}

// Output defines output preferences.
type Output struct {
	Color bool `mapstructure:"color"`
	Width int  `mapstructure:"width"`
}

// expandPath replaces a leading ~ with the user's home directory.
func expandPath(path string) string {
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}

// Load reads configuration from the given path (or the default location)
// and returns a Config with all defaults applied.
func Load(cfgFile string) (*Config, error) {
	v := viper.New()

	// Set defaults.
	v.SetDefault("limits.max_files", DefaultLimits.MaxFiles)
	v.SetDefault("limits.max_file_size", DefaultLimits.MaxFileSize)
	v.SetDefault("limits.max_depth", DefaultLimits.MaxDepth)
	v.SetDefault("limits.timeout", DefaultLimits.Timeout)
	v.SetDefault("limits.memory_limit", DefaultLimits.MemoryLimit)
	v.SetDefault("phases", DefaultPhases)
	v.SetDefault("output.color", DefaultOutput.Color)
	v.SetDefault("output.width", DefaultOutput.Width)

	if cfgFile != "" {
		v.SetConfigFile(expandPath(cfgFile))
	} else {
		configDir := expandPath(DefaultConfigDir)
		v.AddConfigPath(configDir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	// Read config file if it exists; missing file is not an error.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			if !os.IsNotExist(err) {
				return nil, err
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// Validate checks the configuration shape. The core never parses config
// file formats beyond this: limits must be positive, filters must carry
// name, pattern, and a recognized action.
func (c *Config) Validate() error {
	if c.Limits.MaxFiles <= 0 {
		return fmt.Errorf("limits.max_files must be positive, got %d", c.Limits.MaxFiles)
	}
	if c.Limits.MaxFileSize <= 0 {
		return fmt.Errorf("limits.max_file_size must be positive, got %d", c.Limits.MaxFileSize)
	}
	if c.Limits.MaxDepth <= 0 {
		return fmt.Errorf("limits.max_depth must be positive, got %d", c.Limits.MaxDepth)
	}
	if c.Limits.Timeout <= 0 {
		return fmt.Errorf("limits.timeout must be positive, got %s", c.Limits.Timeout)
	}
	if c.Limits.MemoryLimit <= 0 {
		return fmt.Errorf("limits.memory_limit must be positive, got %d", c.Limits.MemoryLimit)
	}

	for i, f := range c.Filters {
		if f.Name == "" {
			return fmt.Errorf("filters[%d]: name is required", i)
		}
		if f.Pattern == "" {
			return fmt.Errorf("filters[%d] (%s): pattern is required", i, f.Name)
		}
		switch inventory.FilterAction(f.Action) {
		case inventory.ActionInclude, inventory.ActionExclude:
		case "":
			return fmt.Errorf("filters[%d] (%s): action is required", i, f.Name)
		default:
			return fmt.Errorf("filters[%d] (%s): action must be %q or %q, got %q",
				i, f.Name, inventory.ActionInclude, inventory.ActionExclude, f.Action)
		}
	}
	return nil
}

// FileFilters converts the configured filters to the shared form.
func (c *Config) FileFilters() []inventory.FileFilter {
	filters := make([]inventory.FileFilter, 0, len(c.Filters))
	for _, f := range c.Filters {
		filters = append(filters, inventory.FileFilter{
			Name:     f.Name,
			Pattern:  f.Pattern,
			Action:   inventory.FilterAction(f.Action),
			Priority: f.Priority,
		})
	}
	return filters
}

// IgnoreRules converts the configured ignore patterns to the shared form.
// Rules without an explicit priority get the configured-rule default.
func (c *Config) IgnoreRules() []inventory.IgnoreRule {
	rules := make([]inventory.IgnoreRule, 0, len(c.Ignore))
	for _, r := range c.Ignore {
		priority := r.Priority
		if priority == 0 {
			priority = DefaultIgnorePriority
		}
		rules = append(rules, inventory.IgnoreRule{
			Pattern:     r.Pattern,
			Description: r.Description,
			Priority:    priority,
		})
	}
	return rules
}

// ScanPhases converts the configured phase names to the shared form.
func (c *Config) ScanPhases() []inventory.ScanPhase {
	phases := make([]inventory.ScanPhase, 0, len(c.Phases))
	for _, p := range c.Phases {
		phases = append(phases, inventory.ScanPhase(p))
	}
	return phases
}

// DBPath returns the full path to the SQLite database.
func DBPath() string {
	return filepath.Join(expandPath(DefaultConfigDir), DefaultDBName)
}

// ConfigDir returns the expanded configuration directory.
func ConfigDir() string {
	return expandPath(DefaultConfigDir)
}
