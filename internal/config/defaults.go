package config

import "time"

// DefaultConfigDir is the default location for repoatlas configuration.
const DefaultConfigDir = "~/.config/repoatlas"

// DefaultDBName is the filename for the SQLite database.
const DefaultDBName = "repoatlas.db"

// DefaultConfigFile is the filename for the YAML config.
const DefaultConfigFile = "config.yaml"

// DefaultIgnorePriority is assigned to configured ignore rules that do not
// set one explicitly.
const DefaultIgnorePriority = 7

// DefaultLimits holds the default scan resource limits.
var DefaultLimits = Limits{
	MaxFiles:    100_000,
	MaxFileSize: 10 * 1024 * 1024,
	MaxDepth:    20,
	Timeout:     5 * time.Minute,
	MemoryLimit: 1 << 30,
}

// DefaultPhases is the default phase sequence.
var DefaultPhases = []string{"quick", "module", "deep"}

// DefaultOutput holds the default output preferences.
var DefaultOutput = Output{
	Color: true,
	Width: 80,
}
