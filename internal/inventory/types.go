// Package inventory defines the data model shared by the scan pipeline:
// project types, file and module metadata, phase records, statistics, and
// the recommendations derived from a completed scan.
package inventory

import "time"

// ProjectType classifies a directory into a supported ecosystem.
type ProjectType string

// Supported project types. Unknown means no detector matched.
const (
	TypeJavaScript ProjectType = "javascript"
	TypeTypeScript ProjectType = "typescript"
	TypePython     ProjectType = "python"
	TypeGo         ProjectType = "go"
	TypeRust       ProjectType = "rust"
	TypeJava       ProjectType = "java"
	TypeCSharp     ProjectType = "csharp"
	TypePHP        ProjectType = "php"
	TypeRuby       ProjectType = "ruby"
	TypeUnknown    ProjectType = "unknown"
)

// ScanPhase identifies one stage of the scan pipeline.
type ScanPhase string

// Scan phases in their default execution order.
const (
	PhaseQuick  ScanPhase = "quick"
	PhaseModule ScanPhase = "module"
	PhaseDeep   ScanPhase = "deep"
)

// DefaultPhases is the default phase sequence for a full scan.
var DefaultPhases = []ScanPhase{PhaseQuick, PhaseModule, PhaseDeep}

// PhaseStatus is the lifecycle state of a phase record.
type PhaseStatus string

// Phase record states. A record transitions from running to exactly one of
// completed or failed and is never reused.
const (
	StatusPending   PhaseStatus = "pending"
	StatusRunning   PhaseStatus = "running"
	StatusCompleted PhaseStatus = "completed"
	StatusFailed    PhaseStatus = "failed"
	StatusSkipped   PhaseStatus = "skipped"
)

// FileInfo is an immutable snapshot of one enumerated filesystem entry,
// taken at enumeration time and never re-validated mid-scan.
type FileInfo struct {
	// Path is the absolute path to the entry.
	Path string `json:"path"`

	// Name is the base name of the entry.
	Name string `json:"name"`

	// Ext is the lowercased extension including the dot; empty for
	// directories and extension-less files.
	Ext string `json:"ext,omitempty"`

	// Size is the entry size in bytes (0 for directories).
	Size int64 `json:"size"`

	// IsDir reports whether the entry is a directory.
	IsDir bool `json:"is_dir"`

	// ModTime is the last-modified timestamp at enumeration time.
	ModTime time.Time `json:"mod_time"`

	// RelPath is the path relative to the scan root, with forward slashes.
	RelPath string `json:"rel_path"`
}

// DependencyKind distinguishes production, development, peer, and optional
// dependencies.
type DependencyKind string

// Dependency kinds.
const (
	KindProduction  DependencyKind = "production"
	KindDevelopment DependencyKind = "development"
	KindPeer        DependencyKind = "peer"
	KindOptional    DependencyKind = "optional"
)

// Dependency is one declared dependency of a module.
type Dependency struct {
	Name    string         `json:"name"`
	Version string         `json:"version,omitempty"`
	Kind    DependencyKind `json:"kind"`
}

// ModuleMetadata carries the descriptive fields extracted from a module
// manifest. All fields are optional; extraction degrades gracefully.
type ModuleMetadata struct {
	Description string            `json:"description,omitempty"`
	Author      string            `json:"author,omitempty"`
	License     string            `json:"license,omitempty"`
	Repository  string            `json:"repository,omitempty"`
	Keywords    []string          `json:"keywords,omitempty"`
	Scripts     map[string]string `json:"scripts,omitempty"`
	Engines     map[string]string `json:"engines,omitempty"`
}

// ModuleInfo describes one discovered module. Path is always a directory
// some detector matched, and Type is never TypeUnknown.
type ModuleInfo struct {
	// Path is the absolute path to the module root.
	Path string `json:"path"`

	// Name comes from the manifest when available, otherwise the
	// directory name.
	Name string `json:"name"`

	// Type is the ecosystem classification of the module.
	Type ProjectType `json:"type"`

	// EntryPoints lists candidate entry files in preference order.
	EntryPoints []string `json:"entry_points,omitempty"`

	// Dependencies and DevDependencies are the declared dependency sets.
	Dependencies    []Dependency `json:"dependencies,omitempty"`
	DevDependencies []Dependency `json:"dev_dependencies,omitempty"`

	// KeyFiles, TestFiles, ConfigFiles, and DocFiles are filled by the
	// deep phase; the quick phase leaves them empty.
	KeyFiles    []string `json:"key_files,omitempty"`
	TestFiles   []string `json:"test_files,omitempty"`
	ConfigFiles []string `json:"config_files,omitempty"`
	DocFiles    []string `json:"doc_files,omitempty"`

	Metadata ModuleMetadata `json:"metadata,omitempty"`
}

// IgnoreRule unconditionally removes matching paths from the scanned set.
// Higher priority rules are evaluated first; any match is sufficient.
type IgnoreRule struct {
	Pattern     string `json:"pattern"`
	Description string `json:"description"`
	Priority    int    `json:"priority"`
	Global      bool   `json:"global,omitempty"`
}

// FilterAction is the action a file filter applies to matching paths.
type FilterAction string

// Filter actions. Anything else fails config validation.
const (
	ActionInclude FilterAction = "include"
	ActionExclude FilterAction = "exclude"
)

// FileFilter is a pattern-based include/exclude rule consulted only after
// no ignore rule has excluded the path.
type FileFilter struct {
	Name     string       `json:"name"`
	Pattern  string       `json:"pattern"`
	Action   FilterAction `json:"action"`
	Priority int          `json:"priority"`
}

// ScanStatistics aggregates counts across the whole scan.
type ScanStatistics struct {
	TotalFiles   int           `json:"total_files"`
	ScannedFiles int           `json:"scanned_files"`
	IgnoredFiles int           `json:"ignored_files"`
	ModulesFound int           `json:"modules_found"`
	Duration     time.Duration `json:"duration"`
	TotalSize    int64         `json:"total_size"`

	// Coverage is scanned/total as a percentage, 0 when no files were
	// enumerated.
	Coverage float64 `json:"coverage"`
}

// ComputeCoverage recomputes the coverage percentage from the current counts.
func (s *ScanStatistics) ComputeCoverage() {
	if s.TotalFiles == 0 {
		s.Coverage = 0
		return
	}
	s.Coverage = 100 * float64(s.ScannedFiles) / float64(s.TotalFiles)
}

// PhaseRecord captures the telemetry of one phase execution.
type PhaseRecord struct {
	Phase          ScanPhase     `json:"phase"`
	StartTime      time.Time     `json:"start_time"`
	EndTime        time.Time     `json:"end_time"`
	Duration       time.Duration `json:"duration"`
	FilesProcessed int           `json:"files_processed"`
	Status         PhaseStatus   `json:"status"`
	Error          string        `json:"error,omitempty"`
}

// RecommendationType categorizes a recommendation.
type RecommendationType string

// Recommendation types.
const (
	RecScanDeeper   RecommendationType = "scan-deeper"
	RecAddConfig    RecommendationType = "add-config"
	RecFixStructure RecommendationType = "fix-structure"
	RecAddDocs      RecommendationType = "add-docs"
	RecOptimize     RecommendationType = "optimize"
)

// Priority levels for recommendations.
type Priority string

// Recommendation priorities.
const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// Recommendation is one actionable suggestion derived from scan results.
type Recommendation struct {
	Type        RecommendationType `json:"type"`
	Priority    Priority           `json:"priority"`
	Title       string             `json:"title"`
	Description string             `json:"description"`
	Path        string             `json:"path,omitempty"`
	Action      string             `json:"action,omitempty"`
}

// ProjectScanResult is the root aggregate produced by one scan invocation.
// It is owned exclusively by the orchestrator for the duration of the scan
// and is not safe for concurrent mutation from multiple scans.
type ProjectScanResult struct {
	RootPath        string           `json:"root_path"`
	ProjectType     ProjectType      `json:"project_type"`
	Modules         []ModuleInfo     `json:"modules"`
	Phases          []PhaseRecord    `json:"phases"`
	Statistics      ScanStatistics   `json:"statistics"`
	Recommendations []Recommendation `json:"recommendations"`

	// Files is the full enumeration snapshot from the quick phase; later
	// phases read it instead of re-walking the tree.
	Files []FileInfo `json:"-"`
}

// Progress is one typed progress event pushed to the caller-supplied
// callback during a scan.
type Progress struct {
	Phase   ScanPhase `json:"phase"`
	Current int       `json:"current"`
	Total   int       `json:"total"`
	Message string    `json:"message,omitempty"`
}

// ProgressFunc receives progress events. Implementations must be fast;
// the scan invokes it inline.
type ProgressFunc func(p Progress)
