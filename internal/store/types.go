// Package store provides SQLite persistence for repoatlas scan snapshots.
package store

import "time"

// Snapshot represents one persisted scan of a repository root.
type Snapshot struct {
	ID          int64     `json:"id"`
	TakenAt     time.Time `json:"taken_at"`
	RootPath    string    `json:"root_path"`
	ProjectType string    `json:"project_type"`
	Version     string    `json:"version"`
}

// ModuleRow represents one discovered module within a snapshot. File
// lists are stored as counts; the full listings live only in the scan
// result, not the database.
type ModuleRow struct {
	ID           int64  `json:"id"`
	SnapshotID   int64  `json:"snapshot_id"`
	Path         string `json:"path"`
	Name         string `json:"name"`
	Type         string `json:"type"`
	DepCount     int    `json:"dep_count"`
	DevDepCount  int    `json:"dev_dep_count"`
	KeyFileCount int    `json:"key_file_count"`
	TestCount    int    `json:"test_count"`
	DocCount     int    `json:"doc_count"`
}

// ScanMetric represents a named metric value within a snapshot.
type ScanMetric struct {
	ID          int64   `json:"id"`
	SnapshotID  int64   `json:"snapshot_id"`
	MetricName  string  `json:"metric_name"`
	MetricValue float64 `json:"metric_value"`
	Detail      string  `json:"detail,omitempty"`
}

// RecommendationRow represents a persisted scan recommendation.
type RecommendationRow struct {
	ID          int64  `json:"id"`
	SnapshotID  int64  `json:"snapshot_id"`
	Type        string `json:"type"`
	Priority    string `json:"priority"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Path        string `json:"path,omitempty"`
	Action      string `json:"action,omitempty"`
	Status      string `json:"status"`
}

// SnapshotDiff represents the comparison between two snapshots of the
// same repository root.
type SnapshotDiff struct {
	Previous *Snapshot     `json:"previous"`
	Current  *Snapshot     `json:"current"`
	Deltas   []MetricDelta `json:"deltas"`
}

// MetricDelta represents the change in a single metric between snapshots.
type MetricDelta struct {
	Name      string  `json:"name"`
	Previous  float64 `json:"previous"`
	Current   float64 `json:"current"`
	Delta     float64 `json:"delta"`
	Direction string  `json:"direction"` // "improved", "regressed", "unchanged"
}
