package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

// SaveScan persists a completed scan result as a new snapshot and returns
// the snapshot ID. Everything is written in one transaction; a failure
// leaves the database unchanged.
func (db *DB) SaveScan(result *inventory.ProjectScanResult, version string) (int64, error) {
	tx, err := db.conn.Begin()
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.Exec(
		"INSERT INTO snapshots (taken_at, root_path, project_type, version) VALUES (?, ?, ?, ?)",
		time.Now().UTC().Format(time.RFC3339), result.RootPath, string(result.ProjectType), version,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting snapshot: %w", err)
	}
	snapshotID, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for _, mod := range result.Modules {
		if _, err := tx.Exec(
			`INSERT INTO modules
			(snapshot_id, path, name, type, dep_count, dev_dep_count,
			 key_file_count, test_count, doc_count)
			VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			snapshotID, mod.Path, mod.Name, string(mod.Type),
			len(mod.Dependencies), len(mod.DevDependencies),
			len(mod.KeyFiles), len(mod.TestFiles), len(mod.DocFiles),
		); err != nil {
			return 0, fmt.Errorf("inserting module %s: %w", mod.Path, err)
		}
	}

	stats := result.Statistics
	metrics := []struct {
		name  string
		value float64
	}{
		{"total_files", float64(stats.TotalFiles)},
		{"scanned_files", float64(stats.ScannedFiles)},
		{"ignored_files", float64(stats.IgnoredFiles)},
		{"modules_found", float64(stats.ModulesFound)},
		{"coverage", stats.Coverage},
		{"total_size", float64(stats.TotalSize)},
		{"duration_ms", float64(stats.Duration.Milliseconds())},
	}
	for _, m := range metrics {
		if _, err := tx.Exec(
			"INSERT INTO scan_metrics (snapshot_id, metric_name, metric_value) VALUES (?, ?, ?)",
			snapshotID, m.name, m.value,
		); err != nil {
			return 0, fmt.Errorf("inserting metric %s: %w", m.name, err)
		}
	}

	for _, rec := range result.Recommendations {
		if _, err := tx.Exec(
			`INSERT INTO recommendations
			(snapshot_id, type, priority, title, description, path, action, status)
			VALUES (?, ?, ?, ?, ?, ?, ?, 'open')`,
			snapshotID, string(rec.Type), string(rec.Priority),
			rec.Title, rec.Description, rec.Path, rec.Action,
		); err != nil {
			return 0, fmt.Errorf("inserting recommendation: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return snapshotID, nil
}

// GetLatestSnapshot returns the most recent snapshot for a root path, or
// nil if none exist. An empty root matches any snapshot.
func (db *DB) GetLatestSnapshot(rootPath string) (*Snapshot, error) {
	if rootPath == "" {
		row := db.conn.QueryRow(
			"SELECT id, taken_at, root_path, project_type, version FROM snapshots ORDER BY id DESC LIMIT 1")
		return scanSnapshot(row)
	}
	row := db.conn.QueryRow(
		"SELECT id, taken_at, root_path, project_type, version FROM snapshots WHERE root_path = ? ORDER BY id DESC LIMIT 1",
		rootPath,
	)
	return scanSnapshot(row)
}

// GetSnapshot returns a snapshot by ID.
func (db *DB) GetSnapshot(id int64) (*Snapshot, error) {
	row := db.conn.QueryRow(
		"SELECT id, taken_at, root_path, project_type, version FROM snapshots WHERE id = ?", id)
	return scanSnapshot(row)
}

// GetSnapshotN returns the Nth most recent snapshot for a root path
// (1 = latest, 2 = previous, etc.).
func (db *DB) GetSnapshotN(rootPath string, n int) (*Snapshot, error) {
	row := db.conn.QueryRow(
		"SELECT id, taken_at, root_path, project_type, version FROM snapshots WHERE root_path = ? ORDER BY id DESC LIMIT 1 OFFSET ?",
		rootPath, n-1,
	)
	return scanSnapshot(row)
}

// GetRecentSnapshots returns up to n most recent snapshots for a root
// path, newest first.
func (db *DB) GetRecentSnapshots(rootPath string, n int) ([]Snapshot, error) {
	rows, err := db.conn.Query(
		"SELECT id, taken_at, root_path, project_type, version FROM snapshots WHERE root_path = ? ORDER BY id DESC LIMIT ?",
		rootPath, n,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var snapshots []Snapshot
	for rows.Next() {
		var s Snapshot
		var takenAt string
		if err := rows.Scan(&s.ID, &takenAt, &s.RootPath, &s.ProjectType, &s.Version); err != nil {
			return nil, err
		}
		s.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
		snapshots = append(snapshots, s)
	}
	return snapshots, rows.Err()
}

func scanSnapshot(row *sql.Row) (*Snapshot, error) {
	var s Snapshot
	var takenAt string
	err := row.Scan(&s.ID, &takenAt, &s.RootPath, &s.ProjectType, &s.Version)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	s.TakenAt, _ = time.Parse(time.RFC3339, takenAt)
	return &s, nil
}

// GetModules returns all module rows for a snapshot.
func (db *DB) GetModules(snapshotID int64) ([]ModuleRow, error) {
	rows, err := db.conn.Query(
		`SELECT id, snapshot_id, path, name, type, dep_count, dev_dep_count,
		 key_file_count, test_count, doc_count
		 FROM modules WHERE snapshot_id = ? ORDER BY path`,
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var mods []ModuleRow
	for rows.Next() {
		var m ModuleRow
		if err := rows.Scan(
			&m.ID, &m.SnapshotID, &m.Path, &m.Name, &m.Type,
			&m.DepCount, &m.DevDepCount, &m.KeyFileCount, &m.TestCount, &m.DocCount,
		); err != nil {
			return nil, err
		}
		mods = append(mods, m)
	}
	return mods, rows.Err()
}

// GetScanMetrics returns all metrics for a snapshot.
func (db *DB) GetScanMetrics(snapshotID int64) ([]ScanMetric, error) {
	rows, err := db.conn.Query(
		"SELECT id, snapshot_id, metric_name, metric_value, detail FROM scan_metrics WHERE snapshot_id = ?",
		snapshotID,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var metrics []ScanMetric
	for rows.Next() {
		var m ScanMetric
		var detail sql.NullString
		if err := rows.Scan(&m.ID, &m.SnapshotID, &m.MetricName, &m.MetricValue, &detail); err != nil {
			return nil, err
		}
		m.Detail = detail.String
		metrics = append(metrics, m)
	}
	return metrics, rows.Err()
}

// GetOpenRecommendations returns all recommendations with status "open",
// most recent snapshots first.
func (db *DB) GetOpenRecommendations() ([]RecommendationRow, error) {
	rows, err := db.conn.Query(
		`SELECT id, snapshot_id, type, priority, title, description, path, action, status
		 FROM recommendations WHERE status = 'open' ORDER BY snapshot_id DESC, id`,
	)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	var recs []RecommendationRow
	for rows.Next() {
		var r RecommendationRow
		var path, action sql.NullString
		if err := rows.Scan(&r.ID, &r.SnapshotID, &r.Type, &r.Priority,
			&r.Title, &r.Description, &path, &action, &r.Status); err != nil {
			return nil, err
		}
		r.Path = path.String
		r.Action = action.String
		recs = append(recs, r)
	}
	return recs, rows.Err()
}

// ResolveRecommendation marks a recommendation as resolved.
func (db *DB) ResolveRecommendation(id int64) error {
	_, err := db.conn.Exec("UPDATE recommendations SET status = 'resolved' WHERE id = ?", id)
	return err
}
