package store

import "fmt"

// higherIsBetter classifies metrics for delta direction. Metrics absent
// from the map are reported as unchanged direction-wise regardless of
// delta sign; their movement is informational only.
var higherIsBetter = map[string]bool{
	"coverage":      true,
	"scanned_files": true,
	"modules_found": true,
	"duration_ms":   false,
	"ignored_files": false,
}

// Diff compares two snapshots of the same root and returns per-metric
// deltas. Metrics present in only one snapshot are skipped.
func (db *DB) Diff(previousID, currentID int64) (*SnapshotDiff, error) {
	prev, err := db.GetSnapshot(previousID)
	if err != nil {
		return nil, err
	}
	cur, err := db.GetSnapshot(currentID)
	if err != nil {
		return nil, err
	}
	if prev == nil || cur == nil {
		return nil, fmt.Errorf("snapshot not found: previous=%d current=%d", previousID, currentID)
	}

	prevMetrics, err := db.GetScanMetrics(previousID)
	if err != nil {
		return nil, err
	}
	curMetrics, err := db.GetScanMetrics(currentID)
	if err != nil {
		return nil, err
	}

	prevByName := make(map[string]float64, len(prevMetrics))
	for _, m := range prevMetrics {
		prevByName[m.MetricName] = m.MetricValue
	}

	diff := &SnapshotDiff{Previous: prev, Current: cur}
	for _, m := range curMetrics {
		pv, ok := prevByName[m.MetricName]
		if !ok {
			continue
		}
		delta := m.MetricValue - pv
		diff.Deltas = append(diff.Deltas, MetricDelta{
			Name:      m.MetricName,
			Previous:  pv,
			Current:   m.MetricValue,
			Delta:     delta,
			Direction: direction(m.MetricName, delta),
		})
	}
	return diff, nil
}

func direction(name string, delta float64) string {
	if delta == 0 {
		return "unchanged"
	}
	better, ok := higherIsBetter[name]
	if !ok {
		return "unchanged"
	}
	if (delta > 0) == better {
		return "improved"
	}
	return "regressed"
}
