package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/repoatlas/internal/config"
	"github.com/blackwell-systems/repoatlas/internal/output"
	"github.com/blackwell-systems/repoatlas/internal/store"
)

var (
	trackCompare int
	trackHistory int
	trackJSON    bool
)

var trackCmd = &cobra.Command{
	Use:   "track [path]",
	Short: "Snapshot scan metrics and compare over time",
	Long: `Run a full scan, store a new snapshot, and compare against the most
recent previous snapshot of the same root to show deltas with trend
arrows. Defaults to the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runTrack,
}

func init() {
	trackCmd.Flags().IntVar(&trackCompare, "compare", 1, "Compare against Nth previous snapshot (1 = most recent)")
	trackCmd.Flags().IntVar(&trackHistory, "history", 0, "Show metric trends across N most recent snapshots")
	trackCmd.Flags().BoolVar(&trackJSON, "json", false, "Output as JSON")
	rootCmd.AddCommand(trackCmd)
}

func runTrack(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	root, err := scanRoot(args)
	if err != nil {
		return err
	}

	db, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	orch := newOrchestrator(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Limits.Timeout)
	defer cancel()

	result, err := orch.Scan(ctx, root)
	if err != nil {
		return err
	}

	snapshotID, err := db.SaveScan(result, appVersion)
	if err != nil {
		return fmt.Errorf("saving snapshot: %w", err)
	}

	if trackHistory > 0 {
		if trackJSON || flagJSON {
			return outputHistoryJSON(db, result.RootPath, trackHistory)
		}
		return renderHistory(db, result.RootPath, trackHistory)
	}

	current, err := db.GetSnapshot(snapshotID)
	if err != nil {
		return fmt.Errorf("loading current snapshot: %w", err)
	}

	// trackCompare=1 means the immediate predecessor, which is offset 2
	// from the newest now that this scan is stored.
	prev, err := db.GetSnapshotN(result.RootPath, trackCompare+1)
	if err != nil {
		return fmt.Errorf("loading previous snapshot: %w", err)
	}

	var diff *store.SnapshotDiff
	if prev != nil {
		diff, err = db.Diff(prev.ID, snapshotID)
		if err != nil {
			return fmt.Errorf("computing diff: %w", err)
		}
	}

	if trackJSON || flagJSON {
		out := map[string]any{"snapshot": current}
		if diff != nil {
			out["diff"] = diff
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	renderTrackOutput(current, diff)
	return nil
}

func renderTrackOutput(current *store.Snapshot, diff *store.SnapshotDiff) {
	fmt.Println(output.Section("Track: Snapshot Comparison"))
	fmt.Println()
	fmt.Printf(" Snapshot #%d taken at %s\n\n", current.ID, current.TakenAt.Format("2006-01-02 15:04:05"))

	if diff == nil {
		fmt.Println(" First snapshot recorded. Run 'repoatlas track' again later to see trends.")
		return
	}

	fmt.Printf(" Comparing against snapshot #%d (%s)\n\n",
		diff.Previous.ID, diff.Previous.TakenAt.Format("2006-01-02 15:04:05"))

	tbl := output.NewTable("Metric", "Previous", "Current", "Delta", "Trend")
	for _, d := range diff.Deltas {
		trend := output.StyleMuted.Render("─")
		switch d.Direction {
		case "improved":
			trend = output.StyleSuccess.Render(trendGlyph(d.Delta))
		case "regressed":
			trend = output.StyleError.Render(trendGlyph(d.Delta))
		}
		tbl.AddRow(
			d.Name,
			fmt.Sprintf("%.1f", d.Previous),
			fmt.Sprintf("%.1f", d.Current),
			fmt.Sprintf("%+.1f", d.Delta),
			trend,
		)
	}
	tbl.Print()
}

func trendGlyph(delta float64) string {
	if delta > 0 {
		return fmt.Sprintf("▲ +%.1f", delta)
	}
	return fmt.Sprintf("▼ %.1f", delta)
}

// renderHistory shows a multi-snapshot timeline table for one root.
func renderHistory(db *store.DB, rootPath string, n int) error {
	snapshots, err := db.GetRecentSnapshots(rootPath, n)
	if err != nil {
		return fmt.Errorf("loading snapshots: %w", err)
	}

	if len(snapshots) == 0 {
		fmt.Println(" No snapshots found. Run 'repoatlas track' to create one.")
		return nil
	}

	// Reverse so oldest is first (left to right = chronological).
	for i, j := 0, len(snapshots)-1; i < j; i, j = i+1, j-1 {
		snapshots[i], snapshots[j] = snapshots[j], snapshots[i]
	}

	type snapshotMetrics struct {
		snapshot store.Snapshot
		metrics  map[string]float64
	}
	var timeline []snapshotMetrics
	for _, s := range snapshots {
		metrics, err := db.GetScanMetrics(s.ID)
		if err != nil {
			return fmt.Errorf("loading metrics for snapshot #%d: %w", s.ID, err)
		}
		m := make(map[string]float64)
		for _, sm := range metrics {
			m[sm.MetricName] = sm.MetricValue
		}
		timeline = append(timeline, snapshotMetrics{snapshot: s, metrics: m})
	}

	fmt.Println(output.Section("Track: Metric History"))
	fmt.Println()
	fmt.Printf(" Showing %d most recent snapshots\n\n", len(timeline))

	headers := []string{"Metric"}
	for _, sm := range timeline {
		headers = append(headers, fmt.Sprintf("#%d %s", sm.snapshot.ID, sm.snapshot.TakenAt.Format("Jan 02")))
	}
	tbl := output.NewTable(headers...)

	for _, name := range metricDisplayOrder {
		row := []string{name}
		for _, sm := range timeline {
			row = append(row, fmt.Sprintf("%.1f", sm.metrics[name]))
		}
		tbl.AddRow(row...)
	}

	tbl.Print()
	return nil
}

// metricDisplayOrder defines the order metrics appear in history output.
var metricDisplayOrder = []string{
	"total_files",
	"scanned_files",
	"ignored_files",
	"coverage",
	"modules_found",
	"total_size",
	"duration_ms",
}

// outputHistoryJSON writes the history data as JSON.
func outputHistoryJSON(db *store.DB, rootPath string, n int) error {
	snapshots, err := db.GetRecentSnapshots(rootPath, n)
	if err != nil {
		return fmt.Errorf("loading snapshots: %w", err)
	}

	for i, j := 0, len(snapshots)-1; i < j; i, j = i+1, j-1 {
		snapshots[i], snapshots[j] = snapshots[j], snapshots[i]
	}

	type snapshotEntry struct {
		Snapshot store.Snapshot     `json:"snapshot"`
		Metrics  []store.ScanMetric `json:"metrics"`
	}

	var entries []snapshotEntry
	for _, s := range snapshots {
		metrics, err := db.GetScanMetrics(s.ID)
		if err != nil {
			return fmt.Errorf("loading metrics for snapshot #%d: %w", s.ID, err)
		}
		entries = append(entries, snapshotEntry{Snapshot: s, Metrics: metrics})
	}

	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"history": entries})
}
