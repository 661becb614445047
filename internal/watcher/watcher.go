// Package watcher provides background monitoring of a repository root,
// rescanning at a regular interval and emitting alerts when the module
// inventory changes.
package watcher

import (
	"context"
	"fmt"
	"time"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

// WatchState captures a point-in-time summary of one rescan.
type WatchState struct {
	Timestamp   time.Time
	ProjectType inventory.ProjectType
	TotalFiles  int
	TotalSize   int64
	Coverage    float64
	ModuleCount int

	// modulesByPath keeps module identity for comparison between cycles.
	modulesByPath map[string]inventory.ModuleInfo
}

// Alert represents a notable event detected by the watcher.
type Alert struct {
	Level   string // "info", "warning", "critical"
	Title   string
	Message string
	Time    time.Time
}

// Scanner is the subset of the scan orchestrator the watcher needs. The
// watcher runs quick and module phases only; deep cataloging is not worth
// repeating every cycle.
type Scanner interface {
	Scan(ctx context.Context, root string, phases ...inventory.ScanPhase) (*inventory.ProjectScanResult, error)
}

// Watcher rescans a repository root at a regular interval and emits alerts
// when notable changes are detected.
type Watcher struct {
	root          string
	scanner       Scanner
	interval      time.Duration
	previous      *WatchState
	alertFn       func(Alert)     // callback for emitting alerts
	lastAlertKeys map[string]bool // dedup: suppress repeated identical alerts
}

// New creates a Watcher that monitors the given repository root.
func New(root string, scanner Scanner, interval time.Duration, alertFn func(Alert)) *Watcher {
	return &Watcher{
		root:          root,
		scanner:       scanner,
		interval:      interval,
		alertFn:       alertFn,
		lastAlertKeys: make(map[string]bool),
	}
}

// Run starts the watch loop. It takes an initial snapshot, then rescans at
// every interval. Blocks until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	initial, err := w.Snapshot(ctx)
	if err != nil {
		return fmt.Errorf("initial snapshot: %w", err)
	}
	w.previous = initial

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			alerts := w.Check(ctx)
			for _, a := range alerts {
				if w.alertFn != nil {
					w.alertFn(a)
				}
			}
		}
	}
}

// Check performs a single check cycle: takes a new snapshot, compares
// against the previous state, updates the previous state, and returns any
// alerts. Identical alerts are suppressed until the underlying data changes.
func (w *Watcher) Check(ctx context.Context) []Alert {
	curr, err := w.Snapshot(ctx)
	if err != nil {
		return []Alert{{
			Level:   "warning",
			Title:   "Rescan failed",
			Message: fmt.Sprintf("Could not rescan %s: %v", w.root, err),
			Time:    time.Now(),
		}}
	}

	var raw []Alert
	if w.previous != nil {
		raw = Compare(w.previous, curr)
	}

	// Deduplicate: suppress alerts with the same title+message as last cycle.
	currentKeys := make(map[string]bool, len(raw))
	var alerts []Alert
	for _, a := range raw {
		key := a.Level + ":" + a.Title + ":" + a.Message
		currentKeys[key] = true
		if !w.lastAlertKeys[key] {
			alerts = append(alerts, a)
		}
	}
	w.lastAlertKeys = currentKeys

	w.previous = curr
	return alerts
}

// Snapshot runs a quick+module scan of the root and summarizes it.
func (w *Watcher) Snapshot(ctx context.Context) (*WatchState, error) {
	result, err := w.scanner.Scan(ctx, w.root, inventory.PhaseQuick, inventory.PhaseModule)
	if err != nil {
		return nil, err
	}

	state := &WatchState{
		Timestamp:     time.Now(),
		ProjectType:   result.ProjectType,
		TotalFiles:    result.Statistics.TotalFiles,
		TotalSize:     result.Statistics.TotalSize,
		Coverage:      result.Statistics.Coverage,
		ModuleCount:   len(result.Modules),
		modulesByPath: make(map[string]inventory.ModuleInfo, len(result.Modules)),
	}
	for _, mod := range result.Modules {
		state.modulesByPath[mod.Path] = mod
	}
	return state, nil
}
