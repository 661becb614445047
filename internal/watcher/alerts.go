package watcher

import (
	"fmt"
	"path/filepath"
	"time"
)

// coverageDropCritical is the coverage percentage-point drop between two
// cycles that escalates from warning to critical.
const coverageDropCritical = 30

// fileGrowthWarnRatio is the fractional growth in total file count between
// two cycles that triggers a warning.
const fileGrowthWarnRatio = 0.5

// Compare detects notable changes between two watch states and returns
// alerts. It checks for critical, warning, and info-level changes.
func Compare(prev, curr *WatchState) []Alert {
	var alerts []Alert

	alerts = append(alerts, compareCritical(prev, curr)...)
	alerts = append(alerts, compareWarning(prev, curr)...)
	alerts = append(alerts, compareInfo(prev, curr)...)

	return alerts
}

// compareCritical detects critical-level changes.
func compareCritical(prev, curr *WatchState) []Alert {
	var alerts []Alert
	now := time.Now()

	// All modules vanished at once: the tree was moved, wiped, or an
	// ignore rule now swallows everything.
	if prev.ModuleCount > 0 && curr.ModuleCount == 0 {
		alerts = append(alerts, Alert{
			Level:   "critical",
			Title:   "All modules disappeared",
			Message: fmt.Sprintf("Previous scan found %d module(s), current scan found none", prev.ModuleCount),
			Time:    now,
		})
	}

	// Coverage collapsed between cycles.
	if drop := prev.Coverage - curr.Coverage; drop >= coverageDropCritical {
		alerts = append(alerts, Alert{
			Level:   "critical",
			Title:   "Scan coverage collapsed",
			Message: fmt.Sprintf("Coverage fell from %.0f%% to %.0f%%", prev.Coverage, curr.Coverage),
			Time:    now,
		})
	}

	return alerts
}

// compareWarning detects warning-level changes.
func compareWarning(prev, curr *WatchState) []Alert {
	var alerts []Alert
	now := time.Now()

	// A known module disappeared.
	for path, mod := range prev.modulesByPath {
		if _, still := curr.modulesByPath[path]; !still && curr.ModuleCount > 0 {
			alerts = append(alerts, Alert{
				Level:   "warning",
				Title:   fmt.Sprintf("Module removed: %s", mod.Name),
				Message: fmt.Sprintf("%s (%s) is no longer detected", path, mod.Type),
				Time:    now,
			})
		}
	}

	// A module changed ecosystem, usually a rewrite in progress.
	for path, currMod := range curr.modulesByPath {
		prevMod, existed := prev.modulesByPath[path]
		if existed && prevMod.Type != currMod.Type {
			alerts = append(alerts, Alert{
				Level:   "warning",
				Title:   fmt.Sprintf("Module type changed: %s", currMod.Name),
				Message: fmt.Sprintf("%s changed from %s to %s", path, prevMod.Type, currMod.Type),
				Time:    now,
			})
		}
	}

	// File count grew sharply, often a dependency install landing inside
	// the scanned tree.
	if prev.TotalFiles > 0 {
		growth := float64(curr.TotalFiles-prev.TotalFiles) / float64(prev.TotalFiles)
		if growth > fileGrowthWarnRatio {
			alerts = append(alerts, Alert{
				Level:   "warning",
				Title:   "File count spike",
				Message: fmt.Sprintf("Enumerated files grew from %d to %d (+%.0f%%)", prev.TotalFiles, curr.TotalFiles, growth*100),
				Time:    now,
			})
		}
	}

	return alerts
}

// compareInfo detects informational changes.
func compareInfo(prev, curr *WatchState) []Alert {
	var alerts []Alert
	now := time.Now()

	// New module appeared.
	for path, mod := range curr.modulesByPath {
		if _, existed := prev.modulesByPath[path]; !existed {
			alerts = append(alerts, Alert{
				Level:   "info",
				Title:   fmt.Sprintf("New module: %s", filepath.Base(path)),
				Message: fmt.Sprintf("Detected %s module at %s", mod.Type, path),
				Time:    now,
			})
		}
	}

	// Module dependency count changed.
	for path, currMod := range curr.modulesByPath {
		prevMod, existed := prev.modulesByPath[path]
		if !existed {
			continue
		}
		prevDeps := len(prevMod.Dependencies)
		currDeps := len(currMod.Dependencies)
		if currDeps != prevDeps {
			alerts = append(alerts, Alert{
				Level:   "info",
				Title:   fmt.Sprintf("Dependencies changed: %s", currMod.Name),
				Message: fmt.Sprintf("%s went from %d to %d dependencies", path, prevDeps, currDeps),
				Time:    now,
			})
		}
	}

	// Root project type changed.
	if prev.ProjectType != curr.ProjectType {
		alerts = append(alerts, Alert{
			Level:   "info",
			Title:   "Project type changed",
			Message: fmt.Sprintf("Root classification changed from %s to %s", prev.ProjectType, curr.ProjectType),
			Time:    now,
		})
	}

	return alerts
}
