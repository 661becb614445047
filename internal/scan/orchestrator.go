// Package scan sequences the discovery pipeline: an orchestrator runs a
// configurable list of phases (quick, module, deep) against one repository
// root, enforcing resource limits and recording per-phase telemetry on a
// shared scan result it exclusively owns.
package scan

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"

	"github.com/blackwell-systems/repoatlas/internal/config"
	"github.com/blackwell-systems/repoatlas/internal/detect"
	"github.com/blackwell-systems/repoatlas/internal/filter"
	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

// Phase is one stage of the scan pipeline. Run mutates the result it is
// handed; implementations must not retain the pointer past their own
// execution.
type Phase interface {
	Name() inventory.ScanPhase
	Run(ctx context.Context, result *inventory.ProjectScanResult) error
}

// Orchestrator owns the scan result for the duration of one Scan call and
// drives phases in order, failing fast on the first phase error.
type Orchestrator struct {
	cfg      *config.Config
	filter   *filter.Engine
	registry *detect.Registry
	logger   *log.Logger
	progress inventory.ProgressFunc
	phases   map[inventory.ScanPhase]Phase
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithProgress installs a progress callback. Phases push typed events onto
// it; there is no global listener registry.
func WithProgress(fn inventory.ProgressFunc) Option {
	return func(o *Orchestrator) { o.progress = fn }
}

// WithLogger overrides the default logger.
func WithLogger(logger *log.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// New builds an orchestrator with the standard quick, module, and deep
// phase implementations.
func New(cfg *config.Config, eng *filter.Engine, registry *detect.Registry, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		cfg:      cfg,
		filter:   eng,
		registry: registry,
		logger:   log.Default(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.phases = map[inventory.ScanPhase]Phase{
		inventory.PhaseQuick:  &quickPhase{o: o},
		inventory.PhaseModule: &modulePhase{o: o},
		inventory.PhaseDeep:   &deepPhase{o: o},
	}
	return o
}

// Scan runs the requested phases in order against root. With no phases
// given it runs the full default sequence.
//
// On success the returned result is complete. On failure the error is a
// classified *inventory.ScanError identifying the failing phase and path;
// the result is returned alongside it only so callers can inspect phase
// records, and must not be treated as a trustworthy inventory.
func (o *Orchestrator) Scan(ctx context.Context, root string, phases ...inventory.ScanPhase) (*inventory.ProjectScanResult, error) {
	if len(phases) == 0 {
		phases = inventory.DefaultPhases
	}

	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, inventory.NewScanError(inventory.ErrScanFailed, "", root, err)
	}

	result := &inventory.ProjectScanResult{
		RootPath:    absRoot,
		ProjectType: inventory.TypeUnknown,
	}

	for _, name := range phases {
		impl, ok := o.phases[name]
		if !ok {
			serr := inventory.NewScanError(inventory.ErrPhaseSupport, name, absRoot,
				fmt.Errorf("no implementation for phase %q", name))
			result.Phases = append(result.Phases, inventory.PhaseRecord{
				Phase:     name,
				StartTime: time.Now(),
				EndTime:   time.Now(),
				Status:    inventory.StatusFailed,
				Error:     serr.Error(),
			})
			return result, serr
		}

		record := inventory.PhaseRecord{
			Phase:     name,
			StartTime: time.Now(),
			Status:    inventory.StatusRunning,
		}
		result.Phases = append(result.Phases, record)
		idx := len(result.Phases) - 1

		o.logger.Debug("phase starting", "phase", name, "root", absRoot)
		runErr := impl.Run(ctx, result)

		rec := &result.Phases[idx]
		rec.EndTime = time.Now()
		rec.Duration = rec.EndTime.Sub(rec.StartTime)
		rec.FilesProcessed = result.Statistics.TotalFiles

		if runErr != nil {
			serr := o.classify(runErr, name, absRoot)
			rec.Status = inventory.StatusFailed
			rec.Error = serr.Error()
			o.logger.Error("phase failed", "phase", name, "err", serr)
			return result, serr
		}
		rec.Status = inventory.StatusCompleted
		o.logger.Debug("phase completed", "phase", name, "duration", rec.Duration)
	}

	o.finalize(result)
	return result, nil
}

// finalize runs after the phase loop regardless of how many phases ran:
// it sums phase durations into the aggregate, recomputes coverage from
// the final counts, and regenerates recommendations from final state,
// replacing anything phases set along the way.
func (o *Orchestrator) finalize(result *inventory.ProjectScanResult) {
	var total time.Duration
	for _, rec := range result.Phases {
		total += rec.Duration
	}
	result.Statistics.Duration = total
	result.Statistics.ModulesFound = len(result.Modules)
	result.Statistics.ComputeCoverage()
	result.Recommendations = Recommendations(result)
}

// classify wraps an arbitrary phase error into the scan error taxonomy,
// preserving errors that are already classified.
func (o *Orchestrator) classify(err error, phase inventory.ScanPhase, root string) *inventory.ScanError {
	if serr, ok := err.(*inventory.ScanError); ok {
		if serr.Phase == "" {
			serr.Phase = phase
		}
		return serr
	}
	return inventory.NewScanError(inventory.ErrScanFailed, phase, root, err)
}

// checkLimits enforces the hard resource limits. It is evaluated before
// every enumerated file and at the top of detector loops; exceeding a
// limit is fatal to the phase, not a soft truncation.
func (o *Orchestrator) checkLimits(phase inventory.ScanPhase, result *inventory.ProjectScanResult) error {
	limits := o.cfg.Limits
	stats := result.Statistics
	if limits.MaxFiles > 0 && stats.TotalFiles >= limits.MaxFiles {
		return inventory.ResourceLimitError(phase, result.RootPath, "file-count",
			int64(stats.TotalFiles), int64(limits.MaxFiles))
	}
	if limits.MemoryLimit > 0 && stats.TotalSize >= limits.MemoryLimit {
		return inventory.ResourceLimitError(phase, result.RootPath, "memory",
			stats.TotalSize, limits.MemoryLimit)
	}
	return nil
}

// emit pushes a progress event when a callback is installed.
func (o *Orchestrator) emit(phase inventory.ScanPhase, current, total int, msg string) {
	if o.progress != nil {
		o.progress(inventory.Progress{Phase: phase, Current: current, Total: total, Message: msg})
	}
}
