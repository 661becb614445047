package scan

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

// analyzeConcurrency bounds how many modules are analyzed at once. Module
// analysis is manifest I/O plus a little parsing, so a small pool is
// enough to hide the latency.
const analyzeConcurrency = 4

// modulePhase upgrades each module discovered by the quick phase from a
// detect-only stub to a full ModuleInfo: manifest name, entry points,
// dependency sets, and metadata. Modules are analyzed concurrently and the
// results merged back in their original order.
type modulePhase struct {
	o *Orchestrator
}

func (p *modulePhase) Name() inventory.ScanPhase { return inventory.PhaseModule }

func (p *modulePhase) Run(ctx context.Context, result *inventory.ProjectScanResult) error {
	o := p.o
	if len(result.Modules) == 0 {
		o.logger.Debug("module phase: nothing to analyze")
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(analyzeConcurrency)

	var mu sync.Mutex
	analyzed := make([]*inventory.ModuleInfo, len(result.Modules))
	done := 0

	for i := range result.Modules {
		mod := result.Modules[i]
		g.Go(func() error {
			select {
			case <-gctx.Done():
				return gctx.Err()
			default:
			}

			info, err := o.registry.AnalyzeModule(mod.Path, mod.Type)
			if err != nil {
				// Classification errors are fatal; anything softer keeps
				// the quick-phase stub and moves on.
				var serr *inventory.ScanError
				if errors.As(err, &serr) && serr.Code == inventory.ErrClassification {
					return err
				}
				o.logger.Warn("module analysis degraded", "module", mod.Path, "err", err)
				info = nil
			}

			mu.Lock()
			analyzed[i] = info
			done++
			o.emit(inventory.PhaseModule, done, len(result.Modules), "analyzing modules")
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return err
	}

	for i, info := range analyzed {
		if info == nil {
			continue
		}
		// Deep-phase file lists are not produced here; preserve whatever
		// is already on the stub in case phases were reordered.
		info.KeyFiles = result.Modules[i].KeyFiles
		info.TestFiles = result.Modules[i].TestFiles
		info.ConfigFiles = result.Modules[i].ConfigFiles
		info.DocFiles = result.Modules[i].DocFiles
		result.Modules[i] = *info
	}
	return nil
}
