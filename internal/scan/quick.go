package scan

import (
	"context"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blackwell-systems/repoatlas/internal/filter"
	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

// progressInterval is how many enumerated files pass between progress
// events during the quick phase.
const progressInterval = 100

// containerDirNames are conventional monorepo container directories whose
// immediate subdirectories are probed as module-root candidates.
var containerDirNames = []string{
	"packages", "libs", "libraries", "modules", "apps", "services", "components",
}

// quickPhase produces an approximate inventory in one pass: full-tree
// enumeration, filtering, heuristic module discovery, and detect-only
// classification. Dependency and entry-point extraction is left to the
// module phase.
type quickPhase struct {
	o *Orchestrator
}

func (p *quickPhase) Name() inventory.ScanPhase { return inventory.PhaseQuick }

func (p *quickPhase) Run(ctx context.Context, result *inventory.ProjectScanResult) error {
	o := p.o
	root := result.RootPath

	// Ignore rules from the repository itself layer on top of the
	// built-in set.
	if err := o.filter.LoadIgnoreFile(root); err != nil {
		return inventory.NewScanError(inventory.ErrScanFailed, inventory.PhaseQuick, root, err)
	}

	if err := p.enumerate(ctx, result); err != nil {
		return err
	}

	// Filter pass: decide which of the enumerated files count as scanned.
	scanned := make(map[string]bool, len(result.Files))
	for _, f := range result.Files {
		if o.filter.ShouldInclude(f.Path, root) {
			scanned[f.RelPath] = true
		}
	}

	result.ProjectType = o.registry.DetectProjectType(root)

	candidates := p.moduleCandidates(result, scanned)
	if err := p.classifyCandidates(ctx, result, candidates); err != nil {
		return err
	}

	stats := &result.Statistics
	stats.ScannedFiles = len(scanned)
	stats.IgnoredFiles = stats.TotalFiles - stats.ScannedFiles
	stats.ModulesFound = len(result.Modules)
	stats.ComputeCoverage()

	result.Recommendations = Recommendations(result)
	return nil
}

// enumerate walks the tree depth-first up to the configured max depth,
// skipping hidden directories (the root itself excepted) and swallowing
// unreadable entries. The resource-limit check runs before every file.
func (p *quickPhase) enumerate(ctx context.Context, result *inventory.ProjectScanResult) error {
	o := p.o
	root := result.RootPath
	maxDepth := o.cfg.Limits.MaxDepth

	var walk func(dir string, depth int) error
	walk = func(dir string, depth int) error {
		select {
		case <-ctx.Done():
			return inventory.NewScanError(inventory.ErrScanFailed, inventory.PhaseQuick, dir, ctx.Err())
		default:
		}

		entries, err := os.ReadDir(dir)
		if err != nil {
			// Permission errors and broken symlinks are omitted from
			// the enumeration, never fatal.
			o.logger.Debug("skipping unreadable directory", "dir", dir, "err", err)
			return nil
		}

		for _, entry := range entries {
			name := entry.Name()
			if entry.IsDir() {
				if strings.HasPrefix(name, ".") {
					continue
				}
				if maxDepth > 0 && depth+1 > maxDepth {
					continue
				}
				if err := walk(filepath.Join(dir, name), depth+1); err != nil {
					return err
				}
				continue
			}

			if err := o.checkLimits(inventory.PhaseQuick, result); err != nil {
				return err
			}

			info, err := entry.Info()
			if err != nil {
				o.logger.Debug("skipping unstattable entry", "path", filepath.Join(dir, name), "err", err)
				continue
			}

			abs := filepath.Join(dir, name)
			result.Files = append(result.Files, inventory.FileInfo{
				Path:    abs,
				Name:    name,
				Ext:     strings.ToLower(filepath.Ext(name)),
				Size:    info.Size(),
				ModTime: info.ModTime(),
				RelPath: filter.RelPath(abs, root),
			})
			result.Statistics.TotalFiles++
			result.Statistics.TotalSize += info.Size()

			if result.Statistics.TotalFiles%progressInterval == 0 {
				o.emit(inventory.PhaseQuick, result.Statistics.TotalFiles, 0, "enumerating files")
			}
		}
		return nil
	}

	return walk(root, 0)
}

// moduleCandidates identifies candidate module roots two ways: parent
// directories of scanned manifest files, and immediate subdirectories of
// conventional container directories (plus any workspace globs). Only
// directories still containing scanned files qualify; a fully ignored
// sub-tree contributes no candidates.
func (p *quickPhase) moduleCandidates(result *inventory.ProjectScanResult, scanned map[string]bool) []string {
	o := p.o
	root := result.RootPath

	manifests := p.manifestNames()

	// Relative directories (and all their ancestors) that still hold at
	// least one scanned file.
	liveDirs := make(map[string]bool)
	for rel := range scanned {
		dir := filepath.ToSlash(filepath.Dir(rel))
		for dir != "." && dir != "/" {
			liveDirs[dir] = true
			dir = filepath.ToSlash(filepath.Dir(dir))
		}
	}

	seen := make(map[string]bool)
	var candidates []string
	add := func(abs string) {
		if !seen[abs] {
			seen[abs] = true
			candidates = append(candidates, abs)
		}
	}

	// (a) Manifest-indicator basenames among the scanned files.
	for _, f := range result.Files {
		if !scanned[f.RelPath] {
			continue
		}
		if matchesManifest(manifests, f.Name) {
			add(filepath.Dir(f.Path))
		}
	}

	// (b) Conventional container directories and workspace globs.
	var containers []string
	for _, name := range containerDirNames {
		containers = append(containers, filepath.Join(root, name))
	}
	containers = append(containers, workspaceDirs(root)...)

	for _, container := range containers {
		entries, err := os.ReadDir(container)
		if err != nil {
			continue
		}
		for _, entry := range entries {
			if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
				continue
			}
			sub := filepath.Join(container, entry.Name())
			rel := filter.RelPath(sub, root)
			if rel != "." && !liveDirs[rel] {
				continue
			}
			if o.registry.IsModuleRoot(sub) {
				add(sub)
			}
		}
	}

	sort.Strings(candidates)
	return candidates
}

// classifyCandidates runs detect-only classification over the candidate
// roots, skipping unknown directories and any candidate nested inside an
// already accepted module: discovery is greedy and outermost-wins.
func (p *quickPhase) classifyCandidates(ctx context.Context, result *inventory.ProjectScanResult, candidates []string) error {
	o := p.o

	var accepted []string
	for _, dir := range candidates {
		select {
		case <-ctx.Done():
			return inventory.NewScanError(inventory.ErrScanFailed, inventory.PhaseQuick, dir, ctx.Err())
		default:
		}

		if underAny(dir, accepted) {
			continue
		}
		pt := o.registry.DetectProjectType(dir)
		if pt == inventory.TypeUnknown {
			continue
		}
		accepted = append(accepted, dir)
		result.Modules = append(result.Modules, inventory.ModuleInfo{
			Path: dir,
			Name: filepath.Base(dir),
			Type: pt,
		})
	}
	return nil
}

// manifestNames collects the declared detector patterns, keyed for fast
// exact lookup with globs kept separate.
func (p *quickPhase) manifestNames() map[string]bool {
	names := make(map[string]bool)
	for _, d := range p.o.registry.Detectors() {
		for _, pat := range d.Patterns() {
			names[pat] = true
		}
	}
	return names
}

// matchesManifest tests a basename against the manifest indicator set,
// falling back to glob matching for patterns like *.csproj.
func matchesManifest(manifests map[string]bool, name string) bool {
	if manifests[name] {
		return true
	}
	for pat := range manifests {
		if !strings.ContainsAny(pat, "*?[") {
			continue
		}
		if ok, err := filepath.Match(pat, name); err == nil && ok {
			return true
		}
	}
	return false
}

// underAny reports whether dir is a strict descendant of any accepted
// module root. The candidate list is sorted, so ancestors precede their
// descendants.
func underAny(dir string, accepted []string) bool {
	for _, a := range accepted {
		if strings.HasPrefix(dir, a+string(filepath.Separator)) {
			return true
		}
	}
	return false
}
