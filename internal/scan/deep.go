package scan

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

// deepPhase walks the enumeration snapshot once per module and buckets the
// files inside each module into key, test, config, and doc lists. It never
// touches the filesystem again; everything it needs was captured during
// the quick phase.
type deepPhase struct {
	o *Orchestrator
}

func (p *deepPhase) Name() inventory.ScanPhase { return inventory.PhaseDeep }

// sourceExts are extensions that count a file as key source material.
var sourceExts = map[string]bool{
	".go": true, ".js": true, ".jsx": true, ".ts": true, ".tsx": true,
	".mts": true, ".cts": true, ".py": true, ".rs": true, ".java": true,
	".kt": true, ".cs": true, ".php": true, ".rb": true,
}

// configNames are well-known configuration basenames beyond the manifest
// patterns detectors already track.
var configNames = map[string]bool{
	"package.json": true, "tsconfig.json": true, "go.mod": true, "go.sum": true,
	"pyproject.toml": true, "setup.py": true, "setup.cfg": true,
	"requirements.txt": true, "Cargo.toml": true, "pom.xml": true,
	"build.gradle": true, "build.gradle.kts": true, "composer.json": true,
	"Gemfile": true, "Makefile": true, "Dockerfile": true,
	"docker-compose.yml": true, "docker-compose.yaml": true,
	".eslintrc.json": true, ".prettierrc": true, "babel.config.js": true,
	"jest.config.js": true, "vite.config.ts": true, "webpack.config.js": true,
}

// docExts mark documentation files by extension.
var docExts = map[string]bool{
	".md": true, ".rst": true, ".txt": true, ".adoc": true,
}

func (p *deepPhase) Run(ctx context.Context, result *inventory.ProjectScanResult) error {
	o := p.o
	maxFileSize := o.cfg.Limits.MaxFileSize

	for i := range result.Modules {
		select {
		case <-ctx.Done():
			return inventory.NewScanError(inventory.ErrScanFailed, inventory.PhaseDeep,
				result.Modules[i].Path, ctx.Err())
		default:
		}

		mod := &result.Modules[i]
		prefix := mod.Path + string(filepath.Separator)

		var key, tests, configs, docs []string
		for _, f := range result.Files {
			if f.Path != mod.Path && !strings.HasPrefix(f.Path, prefix) {
				continue
			}
			if !o.filter.ShouldInclude(f.Path, result.RootPath) {
				continue
			}
			if maxFileSize > 0 && f.Size > maxFileSize {
				o.logger.Debug("skipping oversized file", "path", f.Path, "size", f.Size)
				continue
			}

			rel, err := filepath.Rel(mod.Path, f.Path)
			if err != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case isTestFile(f.Name, f.Ext):
				tests = append(tests, rel)
			case configNames[f.Name]:
				configs = append(configs, rel)
			case docExts[f.Ext]:
				docs = append(docs, rel)
			case sourceExts[f.Ext]:
				key = append(key, rel)
			}
		}

		sort.Strings(key)
		sort.Strings(tests)
		sort.Strings(configs)
		sort.Strings(docs)

		mod.KeyFiles = key
		mod.TestFiles = tests
		mod.ConfigFiles = configs
		mod.DocFiles = docs

		o.emit(inventory.PhaseDeep, i+1, len(result.Modules), "cataloging module files")
	}
	return nil
}

// isTestFile applies the per-ecosystem test naming conventions: Go
// _test.go suffixes, JS/TS .test/.spec infixes, Python test_ prefixes,
// and anything under a __tests__ or spec path segment handled by name.
func isTestFile(name, ext string) bool {
	if strings.HasSuffix(name, "_test.go") {
		return true
	}
	base := strings.TrimSuffix(name, ext)
	if strings.HasSuffix(base, ".test") || strings.HasSuffix(base, ".spec") {
		return true
	}
	if strings.HasPrefix(name, "test_") && ext == ".py" {
		return true
	}
	if strings.HasSuffix(base, "_test") && (ext == ".py" || ext == ".rs") {
		return true
	}
	if strings.HasSuffix(base, "_spec") && ext == ".rb" {
		return true
	}
	return false
}
