// Package detect classifies directories into project types. One detector is
// registered per supported ecosystem; each exposes cheap manifest-presence
// detection and a deeper analysis step that extracts module metadata.
//
// Manifest parsing is intentionally shallow: line-oriented, regex, or plain
// structural decoding of name/version/dependency fields. Nothing here reads
// source code semantically.
package detect

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

// Detector classifies one ecosystem.
type Detector interface {
	// Name is a short identifier for logs and errors.
	Name() string

	// Type is the project type this detector produces.
	Type() inventory.ProjectType

	// Patterns lists the manifest basenames (or simple globs) whose
	// presence indicates this ecosystem. Used for candidate discovery
	// and confidence scoring.
	Patterns() []string

	// Detect reports whether the directory belongs to this ecosystem.
	Detect(path string) bool

	// Analyze extracts module metadata from the directory. It returns a
	// partially filled ModuleInfo when manifest parsing fails; it never
	// fails on malformed manifests.
	Analyze(path string) (*inventory.ModuleInfo, error)
}

// fileExists reports whether dir contains the named regular file.
func fileExists(dir, name string) bool {
	info, err := os.Stat(filepath.Join(dir, name))
	return err == nil && !info.IsDir()
}

// patternPresent reports whether a detector pattern matches an entry in
// dir. Plain names are stat'd; names containing glob characters fall back
// to filepath.Glob.
func patternPresent(dir, pattern string) bool {
	if !strings.ContainsAny(pattern, "*?[") {
		return fileExists(dir, pattern)
	}
	matches, err := filepath.Glob(filepath.Join(dir, pattern))
	return err == nil && len(matches) > 0
}

// hasSourceExt reports whether dir directly contains a file with one of
// the given extensions. The scan is shallow on purpose: the source-file
// fallback exists so manifest-less sub-trees are still classified, not to
// re-walk the tree per detector.
func hasSourceExt(dir string, exts ...string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		for _, want := range exts {
			if ext == want {
				return true
			}
		}
	}
	return false
}

// existingEntryPoints filters candidate entry files down to those present
// on disk, preserving order.
func existingEntryPoints(dir string, candidates ...string) []string {
	var found []string
	for _, c := range candidates {
		if fileExists(dir, c) {
			found = append(found, c)
		}
	}
	return found
}

// newModuleInfo seeds a ModuleInfo with the directory name; Analyze
// implementations overwrite Name when the manifest provides one.
func newModuleInfo(path string, pt inventory.ProjectType) *inventory.ModuleInfo {
	return &inventory.ModuleInfo{
		Path: path,
		Name: filepath.Base(path),
		Type: pt,
	}
}

// sortedDeps converts a name→version map into a deterministic dependency
// slice of the given kind.
func sortedDeps(m map[string]string, kind inventory.DependencyKind) []inventory.Dependency {
	if len(m) == 0 {
		return nil
	}
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	// Small n; insertion sort keeps this allocation-free.
	for i := 1; i < len(names); i++ {
		for j := i; j > 0 && names[j] < names[j-1]; j-- {
			names[j], names[j-1] = names[j-1], names[j]
		}
	}
	deps := make([]inventory.Dependency, 0, len(names))
	for _, name := range names {
		deps = append(deps, inventory.Dependency{Name: name, Version: m[name], Kind: kind})
	}
	return deps
}
