package detect

import (
	"bufio"
	"os"
	"path/filepath"
	"strings"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

type goDetector struct{}

func (d *goDetector) Name() string                { return "go" }
func (d *goDetector) Type() inventory.ProjectType { return inventory.TypeGo }
func (d *goDetector) Patterns() []string          { return []string{"go.mod"} }

func (d *goDetector) Detect(path string) bool {
	return fileExists(path, "go.mod") || hasSourceExt(path, ".go")
}

func (d *goDetector) Analyze(path string) (*inventory.ModuleInfo, error) {
	mod := newModuleInfo(path, inventory.TypeGo)

	if gm := readGoMod(filepath.Join(path, "go.mod")); gm != nil {
		if gm.module != "" {
			mod.Name = gm.module
		}
		if gm.goVersion != "" {
			mod.Metadata.Engines = map[string]string{"go": gm.goVersion}
		}
		mod.Dependencies = gm.requires
		mod.DevDependencies = gm.indirect
	}

	candidates := []string{"main.go"}
	if entries, err := os.ReadDir(filepath.Join(path, "cmd")); err == nil {
		for _, entry := range entries {
			if entry.IsDir() {
				candidates = append(candidates, filepath.Join("cmd", entry.Name(), "main.go"))
			}
		}
	}
	mod.EntryPoints = existingEntryPoints(path, candidates...)
	return mod, nil
}

// goModFile holds the fields extracted from a go.mod.
type goModFile struct {
	module    string
	goVersion string
	requires  []inventory.Dependency
	indirect  []inventory.Dependency
}

// readGoMod parses a go.mod line by line, recognizing the module and go
// directives plus require blocks in both single-line and parenthesized
// form. replace and exclude blocks are skipped. Parse failures yield nil.
func readGoMod(path string) *goModFile {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	gm := &goModFile{}
	inRequire := false
	inSkipped := false

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "//") {
			continue
		}

		if inRequire || inSkipped {
			if line == ")" {
				inRequire = false
				inSkipped = false
				continue
			}
			if inRequire {
				gm.addRequire(line)
			}
			continue
		}

		switch {
		case strings.HasPrefix(line, "module "):
			gm.module = strings.TrimSpace(strings.TrimPrefix(line, "module "))
		case strings.HasPrefix(line, "go "):
			gm.goVersion = strings.TrimSpace(strings.TrimPrefix(line, "go "))
		case line == "require (":
			inRequire = true
		case strings.HasPrefix(line, "require "):
			gm.addRequire(strings.TrimPrefix(line, "require "))
		case line == "replace (" || line == "exclude (" || line == "retract (":
			inSkipped = true
		}
	}
	if scanner.Err() != nil {
		return nil
	}
	return gm
}

// addRequire parses one "path version [// indirect]" requirement line.
// Indirect requirements are kept apart: they are not dependencies the
// module's own code declares.
func (gm *goModFile) addRequire(line string) {
	indirect := false
	if idx := strings.Index(line, "//"); idx >= 0 {
		indirect = strings.Contains(line[idx:], "indirect")
		line = strings.TrimSpace(line[:idx])
	}
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return
	}
	dep := inventory.Dependency{Name: fields[0], Version: fields[1], Kind: inventory.KindProduction}
	if indirect {
		dep.Kind = inventory.KindDevelopment
		gm.indirect = append(gm.indirect, dep)
		return
	}
	gm.requires = append(gm.requires, dep)
}
