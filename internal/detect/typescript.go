package detect

import "github.com/blackwell-systems/repoatlas/internal/inventory"

type typeScriptDetector struct{}

func (d *typeScriptDetector) Name() string                { return "typescript" }
func (d *typeScriptDetector) Type() inventory.ProjectType { return inventory.TypeTypeScript }

func (d *typeScriptDetector) Patterns() []string {
	return []string{"tsconfig.json", "package.json"}
}

func (d *typeScriptDetector) Detect(path string) bool {
	return fileExists(path, "tsconfig.json") ||
		hasSourceExt(path, ".ts", ".tsx", ".mts", ".cts")
}

func (d *typeScriptDetector) Analyze(path string) (*inventory.ModuleInfo, error) {
	mod := newModuleInfo(path, inventory.TypeTypeScript)
	pkg := readPackageJSON(path)
	applyPackageJSON(mod, pkg)

	candidates := []string{
		"index.ts", "src/index.ts", "src/main.ts", "main.ts", "src/app.ts",
	}
	if pkg != nil && pkg.Main != "" {
		candidates = append([]string{pkg.Main}, candidates...)
	}
	mod.EntryPoints = existingEntryPoints(path, candidates...)
	return mod, nil
}
