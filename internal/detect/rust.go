package detect

import (
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

type rustDetector struct{}

func (d *rustDetector) Name() string                { return "rust" }
func (d *rustDetector) Type() inventory.ProjectType { return inventory.TypeRust }
func (d *rustDetector) Patterns() []string          { return []string{"Cargo.toml"} }

func (d *rustDetector) Detect(path string) bool {
	return fileExists(path, "Cargo.toml") || hasSourceExt(path, ".rs")
}

// cargoManifest mirrors the Cargo.toml fields the analyzer extracts.
// Dependency values can be plain version strings or tables; both decode
// into any and are flattened by cargoDepVersion.
type cargoManifest struct {
	Package struct {
		Name        string   `toml:"name"`
		Version     string   `toml:"version"`
		Description string   `toml:"description"`
		License     string   `toml:"license"`
		Repository  string   `toml:"repository"`
		Keywords    []string `toml:"keywords"`
		Authors     []string `toml:"authors"`
		Edition     string   `toml:"edition"`
	} `toml:"package"`
	Dependencies    map[string]any `toml:"dependencies"`
	DevDependencies map[string]any `toml:"dev-dependencies"`
}

func (d *rustDetector) Analyze(path string) (*inventory.ModuleInfo, error) {
	mod := newModuleInfo(path, inventory.TypeRust)

	if data, err := os.ReadFile(filepath.Join(path, "Cargo.toml")); err == nil {
		var cargo cargoManifest
		if err := toml.Unmarshal(data, &cargo); err == nil {
			if cargo.Package.Name != "" {
				mod.Name = cargo.Package.Name
			}
			mod.Metadata = inventory.ModuleMetadata{
				Description: cargo.Package.Description,
				License:     cargo.Package.License,
				Repository:  cargo.Package.Repository,
				Keywords:    cargo.Package.Keywords,
			}
			if len(cargo.Package.Authors) > 0 {
				mod.Metadata.Author = cargo.Package.Authors[0]
			}
			if cargo.Package.Edition != "" {
				mod.Metadata.Engines = map[string]string{"rust-edition": cargo.Package.Edition}
			}
			mod.Dependencies = cargoDeps(cargo.Dependencies, inventory.KindProduction)
			mod.DevDependencies = cargoDeps(cargo.DevDependencies, inventory.KindDevelopment)
		}
	}

	mod.EntryPoints = existingEntryPoints(path,
		filepath.Join("src", "main.rs"), filepath.Join("src", "lib.rs"))
	return mod, nil
}

// cargoDeps flattens a Cargo dependency table into the shared form.
func cargoDeps(m map[string]any, kind inventory.DependencyKind) []inventory.Dependency {
	flat := make(map[string]string, len(m))
	for name, v := range m {
		flat[name] = cargoDepVersion(v)
	}
	return sortedDeps(flat, kind)
}

// cargoDepVersion extracts the version constraint from either form:
// `serde = "1.0"` or `serde = { version = "1.0", features = [...] }`.
func cargoDepVersion(v any) string {
	switch val := v.(type) {
	case string:
		return val
	case map[string]any:
		if ver, ok := val["version"].(string); ok {
			return ver
		}
	}
	return ""
}
