package detect

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

// packageJSON mirrors the fields of package.json the analyzer cares about.
// Author and Repository accept both string and object forms.
type packageJSON struct {
	Name         string            `json:"name"`
	Version      string            `json:"version"`
	Description  string            `json:"description"`
	License      string            `json:"license"`
	Author       json.RawMessage   `json:"author"`
	Repository   json.RawMessage   `json:"repository"`
	Keywords     []string          `json:"keywords"`
	Scripts      map[string]string `json:"scripts"`
	Engines      map[string]string `json:"engines"`
	Main         string            `json:"main"`
	Module       string            `json:"module"`
	Dependencies map[string]string `json:"dependencies"`
	DevDeps      map[string]string `json:"devDependencies"`
	PeerDeps     map[string]string `json:"peerDependencies"`
	OptionalDeps map[string]string `json:"optionalDependencies"`
}

// readPackageJSON parses dir/package.json. Any failure yields nil: metadata
// extraction degrades instead of aborting classification.
func readPackageJSON(dir string) *packageJSON {
	data, err := os.ReadFile(filepath.Join(dir, "package.json"))
	if err != nil {
		return nil
	}
	var pkg packageJSON
	if err := json.Unmarshal(data, &pkg); err != nil {
		return nil
	}
	return &pkg
}

// stringOrName decodes a JSON value that is either a plain string or an
// object with a "name"/"url" field (package.json author and repository).
func stringOrName(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var obj struct {
		Name string `json:"name"`
		URL  string `json:"url"`
	}
	if err := json.Unmarshal(raw, &obj); err == nil {
		if obj.Name != "" {
			return obj.Name
		}
		return obj.URL
	}
	return ""
}

// applyPackageJSON fills a ModuleInfo from package.json fields. Shared by
// the JavaScript and TypeScript detectors.
func applyPackageJSON(mod *inventory.ModuleInfo, pkg *packageJSON) {
	if pkg == nil {
		return
	}
	if pkg.Name != "" {
		mod.Name = pkg.Name
	}
	mod.Dependencies = sortedDeps(pkg.Dependencies, inventory.KindProduction)
	mod.DevDependencies = sortedDeps(pkg.DevDeps, inventory.KindDevelopment)
	mod.Dependencies = append(mod.Dependencies, sortedDeps(pkg.PeerDeps, inventory.KindPeer)...)
	mod.Dependencies = append(mod.Dependencies, sortedDeps(pkg.OptionalDeps, inventory.KindOptional)...)
	mod.Metadata = inventory.ModuleMetadata{
		Description: pkg.Description,
		Author:      stringOrName(pkg.Author),
		License:     pkg.License,
		Repository:  stringOrName(pkg.Repository),
		Keywords:    pkg.Keywords,
		Scripts:     pkg.Scripts,
		Engines:     pkg.Engines,
	}
}

type javaScriptDetector struct{}

func (d *javaScriptDetector) Name() string                { return "javascript" }
func (d *javaScriptDetector) Type() inventory.ProjectType { return inventory.TypeJavaScript }
func (d *javaScriptDetector) Patterns() []string          { return []string{"package.json"} }

func (d *javaScriptDetector) Detect(path string) bool {
	return fileExists(path, "package.json") ||
		hasSourceExt(path, ".js", ".jsx", ".mjs", ".cjs")
}

func (d *javaScriptDetector) Analyze(path string) (*inventory.ModuleInfo, error) {
	mod := newModuleInfo(path, inventory.TypeJavaScript)
	pkg := readPackageJSON(path)
	applyPackageJSON(mod, pkg)

	candidates := []string{"index.js", "src/index.js", "main.js", "app.js", "server.js"}
	if pkg != nil {
		if pkg.Main != "" {
			candidates = append([]string{pkg.Main}, candidates...)
		}
		if pkg.Module != "" {
			candidates = append([]string{pkg.Module}, candidates...)
		}
	}
	mod.EntryPoints = existingEntryPoints(path, candidates...)
	return mod, nil
}
