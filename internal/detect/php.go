package detect

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

type phpDetector struct{}

func (d *phpDetector) Name() string                { return "php" }
func (d *phpDetector) Type() inventory.ProjectType { return inventory.TypePHP }
func (d *phpDetector) Patterns() []string          { return []string{"composer.json"} }

func (d *phpDetector) Detect(path string) bool {
	return fileExists(path, "composer.json") || hasSourceExt(path, ".php")
}

// composerJSON mirrors the composer.json fields the analyzer extracts.
type composerJSON struct {
	Name        string            `json:"name"`
	Description string            `json:"description"`
	License     json.RawMessage   `json:"license"`
	Keywords    []string          `json:"keywords"`
	Require     map[string]string `json:"require"`
	RequireDev  map[string]string `json:"require-dev"`
	Authors     []struct {
		Name string `json:"name"`
	} `json:"authors"`
}

func (d *phpDetector) Analyze(path string) (*inventory.ModuleInfo, error) {
	mod := newModuleInfo(path, inventory.TypePHP)

	if data, err := os.ReadFile(filepath.Join(path, "composer.json")); err == nil {
		var composer composerJSON
		if err := json.Unmarshal(data, &composer); err == nil {
			if composer.Name != "" {
				mod.Name = composer.Name
			}
			mod.Metadata.Description = composer.Description
			mod.Metadata.Keywords = composer.Keywords
			mod.Metadata.License = composerLicense(composer.License)
			if len(composer.Authors) > 0 {
				mod.Metadata.Author = composer.Authors[0].Name
			}

			// The "php" requirement is an engine constraint, not a
			// package dependency.
			require := make(map[string]string, len(composer.Require))
			for name, version := range composer.Require {
				if name == "php" {
					mod.Metadata.Engines = map[string]string{"php": version}
					continue
				}
				require[name] = version
			}
			mod.Dependencies = sortedDeps(require, inventory.KindProduction)
			mod.DevDependencies = sortedDeps(composer.RequireDev, inventory.KindDevelopment)
		}
	}

	mod.EntryPoints = existingEntryPoints(path, "index.php", filepath.Join("public", "index.php"))
	return mod, nil
}

// composerLicense handles both "MIT" and ["MIT", "GPL-2.0"] forms.
func composerLicense(raw json.RawMessage) string {
	if len(raw) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err == nil && len(list) > 0 {
		return list[0]
	}
	return ""
}
