package detect

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

type rubyDetector struct{}

func (d *rubyDetector) Name() string                { return "ruby" }
func (d *rubyDetector) Type() inventory.ProjectType { return inventory.TypeRuby }

func (d *rubyDetector) Patterns() []string {
	return []string{"Gemfile", "*.gemspec"}
}

func (d *rubyDetector) Detect(path string) bool {
	for _, pat := range d.Patterns() {
		if patternPresent(path, pat) {
			return true
		}
	}
	return hasSourceExt(path, ".rb")
}

var (
	reGemLine     = regexp.MustCompile(`^\s*gem\s+['"]([\w-]+)['"](?:\s*,\s*['"]([^'"]+)['"])?`)
	reGemspecName = regexp.MustCompile(`\.name\s*=\s*['"]([^'"]+)['"]`)
	reGemspecDesc = regexp.MustCompile(`\.summary\s*=\s*['"]([^'"]+)['"]`)
)

func (d *rubyDetector) Analyze(path string) (*inventory.ModuleInfo, error) {
	mod := newModuleInfo(path, inventory.TypeRuby)

	mod.Dependencies = readGemfile(filepath.Join(path, "Gemfile"))

	if specs, _ := filepath.Glob(filepath.Join(path, "*.gemspec")); len(specs) > 0 {
		if data, err := os.ReadFile(specs[0]); err == nil {
			content := string(data)
			if m := reGemspecName.FindStringSubmatch(content); m != nil {
				mod.Name = m[1]
			}
			if m := reGemspecDesc.FindStringSubmatch(content); m != nil {
				mod.Metadata.Description = m[1]
			}
		}
	}

	mod.EntryPoints = existingEntryPoints(path,
		"main.rb", "app.rb", filepath.Join("config", "application.rb"),
		filepath.Join("lib", mod.Name+".rb"))
	return mod, nil
}

// readGemfile extracts gem declarations line by line.
func readGemfile(path string) []inventory.Dependency {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var deps []inventory.Dependency
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := reGemLine.FindStringSubmatch(scanner.Text()); m != nil {
			deps = append(deps, inventory.Dependency{
				Name:    m[1],
				Version: m[2],
				Kind:    inventory.KindProduction,
			})
		}
	}
	return deps
}
