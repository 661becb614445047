package detect

import (
	"bufio"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/pelletier/go-toml/v2"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

type pythonDetector struct{}

func (d *pythonDetector) Name() string                { return "python" }
func (d *pythonDetector) Type() inventory.ProjectType { return inventory.TypePython }

func (d *pythonDetector) Patterns() []string {
	return []string{"pyproject.toml", "setup.py", "setup.cfg", "requirements.txt", "Pipfile"}
}

func (d *pythonDetector) Detect(path string) bool {
	for _, manifest := range d.Patterns() {
		if fileExists(path, manifest) {
			return true
		}
	}
	return hasSourceExt(path, ".py")
}

func (d *pythonDetector) Analyze(path string) (*inventory.ModuleInfo, error) {
	mod := newModuleInfo(path, inventory.TypePython)

	// Metadata sources in order of preference; each fills only what the
	// previous sources left empty.
	applyPyProject(mod, path)
	applySetupPy(mod, path)
	if len(mod.Dependencies) == 0 {
		mod.Dependencies = readRequirements(filepath.Join(path, "requirements.txt"))
	}
	if mod.DevDependencies == nil {
		mod.DevDependencies = readRequirements(filepath.Join(path, "requirements-dev.txt"))
	}

	mod.EntryPoints = existingEntryPoints(path,
		"main.py", "__main__.py", "app.py", "manage.py", "src/main.py")
	return mod, nil
}

// pyProject mirrors the PEP 621 fields plus the poetry table, shallowly.
type pyProject struct {
	Project struct {
		Name           string   `toml:"name"`
		Version        string   `toml:"version"`
		Description    string   `toml:"description"`
		RequiresPython string   `toml:"requires-python"`
		Keywords       []string `toml:"keywords"`
		Authors        []struct {
			Name  string `toml:"name"`
			Email string `toml:"email"`
		} `toml:"authors"`
		Dependencies []string `toml:"dependencies"`
	} `toml:"project"`
	Tool struct {
		Poetry struct {
			Name        string `toml:"name"`
			Version     string `toml:"version"`
			Description string `toml:"description"`
		} `toml:"poetry"`
	} `toml:"tool"`
}

// applyPyProject fills module fields from pyproject.toml when present.
// Decode errors leave the module untouched.
func applyPyProject(mod *inventory.ModuleInfo, dir string) {
	data, err := os.ReadFile(filepath.Join(dir, "pyproject.toml"))
	if err != nil {
		return
	}
	var pp pyProject
	if err := toml.Unmarshal(data, &pp); err != nil {
		return
	}

	name := pp.Project.Name
	if name == "" {
		name = pp.Tool.Poetry.Name
	}
	if name != "" {
		mod.Name = name
	}
	if pp.Project.Description != "" {
		mod.Metadata.Description = pp.Project.Description
	} else if pp.Tool.Poetry.Description != "" {
		mod.Metadata.Description = pp.Tool.Poetry.Description
	}
	if len(pp.Project.Authors) > 0 {
		mod.Metadata.Author = pp.Project.Authors[0].Name
	}
	mod.Metadata.Keywords = pp.Project.Keywords
	if pp.Project.RequiresPython != "" {
		mod.Metadata.Engines = map[string]string{"python": pp.Project.RequiresPython}
	}
	for _, spec := range pp.Project.Dependencies {
		if dep, ok := parseRequirementLine(spec); ok {
			mod.Dependencies = append(mod.Dependencies, dep)
		}
	}
}

var (
	reSetupName   = regexp.MustCompile(`name\s*=\s*["']([^"']+)["']`)
	reSetupDesc   = regexp.MustCompile(`description\s*=\s*["']([^"']+)["']`)
	reSetupAuthor = regexp.MustCompile(`author\s*=\s*["']([^"']+)["']`)
)

// applySetupPy extracts name/version/description/author from the legacy
// script-based manifest via targeted patterns. It only fills gaps left by
// pyproject.toml.
func applySetupPy(mod *inventory.ModuleInfo, dir string) {
	data, err := os.ReadFile(filepath.Join(dir, "setup.py"))
	if err != nil {
		return
	}
	content := string(data)

	if mod.Name == filepath.Base(dir) {
		if m := reSetupName.FindStringSubmatch(content); m != nil {
			mod.Name = m[1]
		}
	}
	if mod.Metadata.Description == "" {
		if m := reSetupDesc.FindStringSubmatch(content); m != nil {
			mod.Metadata.Description = m[1]
		}
	}
	if mod.Metadata.Author == "" {
		if m := reSetupAuthor.FindStringSubmatch(content); m != nil {
			mod.Metadata.Author = m[1]
		}
	}
}

// readRequirements parses a plain dependency list file, discarding
// comments, blank lines, pip options, and VCS/URL-style references.
func readRequirements(path string) []inventory.Dependency {
	f, err := os.Open(path)
	if err != nil {
		return nil
	}
	defer f.Close()

	var deps []inventory.Dependency
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if dep, ok := parseRequirementLine(scanner.Text()); ok {
			deps = append(deps, dep)
		}
	}
	return deps
}

// requirement version separators, longest first so "==" wins over "=".
var versionSeps = []string{"===", "==", ">=", "<=", "~=", "!=", ">", "<"}

// parseRequirementLine splits one requirements-style specifier into name
// and version constraint. Returns false for lines that are not plain
// package specifiers.
func parseRequirementLine(line string) (inventory.Dependency, bool) {
	line = strings.TrimSpace(line)
	if idx := strings.Index(line, "#"); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	if line == "" || strings.HasPrefix(line, "-") {
		return inventory.Dependency{}, false
	}
	lower := strings.ToLower(line)
	if strings.HasPrefix(lower, "git+") || strings.HasPrefix(lower, "hg+") ||
		strings.HasPrefix(lower, "svn+") || strings.HasPrefix(lower, "http://") ||
		strings.HasPrefix(lower, "https://") || strings.HasPrefix(lower, "file:") {
		return inventory.Dependency{}, false
	}

	// Strip environment markers and extras.
	if idx := strings.Index(line, ";"); idx >= 0 {
		line = strings.TrimSpace(line[:idx])
	}
	name := line
	version := ""
	for _, sep := range versionSeps {
		if idx := strings.Index(line, sep); idx >= 0 {
			name = strings.TrimSpace(line[:idx])
			version = strings.TrimSpace(line[idx:])
			break
		}
	}
	if idx := strings.Index(name, "["); idx >= 0 {
		name = name[:idx]
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return inventory.Dependency{}, false
	}
	return inventory.Dependency{Name: name, Version: version, Kind: inventory.KindProduction}, true
}
