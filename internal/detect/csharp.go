package detect

import (
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

type csharpDetector struct{}

func (d *csharpDetector) Name() string                { return "csharp" }
func (d *csharpDetector) Type() inventory.ProjectType { return inventory.TypeCSharp }

func (d *csharpDetector) Patterns() []string {
	return []string{"*.csproj", "*.sln"}
}

func (d *csharpDetector) Detect(path string) bool {
	for _, pat := range d.Patterns() {
		if patternPresent(path, pat) {
			return true
		}
	}
	return hasSourceExt(path, ".cs")
}

var (
	reCsAssembly  = regexp.MustCompile(`<AssemblyName>\s*([^<]+?)\s*</AssemblyName>`)
	reCsFramework = regexp.MustCompile(`<TargetFramework>\s*([^<]+?)\s*</TargetFramework>`)
	reCsPackage   = regexp.MustCompile(`<PackageReference\s+Include="([^"]+)"(?:\s+Version="([^"]+)")?`)
)

func (d *csharpDetector) Analyze(path string) (*inventory.ModuleInfo, error) {
	mod := newModuleInfo(path, inventory.TypeCSharp)

	projects, _ := filepath.Glob(filepath.Join(path, "*.csproj"))
	if len(projects) > 0 {
		proj := projects[0]
		mod.Name = strings.TrimSuffix(filepath.Base(proj), ".csproj")

		if data, err := os.ReadFile(proj); err == nil {
			content := string(data)
			if m := reCsAssembly.FindStringSubmatch(content); m != nil {
				mod.Name = m[1]
			}
			if m := reCsFramework.FindStringSubmatch(content); m != nil {
				mod.Metadata.Engines = map[string]string{"dotnet": m[1]}
			}
			for _, m := range reCsPackage.FindAllStringSubmatch(content, -1) {
				mod.Dependencies = append(mod.Dependencies, inventory.Dependency{
					Name:    m[1],
					Version: m[2],
					Kind:    inventory.KindProduction,
				})
			}
		}
	}

	mod.EntryPoints = existingEntryPoints(path, "Program.cs")
	return mod, nil
}
