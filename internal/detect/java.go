package detect

import (
	"os"
	"path/filepath"
	"regexp"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

type javaDetector struct{}

func (d *javaDetector) Name() string                { return "java" }
func (d *javaDetector) Type() inventory.ProjectType { return inventory.TypeJava }

func (d *javaDetector) Patterns() []string {
	return []string{"pom.xml", "build.gradle", "build.gradle.kts"}
}

func (d *javaDetector) Detect(path string) bool {
	for _, manifest := range d.Patterns() {
		if fileExists(path, manifest) {
			return true
		}
	}
	return hasSourceExt(path, ".java")
}

// Shallow POM extraction: first top-level occurrence of each tag. Maven's
// parent/dependency sections repeat these tags, so matching stops at the
// first hit, which in a conventional pom is the project's own coordinates.
var (
	rePomArtifact = regexp.MustCompile(`<artifactId>\s*([^<]+?)\s*</artifactId>`)
	rePomName     = regexp.MustCompile(`<name>\s*([^<]+?)\s*</name>`)
	rePomDesc     = regexp.MustCompile(`<description>\s*([^<]+?)\s*</description>`)
	reGradleName  = regexp.MustCompile(`rootProject\.name\s*=\s*['"]([^'"]+)['"]`)
)

func (d *javaDetector) Analyze(path string) (*inventory.ModuleInfo, error) {
	mod := newModuleInfo(path, inventory.TypeJava)

	if data, err := os.ReadFile(filepath.Join(path, "pom.xml")); err == nil {
		content := string(data)
		if m := rePomArtifact.FindStringSubmatch(content); m != nil {
			mod.Name = m[1]
		}
		if m := rePomDesc.FindStringSubmatch(content); m != nil {
			mod.Metadata.Description = m[1]
		}
		if mod.Metadata.Description == "" {
			if m := rePomName.FindStringSubmatch(content); m != nil {
				mod.Metadata.Description = m[1]
			}
		}
	} else if data, err := os.ReadFile(filepath.Join(path, "settings.gradle")); err == nil {
		if m := reGradleName.FindStringSubmatch(string(data)); m != nil {
			mod.Name = m[1]
		}
	}

	mod.EntryPoints = existingEntryPoints(path,
		filepath.Join("src", "main", "java", "Main.java"))
	return mod, nil
}
