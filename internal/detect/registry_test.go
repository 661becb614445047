package detect

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

// writeFiles populates a temp dir with the named files (content optional).
func writeFiles(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(dir, filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}
	}
}

func TestDetectProjectTypeGo(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"go.mod":  "module example.com/foo\n\ngo 1.21\n",
		"main.go": "package main\n",
	})

	r := NewRegistry(nil)
	if got := r.DetectProjectType(dir); got != inventory.TypeGo {
		t.Fatalf("DetectProjectType = %s, want go", got)
	}
}

func TestDetectProjectTypeUnknown(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"notes.txt": "hello"})

	r := NewRegistry(nil)
	if got := r.DetectProjectType(dir); got != inventory.TypeUnknown {
		t.Fatalf("DetectProjectType = %s, want unknown", got)
	}
}

func TestTypeScriptBeatsJavaScriptWithTSConfig(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"package.json":  `{"name":"app"}`,
		"tsconfig.json": `{}`,
		"src/index.ts":  "export {}\n",
	})

	r := NewRegistry(nil)
	if got := r.DetectProjectType(dir); got != inventory.TypeTypeScript {
		t.Fatalf("DetectProjectType = %s, want typescript", got)
	}
}

func TestJavaScriptWithoutTSConfig(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{
		"package.json": `{"name":"app"}`,
		"index.js":     "module.exports = {}\n",
	})

	r := NewRegistry(nil)
	if got := r.DetectProjectType(dir); got != inventory.TypeJavaScript {
		t.Fatalf("DetectProjectType = %s, want javascript", got)
	}
}

func TestIsModuleRoot(t *testing.T) {
	dir := t.TempDir()
	writeFiles(t, dir, map[string]string{"Cargo.toml": "[package]\nname = \"x\"\n"})

	r := NewRegistry(nil)
	if !r.IsModuleRoot(dir) {
		t.Fatal("directory with Cargo.toml should be a module root")
	}
	if r.IsModuleRoot(t.TempDir()) {
		t.Fatal("empty directory should not be a module root")
	}
}

func TestAnalyzeModuleUnknownType(t *testing.T) {
	dir := t.TempDir()
	r := NewRegistry(nil)

	_, err := r.AnalyzeModule(dir, inventory.TypeUnknown)
	if err == nil {
		t.Fatal("expected classification error for unknown type")
	}
	if !inventory.IsCode(err, inventory.ErrClassification) {
		t.Fatalf("expected ErrClassification, got %v", err)
	}
}

func TestFindModulesOutermostWins(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		"packages/a/package.json":        `{"name":"a"}`,
		"packages/a/nested/package.json": `{"name":"nested"}`,
		"packages/b/go.mod":              "module example.com/b\n",
		"unrelated/readme.txt":           "",
	})

	r := NewRegistry(nil)
	found, err := r.FindModules(root, 10)
	if err != nil {
		t.Fatal(err)
	}

	want := []string{
		filepath.Join(root, "packages", "a"),
		filepath.Join(root, "packages", "b"),
	}
	if len(found) != len(want) {
		t.Fatalf("FindModules = %v, want %v", found, want)
	}
	for i := range want {
		if found[i] != want[i] {
			t.Fatalf("FindModules[%d] = %s, want %s", i, found[i], want[i])
		}
	}
}

func TestFindModulesSkipsHiddenDirs(t *testing.T) {
	root := t.TempDir()
	writeFiles(t, root, map[string]string{
		".hidden/go.mod":  "module example.com/hidden\n",
		"visible/go.mod":  "module example.com/visible\n",
		"visible/main.go": "package main\n",
	})

	r := NewRegistry(nil)
	found, err := r.FindModules(root, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(found) != 1 || found[0] != filepath.Join(root, "visible") {
		t.Fatalf("FindModules = %v, want only visible", found)
	}
}
