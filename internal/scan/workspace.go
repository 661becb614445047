package scan

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"
)

// pnpmWorkspace mirrors the packages list of pnpm-workspace.yaml.
type pnpmWorkspace struct {
	Packages []string `yaml:"packages"`
}

// packageWorkspaces covers the two shapes of the package.json workspaces
// field: a bare array or an object with a packages array.
type packageWorkspaces struct {
	Workspaces json.RawMessage `json:"workspaces"`
}

// workspaceDirs expands workspace globs declared in pnpm-workspace.yaml
// or package.json into container directories whose children should be
// probed as module candidates. Negated globs and entries that resolve to
// nothing are dropped silently.
func workspaceDirs(root string) []string {
	globs := pnpmGlobs(root)
	globs = append(globs, packageJSONGlobs(root)...)

	var dirs []string
	seen := make(map[string]bool)
	for _, g := range globs {
		if strings.HasPrefix(g, "!") {
			continue
		}
		// A glob like packages/* names children directly; its parent is
		// the container to probe.
		matches, err := doublestar.Glob(os.DirFS(root), filepath.ToSlash(g))
		if err != nil {
			continue
		}
		for _, m := range matches {
			abs := filepath.Join(root, filepath.FromSlash(m))
			info, err := os.Stat(abs)
			if err != nil || !info.IsDir() {
				continue
			}
			parent := filepath.Dir(abs)
			if !seen[parent] {
				seen[parent] = true
				dirs = append(dirs, parent)
			}
		}
	}
	return dirs
}

func pnpmGlobs(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, "pnpm-workspace.yaml"))
	if err != nil {
		return nil
	}
	var ws pnpmWorkspace
	if err := yaml.Unmarshal(data, &ws); err != nil {
		return nil
	}
	return ws.Packages
}

func packageJSONGlobs(root string) []string {
	data, err := os.ReadFile(filepath.Join(root, "package.json"))
	if err != nil {
		return nil
	}
	var pkg packageWorkspaces
	if err := json.Unmarshal(data, &pkg); err != nil || len(pkg.Workspaces) == 0 {
		return nil
	}

	var list []string
	if err := json.Unmarshal(pkg.Workspaces, &list); err == nil {
		return list
	}
	var obj struct {
		Packages []string `json:"packages"`
	}
	if err := json.Unmarshal(pkg.Workspaces, &obj); err == nil {
		return obj.Packages
	}
	return nil
}
