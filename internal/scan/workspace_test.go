package scan

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestWorkspaceDirsPnpm(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"pnpm-workspace.yaml":     "packages:\n  - \"packages/*\"\n  - \"!packages/legacy\"\n",
		"packages/a/package.json": `{"name":"a"}`,
		"packages/b/package.json": `{"name":"b"}`,
	})

	dirs := workspaceDirs(root)
	require.Equal(t, []string{filepath.Join(root, "packages")}, dirs)
}

func TestWorkspaceDirsPackageJSONArray(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"package.json":           `{"name":"mono","workspaces":["apps/*","tools/*"]}`,
		"apps/web/package.json":  `{"name":"web"}`,
		"tools/cli/package.json": `{"name":"cli"}`,
	})

	dirs := workspaceDirs(root)
	require.ElementsMatch(t, []string{
		filepath.Join(root, "apps"),
		filepath.Join(root, "tools"),
	}, dirs)
}

func TestWorkspaceDirsPackageJSONObject(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"package.json":         `{"name":"mono","workspaces":{"packages":["libs/*"]}}`,
		"libs/ui/package.json": `{"name":"ui"}`,
	})

	dirs := workspaceDirs(root)
	require.Equal(t, []string{filepath.Join(root, "libs")}, dirs)
}

func TestWorkspaceDirsNoManifests(t *testing.T) {
	root := t.TempDir()
	require.Empty(t, workspaceDirs(root))
}

func TestWorkspaceDirsIgnoresFileMatches(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"package.json":       `{"workspaces":["pkg/*"]}`,
		"pkg/notes.txt":      "x",
		"pkg/a/package.json": `{"name":"a"}`,
	})

	// pkg/notes.txt matches the glob but is a file; only pkg/a counts,
	// and both resolve to the same container.
	dirs := workspaceDirs(root)
	require.Equal(t, []string{filepath.Join(root, "pkg")}, dirs)
}
