package scan

import (
	"context"
	"os"
	"path/filepath"
	"strconv"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/repoatlas/internal/config"
	"github.com/blackwell-systems/repoatlas/internal/detect"
	"github.com/blackwell-systems/repoatlas/internal/filter"
	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

// newTestOrchestrator builds an orchestrator with the given limits; zero
// fields fall back to the defaults.
func newTestOrchestrator(t *testing.T, limits config.Limits) *Orchestrator {
	t.Helper()
	if limits.MaxFiles == 0 {
		limits.MaxFiles = config.DefaultLimits.MaxFiles
	}
	if limits.MaxFileSize == 0 {
		limits.MaxFileSize = config.DefaultLimits.MaxFileSize
	}
	if limits.MaxDepth == 0 {
		limits.MaxDepth = config.DefaultLimits.MaxDepth
	}
	if limits.Timeout == 0 {
		limits.Timeout = config.DefaultLimits.Timeout
	}
	if limits.MemoryLimit == 0 {
		limits.MemoryLimit = config.DefaultLimits.MemoryLimit
	}
	cfg := &config.Config{Limits: limits, Phases: config.DefaultPhases}
	return New(cfg, filter.NewEngine(nil), detect.NewRegistry(nil))
}

func writeTree(t *testing.T, root string, files map[string]string) {
	t.Helper()
	for name, content := range files {
		path := filepath.Join(root, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
}

func TestScanFullPipeline(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"go.mod":             "module example.com/app\n\ngo 1.21\n\nrequire github.com/spf13/cobra v1.8.0\n",
		"main.go":            "package main\n",
		"cmd/tool/main.go":   "package main\n",
		"README.md":          "# app\n",
		"internal/x_test.go": "package x\n",
	})

	orch := newTestOrchestrator(t, config.Limits{})
	result, err := orch.Scan(context.Background(), root)
	require.NoError(t, err)

	require.Equal(t, inventory.TypeGo, result.ProjectType)
	require.Len(t, result.Modules, 1)

	mod := result.Modules[0]
	require.Equal(t, "example.com/app", mod.Name)
	require.Equal(t, inventory.TypeGo, mod.Type)
	require.Len(t, mod.Dependencies, 1)
	require.Contains(t, mod.EntryPoints, "main.go")

	// Deep phase cataloged the module files.
	require.Contains(t, mod.DocFiles, "README.md")
	require.Contains(t, mod.TestFiles, "internal/x_test.go")
	require.Contains(t, mod.KeyFiles, "main.go")

	// Every phase completed.
	require.Len(t, result.Phases, 3)
	for _, rec := range result.Phases {
		require.Equal(t, inventory.StatusCompleted, rec.Status)
		require.False(t, rec.EndTime.Before(rec.StartTime))
	}

	stats := result.Statistics
	require.Equal(t, 5, stats.TotalFiles)
	require.Equal(t, 1, stats.ModulesFound)
	require.InDelta(t, 100.0, stats.Coverage, 0.01)
}

func TestScanIgnoredSubtreeYieldsNoModule(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		".gitignore":              "packages/a/\n",
		"packages/a/package.json": `{"name":"a"}`,
		"packages/a/index.js":     "",
		"packages/b/package.json": `{"name":"b"}`,
		"packages/b/index.js":     "",
	})

	orch := newTestOrchestrator(t, config.Limits{})
	result, err := orch.Scan(context.Background(), root, inventory.PhaseQuick, inventory.PhaseModule)
	require.NoError(t, err)

	require.Len(t, result.Modules, 1)
	require.Equal(t, "b", result.Modules[0].Name)
	require.Equal(t, filepath.Join(root, "packages", "b"), result.Modules[0].Path)
}

func TestScanFileCountLimit(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	for i := 0; i < 11; i++ {
		files[filepath.Join("data", string(rune('a'+i))+".txt")] = "x"
	}
	writeTree(t, root, files)

	orch := newTestOrchestrator(t, config.Limits{MaxFiles: 10})
	result, err := orch.Scan(context.Background(), root, inventory.PhaseQuick)
	require.Error(t, err)
	require.True(t, inventory.IsCode(err, inventory.ErrResourceLimit))

	// The failure is recorded on the phase.
	require.Len(t, result.Phases, 1)
	require.Equal(t, inventory.StatusFailed, result.Phases[0].Status)
	require.NotEmpty(t, result.Phases[0].Error)
}

func TestScanExactlyAtFileLimit(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	for i := 0; i < 10; i++ {
		files[string(rune('a'+i))+".txt"] = "x"
	}
	writeTree(t, root, files)

	orch := newTestOrchestrator(t, config.Limits{MaxFiles: 10})
	result, err := orch.Scan(context.Background(), root, inventory.PhaseQuick)
	require.NoError(t, err)
	require.Equal(t, 10, result.Statistics.TotalFiles)
}

func TestScanUnsupportedPhase(t *testing.T) {
	root := t.TempDir()

	orch := newTestOrchestrator(t, config.Limits{})
	result, err := orch.Scan(context.Background(), root, inventory.ScanPhase("bogus"))
	require.Error(t, err)
	require.True(t, inventory.IsCode(err, inventory.ErrPhaseSupport))

	require.Len(t, result.Phases, 1)
	require.Equal(t, inventory.StatusFailed, result.Phases[0].Status)
}

func TestScanFailFastSkipsLaterPhases(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "x", "b.txt": "y", "c.txt": "z"})

	orch := newTestOrchestrator(t, config.Limits{MaxFiles: 2})
	result, err := orch.Scan(context.Background(), root)
	require.Error(t, err)

	// Only the quick phase ran; module and deep never started.
	require.Len(t, result.Phases, 1)
	require.Equal(t, inventory.PhaseQuick, result.Phases[0].Phase)
}

func TestScanCancelledContext(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{"a.txt": "x"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	orch := newTestOrchestrator(t, config.Limits{})
	_, err := orch.Scan(ctx, root)
	require.Error(t, err)
}

func TestScanMaxDepth(t *testing.T) {
	root := t.TempDir()
	writeTree(t, root, map[string]string{
		"top.txt":                "x",
		"one/two/three/deep.txt": "x",
		"one/shallow.txt":        "x",
	})

	orch := newTestOrchestrator(t, config.Limits{MaxDepth: 1})
	result, err := orch.Scan(context.Background(), root, inventory.PhaseQuick)
	require.NoError(t, err)

	// Only files at the root and one level down are enumerated.
	require.Equal(t, 2, result.Statistics.TotalFiles)
}

func TestScanProgressEvents(t *testing.T) {
	root := t.TempDir()
	files := map[string]string{}
	for i := 0; i < 250; i++ {
		files[filepath.Join("d", "f"+strconv.Itoa(i)+".txt")] = "x"
	}
	writeTree(t, root, files)

	var events []inventory.Progress
	cfg := &config.Config{Limits: config.DefaultLimits, Phases: config.DefaultPhases}
	orch := New(cfg, filter.NewEngine(nil), detect.NewRegistry(nil),
		WithProgress(func(p inventory.Progress) { events = append(events, p) }))

	_, err := orch.Scan(context.Background(), root, inventory.PhaseQuick)
	require.NoError(t, err)
	require.NotEmpty(t, events)
	require.Equal(t, inventory.PhaseQuick, events[0].Phase)
}
