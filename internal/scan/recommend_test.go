package scan

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

func completedPhase(phase inventory.ScanPhase) inventory.PhaseRecord {
	return inventory.PhaseRecord{Phase: phase, Status: inventory.StatusCompleted}
}

func findRec(recs []inventory.Recommendation, title string) *inventory.Recommendation {
	for i := range recs {
		if recs[i].Title == title {
			return &recs[i]
		}
	}
	return nil
}

func TestNoModulesFound(t *testing.T) {
	result := &inventory.ProjectScanResult{RootPath: "/repo"}
	recs := NoModulesFound(result)
	require.Len(t, recs, 1)
	require.Equal(t, inventory.RecScanDeeper, recs[0].Type)
	require.Equal(t, inventory.PriorityHigh, recs[0].Priority)
	require.Equal(t, "/repo", recs[0].Path)

	result.Modules = []inventory.ModuleInfo{{Name: "a"}}
	require.Empty(t, NoModulesFound(result))
}

func TestLowCoverage(t *testing.T) {
	result := &inventory.ProjectScanResult{
		Statistics: inventory.ScanStatistics{TotalFiles: 200, ScannedFiles: 25},
	}
	result.Statistics.ComputeCoverage()

	recs := LowCoverage(result)
	require.Len(t, recs, 1)
	require.Equal(t, inventory.PriorityMedium, recs[0].Priority)
	require.Contains(t, recs[0].Description, "12.5%")
	require.Contains(t, recs[0].Description, "25 of 200")
}

func TestLowCoverageNotTriggered(t *testing.T) {
	cases := []struct {
		name    string
		total   int
		scanned int
	}{
		{"empty tree", 0, 0},
		{"at threshold", 100, 30},
		{"full coverage", 100, 100},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			result := &inventory.ProjectScanResult{
				Statistics: inventory.ScanStatistics{TotalFiles: tc.total, ScannedFiles: tc.scanned},
			}
			result.Statistics.ComputeCoverage()
			require.Empty(t, LowCoverage(result))
		})
	}
}

func TestUnknownProjectType(t *testing.T) {
	result := &inventory.ProjectScanResult{ProjectType: inventory.TypeUnknown}
	recs := UnknownProjectType(result)
	require.Len(t, recs, 1)
	require.Equal(t, inventory.RecAddConfig, recs[0].Type)

	result.ProjectType = inventory.TypeGo
	require.Empty(t, UnknownProjectType(result))
}

func TestDeeperScanAvailable(t *testing.T) {
	result := &inventory.ProjectScanResult{
		Modules: []inventory.ModuleInfo{{Name: "a"}, {Name: "b"}},
		Phases: []inventory.PhaseRecord{
			completedPhase(inventory.PhaseQuick),
			completedPhase(inventory.PhaseModule),
		},
	}
	recs := DeeperScanAvailable(result)
	require.Len(t, recs, 1)
	require.Equal(t, inventory.PriorityLow, recs[0].Priority)
	require.Contains(t, recs[0].Title, "2 module(s)")

	// Once the deep phase completed there is nothing deeper to offer.
	result.Phases = append(result.Phases, completedPhase(inventory.PhaseDeep))
	require.Empty(t, DeeperScanAvailable(result))
}

func TestDeeperScanAvailableNeedsModules(t *testing.T) {
	result := &inventory.ProjectScanResult{
		Phases: []inventory.PhaseRecord{completedPhase(inventory.PhaseQuick)},
	}
	require.Empty(t, DeeperScanAvailable(result))
}

func TestMissingDocs(t *testing.T) {
	result := &inventory.ProjectScanResult{
		Modules: []inventory.ModuleInfo{
			{Name: "documented", Path: "/repo/a", KeyFiles: []string{"main.go"}, DocFiles: []string{"README.md"}},
			{Name: "bare", Path: "/repo/b", KeyFiles: []string{"lib.go", "util.go"}},
			{Name: "empty", Path: "/repo/c"},
		},
		Phases: []inventory.PhaseRecord{completedPhase(inventory.PhaseDeep)},
	}

	recs := MissingDocs(result)
	require.Len(t, recs, 1)
	require.Equal(t, inventory.RecAddDocs, recs[0].Type)
	require.Equal(t, "/repo/b", recs[0].Path)
	require.Contains(t, recs[0].Description, "2 source files")
}

func TestMissingDocsOnlyAfterDeepPhase(t *testing.T) {
	result := &inventory.ProjectScanResult{
		Modules: []inventory.ModuleInfo{
			{Name: "bare", KeyFiles: []string{"lib.go"}},
		},
		Phases: []inventory.PhaseRecord{completedPhase(inventory.PhaseQuick)},
	}
	require.Empty(t, MissingDocs(result))
}

func TestHeavyIgnoreRatio(t *testing.T) {
	result := &inventory.ProjectScanResult{
		Statistics: inventory.ScanStatistics{
			TotalFiles:   5000,
			ScannedFiles: 400,
			IgnoredFiles: 4600,
		},
	}
	result.Statistics.ComputeCoverage()

	recs := HeavyIgnoreRatio(result)
	require.Len(t, recs, 1)
	require.Equal(t, inventory.RecOptimize, recs[0].Type)

	// Small trees never trigger, whatever the ratio.
	result.Statistics.TotalFiles = 500
	require.Empty(t, HeavyIgnoreRatio(result))
}

func TestRecommendationsAggregatesRules(t *testing.T) {
	result := &inventory.ProjectScanResult{
		RootPath:    "/repo",
		ProjectType: inventory.TypeUnknown,
		Statistics:  inventory.ScanStatistics{TotalFiles: 100, ScannedFiles: 10},
	}
	result.Statistics.ComputeCoverage()

	recs := Recommendations(result)
	require.NotNil(t, findRec(recs, "No modules detected"))
	require.NotNil(t, findRec(recs, "Low scan coverage"))
	require.NotNil(t, findRec(recs, "Project type not recognized"))
	require.Nil(t, findRec(recs, "Scan dominated by ignored files"))
}
