package scan

import (
	"fmt"

	"github.com/blackwell-systems/repoatlas/internal/inventory"
)

// lowCoverageThreshold is the coverage percentage below which a scan is
// considered too shallow to trust.
const lowCoverageThreshold = 30

// Rule derives zero or more recommendations from a scan result. Rules are
// independent; each inspects the result on its own and never consults the
// output of other rules.
type Rule func(result *inventory.ProjectScanResult) []inventory.Recommendation

// defaultRules is the rule set applied after every scan, in order.
var defaultRules = []Rule{
	NoModulesFound,
	LowCoverage,
	UnknownProjectType,
	DeeperScanAvailable,
	MissingDocs,
	HeavyIgnoreRatio,
}

// Recommendations evaluates the default rule set against a scan result.
// The returned slice replaces any prior recommendations on the result;
// callers assign it, they never append to it.
func Recommendations(result *inventory.ProjectScanResult) []inventory.Recommendation {
	var recs []inventory.Recommendation
	for _, rule := range defaultRules {
		recs = append(recs, rule(result)...)
	}
	return recs
}

// NoModulesFound flags scans that discovered nothing; either the tree is
// not a software project or the scan did not look hard enough.
func NoModulesFound(result *inventory.ProjectScanResult) []inventory.Recommendation {
	if len(result.Modules) > 0 {
		return nil
	}
	return []inventory.Recommendation{{
		Type:     inventory.RecScanDeeper,
		Priority: inventory.PriorityHigh,
		Title:    "No modules detected",
		Description: "The scan found no modules. The repository may use an unconventional " +
			"layout, or ignore rules may be excluding the module roots.",
		Path:   result.RootPath,
		Action: "Run a deep scan, or review the active ignore rules.",
	}}
}

// LowCoverage flags scans where ignore rules removed most of the tree.
func LowCoverage(result *inventory.ProjectScanResult) []inventory.Recommendation {
	stats := result.Statistics
	if stats.TotalFiles == 0 || stats.Coverage >= lowCoverageThreshold {
		return nil
	}
	return []inventory.Recommendation{{
		Type:     inventory.RecScanDeeper,
		Priority: inventory.PriorityMedium,
		Title:    "Low scan coverage",
		Description: fmt.Sprintf(
			"Only %.1f%% of enumerated files were scanned (%d of %d). "+
				"The inventory may be missing modules hidden behind ignore rules.",
			stats.Coverage, stats.ScannedFiles, stats.TotalFiles,
		),
		Path:   result.RootPath,
		Action: "Loosen ignore rules or add include filters for the missing areas.",
	}}
}

// UnknownProjectType flags roots no detector could classify.
func UnknownProjectType(result *inventory.ProjectScanResult) []inventory.Recommendation {
	if result.ProjectType != inventory.TypeUnknown {
		return nil
	}
	return []inventory.Recommendation{{
		Type:     inventory.RecAddConfig,
		Priority: inventory.PriorityMedium,
		Title:    "Project type not recognized",
		Description: "No detector matched the repository root. Adding a standard manifest " +
			"(package.json, go.mod, pyproject.toml, Cargo.toml, ...) lets tooling " +
			"classify the project.",
		Path:   result.RootPath,
		Action: "Add an ecosystem manifest at the repository root.",
	}}
}

// DeeperScanAvailable reminds callers of quick-only scans that the modules
// they found have more detail available.
func DeeperScanAvailable(result *inventory.ProjectScanResult) []inventory.Recommendation {
	if len(result.Modules) == 0 {
		return nil
	}
	for _, rec := range result.Phases {
		if rec.Phase == inventory.PhaseDeep && rec.Status == inventory.StatusCompleted {
			return nil
		}
	}
	return []inventory.Recommendation{{
		Type:     inventory.RecScanDeeper,
		Priority: inventory.PriorityLow,
		Title:    fmt.Sprintf("Deeper detail available for %d module(s)", len(result.Modules)),
		Description: "The deep phase has not run; module file inventories (key, test, " +
			"config, and doc files) are empty.",
		Path:   result.RootPath,
		Action: "Re-run the scan with the deep phase enabled.",
	}}
}

// MissingDocs flags modules the deep phase cataloged with no documentation
// files at all.
func MissingDocs(result *inventory.ProjectScanResult) []inventory.Recommendation {
	deepRan := false
	for _, rec := range result.Phases {
		if rec.Phase == inventory.PhaseDeep && rec.Status == inventory.StatusCompleted {
			deepRan = true
			break
		}
	}
	if !deepRan {
		return nil
	}

	var recs []inventory.Recommendation
	for _, mod := range result.Modules {
		if len(mod.DocFiles) > 0 || len(mod.KeyFiles) == 0 {
			continue
		}
		recs = append(recs, inventory.Recommendation{
			Type:     inventory.RecAddDocs,
			Priority: inventory.PriorityLow,
			Title:    fmt.Sprintf("Module %s has no documentation", mod.Name),
			Description: fmt.Sprintf(
				"Module %q contains %d source files but no README or other documentation.",
				mod.Name, len(mod.KeyFiles),
			),
			Path:   mod.Path,
			Action: "Add a README.md describing the module.",
		})
	}
	return recs
}

// HeavyIgnoreRatio flags trees where dependency and build artifacts
// dominate the enumeration, which slows every future scan.
func HeavyIgnoreRatio(result *inventory.ProjectScanResult) []inventory.Recommendation {
	stats := result.Statistics
	if stats.TotalFiles < 1000 || stats.Coverage >= 10 {
		return nil
	}
	return []inventory.Recommendation{{
		Type:     inventory.RecOptimize,
		Priority: inventory.PriorityLow,
		Title:    "Scan dominated by ignored files",
		Description: fmt.Sprintf(
			"%d of %d enumerated files were ignored. Checked-in build artifacts or "+
				"dependency directories are inflating scan time.",
			stats.IgnoredFiles, stats.TotalFiles,
		),
		Path:   result.RootPath,
		Action: "Remove generated directories from version control or prune them before scanning.",
	}}
}
