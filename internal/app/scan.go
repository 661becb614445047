package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/blackwell-systems/repoatlas/internal/config"
	"github.com/blackwell-systems/repoatlas/internal/detect"
	"github.com/blackwell-systems/repoatlas/internal/filter"
	"github.com/blackwell-systems/repoatlas/internal/inventory"
	"github.com/blackwell-systems/repoatlas/internal/output"
	"github.com/blackwell-systems/repoatlas/internal/scan"
	"github.com/blackwell-systems/repoatlas/internal/store"
)

var (
	scanFlagPhases []string
	scanFlagJSON   bool
	scanFlagSave   bool
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Inventory a repository through the phased pipeline",
	Long: `Scan runs the phased inventory pipeline against a repository root:
the quick phase enumerates and classifies, the module phase extracts
dependencies and entry points, and the deep phase catalogs the files
inside each module. Defaults to the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().StringSliceVar(&scanFlagPhases, "phases", nil, "Phases to run (quick, module, deep); default all")
	scanCmd.Flags().BoolVar(&scanFlagJSON, "json", false, "Output as JSON")
	scanCmd.Flags().BoolVar(&scanFlagSave, "save", false, "Persist the scan as a snapshot")

	rootCmd.AddCommand(scanCmd)
}

// newOrchestrator wires a scan orchestrator from loaded configuration.
func newOrchestrator(cfg *config.Config, opts ...scan.Option) *scan.Orchestrator {
	eng := filter.NewEngine(log.Default())
	eng.ImportConfig(cfg.FileFilters(), cfg.IgnoreRules())
	registry := detect.NewRegistry(log.Default())
	return scan.New(cfg, eng, registry, opts...)
}

// scanRoot resolves the positional path argument, defaulting to cwd.
func scanRoot(args []string) (string, error) {
	if len(args) > 0 {
		return filepath.Abs(args[0])
	}
	return os.Getwd()
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	root, err := scanRoot(args)
	if err != nil {
		return err
	}

	jsonOut := scanFlagJSON || flagJSON

	var opts []scan.Option
	if !jsonOut {
		opts = append(opts, scan.WithProgress(func(p inventory.Progress) {
			fmt.Fprintf(os.Stderr, "\r[%s] %d %s", p.Phase, p.Current, p.Message)
		}))
	}
	orch := newOrchestrator(cfg, opts...)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Limits.Timeout)
	defer cancel()

	phases := cfg.ScanPhases()
	if len(scanFlagPhases) > 0 {
		phases = phases[:0]
		for _, p := range scanFlagPhases {
			phases = append(phases, inventory.ScanPhase(p))
		}
	}

	result, err := orch.Scan(ctx, root, phases...)
	if !jsonOut {
		fmt.Fprint(os.Stderr, "\r\033[K")
	}
	if err != nil {
		return err
	}

	if scanFlagSave {
		db, dbErr := store.Open(config.DBPath())
		if dbErr != nil {
			return fmt.Errorf("opening database: %w", dbErr)
		}
		defer func() { _ = db.Close() }()
		if _, dbErr := db.SaveScan(result, appVersion); dbErr != nil {
			return fmt.Errorf("saving snapshot: %w", dbErr)
		}
	}

	if jsonOut {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}

	renderScanResult(result)
	return nil
}

func renderScanResult(result *inventory.ProjectScanResult) {
	fmt.Println(output.Section("Repository Scan"))
	fmt.Println()
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Root:"),
		result.RootPath)
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Project type:"),
		output.StyleBold.Render(string(result.ProjectType)))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Coverage:"),
		output.CoverageBar(result.Statistics.Coverage, 20))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Files:"),
		fmt.Sprintf("%d scanned / %d total (%d ignored)",
			result.Statistics.ScannedFiles,
			result.Statistics.TotalFiles,
			result.Statistics.IgnoredFiles))
	fmt.Printf(" %s %s\n",
		output.StyleLabel.Render("Duration:"),
		result.Statistics.Duration.Round(1e6).String())

	if len(result.Modules) > 0 {
		fmt.Println(output.Section(fmt.Sprintf("Modules (%d)", len(result.Modules))))
		fmt.Println()
		tbl := output.NewTable("Type", "Name", "Path", "Deps", "Tests")
		for _, mod := range result.Modules {
			tbl.AddRow(
				string(mod.Type),
				mod.Name,
				relToRoot(result.RootPath, mod.Path),
				fmt.Sprintf("%d", len(mod.Dependencies)),
				fmt.Sprintf("%d", len(mod.TestFiles)),
			)
		}
		tbl.Print()
	}

	if len(result.Recommendations) > 0 {
		fmt.Println(output.Section("Recommendations"))
		fmt.Println()
		for _, rec := range result.Recommendations {
			fmt.Printf(" %s %s\n", priorityBadge(rec.Priority), output.StyleBold.Render(rec.Title))
			fmt.Printf("   %s\n", output.StyleMuted.Render(rec.Description))
			if rec.Action != "" {
				fmt.Printf("   %s\n", rec.Action)
			}
		}
	}
	fmt.Println()
}

// relToRoot renders a module path relative to the scan root, or "." for
// the root itself.
func relToRoot(root, path string) string {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return path
	}
	return rel
}

// priorityBadge returns a styled marker for a recommendation priority.
func priorityBadge(p inventory.Priority) string {
	return output.PriorityStyle(string(p)).Render("[" + string(p) + "]")
}
