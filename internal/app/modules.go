package app

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/repoatlas/internal/config"
	"github.com/blackwell-systems/repoatlas/internal/inventory"
	"github.com/blackwell-systems/repoatlas/internal/output"
)

var (
	modulesFlagJSON bool
	modulesFlagType string
)

var modulesCmd = &cobra.Command{
	Use:   "modules [path]",
	Short: "Discover and list modules with their dependencies",
	Long: `Modules runs the quick and module phases against a repository root
and lists every discovered module with its type, entry points, and
dependency counts. Defaults to the current directory.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runModules,
}

func init() {
	modulesCmd.Flags().BoolVar(&modulesFlagJSON, "json", false, "Output as JSON")
	modulesCmd.Flags().StringVar(&modulesFlagType, "type", "", "Only show modules of this type (go, python, ...)")

	rootCmd.AddCommand(modulesCmd)
}

func runModules(cmd *cobra.Command, args []string) error {
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

	orch := newOrchestrator(cfg)

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Limits.Timeout)
	defer cancel()

	result, err := orch.Scan(ctx, root, inventory.PhaseQuick, inventory.PhaseModule)
	if err != nil {
		return err
	}

	modules := result.Modules
	if modulesFlagType != "" {
		filtered := modules[:0]
		for _, mod := range modules {
			if strings.EqualFold(string(mod.Type), modulesFlagType) {
				filtered = append(filtered, mod)
			}
		}
		modules = filtered
	}

	if modulesFlagJSON || flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(modules)
	}

	if len(modules) == 0 {
		fmt.Println(output.StyleMuted.Render(" No modules found."))
		return nil
	}

	fmt.Println(output.Section(fmt.Sprintf("Modules (%d)", len(modules))))
	fmt.Println()
	for _, mod := range modules {
		fmt.Printf(" %s %s  %s\n",
			output.StyleBold.Render(mod.Name),
			output.StyleMuted.Render("("+string(mod.Type)+")"),
			relToRoot(result.RootPath, mod.Path))
		if mod.Metadata.Description != "" {
			fmt.Printf("   %s\n", output.StyleMuted.Render(mod.Metadata.Description))
		}
		if len(mod.EntryPoints) > 0 {
			fmt.Printf("   entry: %s\n", strings.Join(mod.EntryPoints, ", "))
		}
		fmt.Printf("   deps: %d production, %d development\n",
			len(mod.Dependencies), len(mod.DevDependencies))
		fmt.Println()
	}
	return nil
}
