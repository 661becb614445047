package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/repoatlas/internal/config"
	"github.com/blackwell-systems/repoatlas/internal/inventory"
	"github.com/blackwell-systems/repoatlas/internal/output"
	"github.com/blackwell-systems/repoatlas/internal/store"
)

var (
	recommendJSON    bool
	recommendResolve int64
)

var recommendCmd = &cobra.Command{
	Use:   "recommend",
	Short: "List open recommendations from saved snapshots",
	Long: `Recommend lists every open recommendation recorded by saved scans
('scan --save' or 'track'). Resolved recommendations are hidden.`,
	RunE: runRecommend,
}

func init() {
	recommendCmd.Flags().BoolVar(&recommendJSON, "json", false, "Output as JSON")
	recommendCmd.Flags().Int64Var(&recommendResolve, "resolve", 0, "Mark a recommendation resolved by ID")
	rootCmd.AddCommand(recommendCmd)
}

func runRecommend(cmd *cobra.Command, args []string) error {
	db, err := store.Open(config.DBPath())
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer func() { _ = db.Close() }()

	if recommendResolve > 0 {
		if err := db.ResolveRecommendation(recommendResolve); err != nil {
			return fmt.Errorf("resolving recommendation %d: %w", recommendResolve, err)
		}
		fmt.Printf("Resolved recommendation #%d\n", recommendResolve)
		return nil
	}

	recs, err := db.GetOpenRecommendations()
	if err != nil {
		return fmt.Errorf("loading recommendations: %w", err)
	}

	if recommendJSON || flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(recs)
	}

	if len(recs) == 0 {
		fmt.Println(output.StyleMuted.Render(" No open recommendations."))
		return nil
	}

	fmt.Println(output.Section(fmt.Sprintf("Open Recommendations (%d)", len(recs))))
	fmt.Println()
	for _, r := range recs {
		fmt.Printf(" #%d %s %s\n", r.ID,
			priorityBadge(inventory.Priority(r.Priority)),
			output.StyleBold.Render(r.Title))
		fmt.Printf("   %s\n", output.StyleMuted.Render(r.Description))
		if r.Action != "" {
			fmt.Printf("   %s\n", r.Action)
		}
	}
	fmt.Println()
	return nil
}
