package app

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/blackwell-systems/repoatlas/internal/config"
	"github.com/blackwell-systems/repoatlas/internal/output"
	"github.com/blackwell-systems/repoatlas/internal/store"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check whether the repoatlas setup is healthy",
	Long: `Run a series of health checks against your repoatlas configuration
and snapshot database. Prints a pass/fail line for each check and a
summary of how many checks passed.`,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// doctorCheck holds the result of a single health check.
type doctorCheck struct {
	Name    string `json:"name"`
	Passed  bool   `json:"passed"`
	Message string `json:"message"`
}

// doctorOutput is the JSON-serializable result of the doctor command.
type doctorOutput struct {
	Checks      []doctorCheck `json:"checks"`
	PassedCount int           `json:"passed"`
	TotalCount  int           `json:"total"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	var checks []doctorCheck

	// 1. Configuration loads and validates.
	cfg, err := config.Load(flagConfig)
	if err != nil {
		checks = append(checks, doctorCheck{
			Name: "config", Passed: false,
			Message: fmt.Sprintf("failed to load: %v", err),
		})
	} else if verr := cfg.Validate(); verr != nil {
		checks = append(checks, doctorCheck{
			Name: "config", Passed: false,
			Message: fmt.Sprintf("invalid: %v", verr),
		})
	} else {
		checks = append(checks, doctorCheck{
			Name: "config", Passed: true,
			Message: "configuration loads and validates",
		})
	}

	// 2. Config directory is writable.
	checks = append(checks, checkConfigDir())

	// 3. Snapshot database opens and migrates.
	checks = append(checks, checkDatabase())

	// 4. Current directory is scannable.
	checks = append(checks, checkCwdReadable())

	passed := 0
	for _, c := range checks {
		if c.Passed {
			passed++
		}
	}

	if flagJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doctorOutput{Checks: checks, PassedCount: passed, TotalCount: len(checks)})
	}

	fmt.Println(output.Section("Doctor"))
	fmt.Println()
	for _, c := range checks {
		mark := output.StyleSuccess.Render("pass")
		if !c.Passed {
			mark = output.StyleError.Render("FAIL")
		}
		fmt.Printf(" [%s] %-12s %s\n", mark, c.Name, output.StyleMuted.Render(c.Message))
	}
	fmt.Printf("\n %d/%d checks passed\n\n", passed, len(checks))

	if passed < len(checks) {
		return fmt.Errorf("%d check(s) failed", len(checks)-passed)
	}
	return nil
}

func checkConfigDir() doctorCheck {
	dir := config.ConfigDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return doctorCheck{Name: "config-dir", Passed: false,
			Message: fmt.Sprintf("cannot create %s: %v", dir, err)}
	}
	probe, err := os.CreateTemp(dir, ".doctor-*")
	if err != nil {
		return doctorCheck{Name: "config-dir", Passed: false,
			Message: fmt.Sprintf("%s is not writable: %v", dir, err)}
	}
	name := probe.Name()
	_ = probe.Close()
	_ = os.Remove(name)
	return doctorCheck{Name: "config-dir", Passed: true,
		Message: fmt.Sprintf("%s is writable", dir)}
}

func checkDatabase() doctorCheck {
	db, err := store.Open(config.DBPath())
	if err != nil {
		return doctorCheck{Name: "database", Passed: false,
			Message: fmt.Sprintf("cannot open %s: %v", config.DBPath(), err)}
	}
	defer func() { _ = db.Close() }()
	return doctorCheck{Name: "database", Passed: true,
		Message: fmt.Sprintf("%s opens and migrates", config.DBPath())}
}

func checkCwdReadable() doctorCheck {
	cwd, err := os.Getwd()
	if err != nil {
		return doctorCheck{Name: "working-dir", Passed: false,
			Message: fmt.Sprintf("cannot determine working directory: %v", err)}
	}
	if _, err := os.ReadDir(cwd); err != nil {
		return doctorCheck{Name: "working-dir", Passed: false,
			Message: fmt.Sprintf("cannot read %s: %v", cwd, err)}
	}
	return doctorCheck{Name: "working-dir", Passed: true,
		Message: fmt.Sprintf("%s is readable", cwd)}
}
