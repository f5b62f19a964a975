package app

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/mrlinuxdude/hyprforge/internal/output"
	"github.com/mrlinuxdude/hyprforge/internal/store"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the last provisioning run, its steps, and backups",
	Args:  cobra.NoArgs,
	RunE:  runStatus,
}

func init() {
	RootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, args []string) error {
	resolvedDBPath, err := getDBPath()
	if err != nil {
		return err
	}
	st, err := store.New(resolvedDBPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	run, err := st.LatestRun()
	if err != nil {
		if errors.Is(err, store.ErrNotInitialized) {
			return err
		}
		return fmt.Errorf("failed to read run history: %w", err)
	}
	if run == nil {
		fmt.Println("No runs recorded yet. Run 'hyprforge install' to provision the desktop.")
		return nil
	}

	glyph := "✓"
	if run.Status != store.RunStatusCompleted {
		glyph = "✗"
	}
	fmt.Printf("%s Last run: %s, started %s", glyph, run.Status, run.StartedAt.Format("2006-01-02 15:04:05"))
	if !run.FinishedAt.IsZero() {
		fmt.Printf(", took %s", run.FinishedAt.Sub(run.StartedAt).Round(time.Second))
	}
	fmt.Printf(" (%s)\n", run.Mode)
	if run.PackageCount > 0 {
		fmt.Printf("  %d packages in the install set\n", run.PackageCount)
	}
	fmt.Println()

	steps, err := st.ListSteps(run.ID)
	if err != nil {
		return fmt.Errorf("failed to read step results: %w", err)
	}
	if len(steps) > 0 {
		fmt.Println("Steps:")
		fmt.Print(output.RenderStepTable(steps))
		fmt.Println()
	}

	results, err := st.ListServiceResults(run.ID)
	if err != nil {
		return fmt.Errorf("failed to read service results: %w", err)
	}
	failed := 0
	for _, r := range results {
		if r.Outcome == "failed" {
			failed++
			output.Warnf("service %s: %s", r.Service, r.Detail)
		}
	}
	if len(results) > 0 && failed == 0 {
		fmt.Printf("Services: %d enabled without failures\n", len(results))
		fmt.Println()
	} else if failed > 0 {
		fmt.Println()
	}

	backups, err := st.ListBackups()
	if err != nil {
		return fmt.Errorf("failed to read backups: %w", err)
	}
	if len(backups) == 0 {
		fmt.Println("Backups: none recorded")
		return nil
	}
	fmt.Println("Backups:")
	fmt.Print(output.RenderBackupTable(backups))
	fmt.Println()
	fmt.Println("Restore one with 'hyprforge undo <id>' or 'hyprforge undo latest'.")
	return nil
}
