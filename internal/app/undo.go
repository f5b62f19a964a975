package app

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mrlinuxdude/hyprforge/internal/backup"
	"github.com/mrlinuxdude/hyprforge/internal/output"
	"github.com/mrlinuxdude/hyprforge/internal/store"
)

var (
	undoFlagList bool
	undoFlagYes  bool
)

var undoCmd = &cobra.Command{
	Use:   "undo [backup-id | latest]",
	Short: "Restore a configuration backup",
	Long: `Restores a backup of ~/.config taken before a provisioning run.

The restore copies the backup's contents back over the configuration
directory, overwriting what the install put there.

Arguments:
  backup-id  The numeric ID of the backup to restore
  latest     Restore the most recent backup`,
	Example: `  hyprforge undo --list       # List available backups
  hyprforge undo latest       # Restore the most recent backup
  hyprforge undo 3            # Restore backup ID 3
  hyprforge undo 3 --yes      # Restore without confirmation`,
	Args: cobra.MaximumNArgs(1),
	RunE: runUndo,
}

func init() {
	undoCmd.Flags().BoolVar(&undoFlagList, "list", false, "List available backups")
	undoCmd.Flags().BoolVar(&undoFlagYes, "yes", false, "Skip confirmation prompt")

	RootCmd.AddCommand(undoCmd)
}

func runUndo(cmd *cobra.Command, args []string) error {
	dbPath, err := getDBPath()
	if err != nil {
		return fmt.Errorf("failed to get database path: %w", err)
	}
	st, err := store.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer st.Close()

	mgr := backup.New(st)

	if undoFlagList {
		backups, err := mgr.List()
		if err != nil {
			return err
		}
		if len(backups) == 0 {
			fmt.Println("No backups recorded. Backups are created by 'hyprforge install'.")
			return nil
		}
		fmt.Print(output.RenderBackupTable(backups))
		return nil
	}

	if len(args) == 0 {
		return fmt.Errorf("backup ID or 'latest' required\n\nUse 'hyprforge undo --list' to see available backups")
	}

	var target *store.Backup
	if strings.EqualFold(args[0], "latest") {
		target, err = mgr.Latest()
		if err != nil {
			return err
		}
		if target == nil {
			return fmt.Errorf("no backups recorded; backups are created by 'hyprforge install'")
		}
	} else {
		id, parseErr := strconv.ParseInt(args[0], 10, 64)
		if parseErr != nil {
			return fmt.Errorf("invalid backup ID %q: expected a number or 'latest'", args[0])
		}
		target, err = st.GetBackup(id)
		if err != nil {
			return err
		}
	}

	fmt.Printf("Backup %d: %s (%d files), taken %s\n", target.ID, target.Path, target.FileCount, target.CreatedAt.Format("2006-01-02 15:04:05"))
	if !undoFlagYes && !confirm(fmt.Sprintf("Overwrite %s with this backup?", target.Source)) {
		return fmt.Errorf("restore cancelled")
	}

	restored, err := mgr.Restore(target.ID)
	if err != nil {
		return fmt.Errorf("restore failed: %w", err)
	}
	output.Successf("Restored %s from backup %d", restored.Source, restored.ID)
	return nil
}
