package app

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

var (
	dbPath string

	// RootCmd is the root command for hyprforge
	RootCmd = &cobra.Command{
		Use:   "hyprforge",
		Short: "One-shot Hyprland/Quickshell desktop provisioner for Arch and Fedora",
		Long: `hyprforge provisions a complete Hyprland desktop with the Quickshell
bar on Arch- and Fedora-family systems: packages, AUR/COPR secondary
sources, local meta-package recipes, dotfiles, services, and session
files, in one run.

Your existing ~/.config is backed up before anything is overwritten,
and 'hyprforge undo' restores it.

Quick Start:
  1. hyprforge doctor      # check preconditions
  2. hyprforge plan        # see what would be installed
  3. hyprforge install     # provision the desktop
  4. Log out and pick the Hyprland session

Examples:
  # Preview the package set and copy plan
  hyprforge plan

  # Provision the desktop
  hyprforge install

  # Reinstall everything, overwriting conflicting files
  hyprforge install --force

  # Show the last run and recorded backups
  hyprforge status

  # Roll the configuration back
  hyprforge undo latest

  # Keep ~/.config in sync with the cloned repo
  hyprforge watch --daemon`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			resolved, _ := getDBPath()
			fmt.Println("hyprforge: Hyprland/Quickshell desktop provisioner")
			fmt.Println()
			if _, err := os.Stat(resolved); os.IsNotExist(err) {
				fmt.Println("Run 'hyprforge doctor' to check your system.")
				fmt.Println("Run 'hyprforge install' to provision the desktop.")
			} else {
				fmt.Println("Tip: Run 'hyprforge status' to see the last run.")
				fmt.Println("     Run 'hyprforge undo --list' to see config backups.")
			}
			fmt.Println("Run 'hyprforge --help' for the full reference.")
			return nil
		},
	}
)

func init() {
	RootCmd.PersistentFlags().StringVar(&dbPath, "db", "", "database path (default: ~/.hyprforge/hyprforge.db)")
	RootCmd.SuggestionsMinimumDistance = 2
}

// Execute runs the root command
func Execute() error {
	return RootCmd.Execute()
}

// hyprforgeDir returns ~/.hyprforge, creating it if needed.
func hyprforgeDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	dir := filepath.Join(home, ".hyprforge")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create hyprforge directory: %w", err)
	}
	return dir, nil
}

// getDBPath returns the database path, using the flag value or default.
func getDBPath() (string, error) {
	if dbPath != "" {
		return dbPath, nil
	}
	dir, err := hyprforgeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "hyprforge.db"), nil
}

// getDefaultPIDFile returns the default watch daemon PID file path.
func getDefaultPIDFile() (string, error) {
	dir, err := hyprforgeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "watch.pid"), nil
}

// getDefaultLogFile returns the default watch daemon log file path.
func getDefaultLogFile() (string, error) {
	dir, err := hyprforgeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "watch.log"), nil
}

// getConfigPath returns the optional user config file path.
func getConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get user home directory: %w", err)
	}
	return filepath.Join(home, ".config", "hyprforge", "config.toml"), nil
}

// repoDir returns where the dotfiles repository is kept between runs so
// 'watch' can re-apply from it.
func repoDir() (string, error) {
	dir, err := hyprforgeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "repo"), nil
}
