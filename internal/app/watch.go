package app

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/mrlinuxdude/hyprforge/internal/config"
	"github.com/mrlinuxdude/hyprforge/internal/output"
	"github.com/mrlinuxdude/hyprforge/internal/watcher"
)

var (
	watchDaemon      bool
	watchDaemonChild bool
	watchPIDFile     string
	watchLogFile     string
	watchStop        bool

	watchCmd = &cobra.Command{
		Use:   "watch",
		Short: "Re-apply configuration when the dotfiles repository changes",
		Long: `Watches the cloned dotfiles repository and re-applies the
configuration copy to your home directory whenever files change. Edit
the repository clone, and the live config follows a couple of seconds
later.

Watch modes:
  • Foreground (default): run in the current terminal, Ctrl+C to stop
  • Daemon: run as a background process
  • Stop: stop a running daemon

Requires a prior 'hyprforge install' (the repository clone it made is
what gets watched).`,
		Example: `  # Run in foreground (Ctrl+C to stop)
  hyprforge watch

  # Run as background daemon
  hyprforge watch --daemon

  # Stop the daemon
  hyprforge watch --stop`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}
)

func init() {
	watchCmd.Flags().BoolVar(&watchDaemon, "daemon", false, "run as background daemon")
	watchCmd.Flags().BoolVar(&watchDaemonChild, "daemon-child", false, "internal flag for daemon child process")
	watchCmd.Flags().StringVar(&watchPIDFile, "pid-file", "", "PID file path (default: ~/.hyprforge/watch.pid)")
	watchCmd.Flags().StringVar(&watchLogFile, "log-file", "", "log file path (default: ~/.hyprforge/watch.log)")
	watchCmd.Flags().BoolVar(&watchStop, "stop", false, "stop running daemon")

	watchCmd.Flags().MarkHidden("daemon-child")

	RootCmd.AddCommand(watchCmd)
}

func runWatch(cmd *cobra.Command, args []string) error {
	if watchPIDFile == "" {
		defaultPID, err := getDefaultPIDFile()
		if err != nil {
			return fmt.Errorf("failed to get default PID file path: %w", err)
		}
		watchPIDFile = defaultPID
	}
	if watchLogFile == "" {
		defaultLog, err := getDefaultLogFile()
		if err != nil {
			return fmt.Errorf("failed to get default log file path: %w", err)
		}
		watchLogFile = defaultLog
	}

	if watchStop {
		return stopWatchDaemon()
	}

	if watchDaemon {
		return startWatchDaemon()
	}

	w, err := newRepoWatcher()
	if err != nil {
		return err
	}

	if watchDaemonChild {
		// Daemon child: stdout/stderr are redirected to the log file.
		return w.RunDaemon(watchPIDFile)
	}
	return runWatchForeground(w)
}

// newRepoWatcher wires a watcher over the repository clone that re-applies
// the configuration copy on change.
func newRepoWatcher() (*watcher.Watcher, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, fmt.Errorf("failed to get user home directory: %w", err)
	}
	cfgPath, err := getConfigPath()
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}
	rdir, err := repoDir()
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(rdir); os.IsNotExist(err) {
		return nil, fmt.Errorf("no repository clone at %s; run 'hyprforge install' first", rdir)
	}

	apply := func() error {
		plan := buildCopyPlan(rdir, home, cfg.TemplateHome)
		warnings, err := plan.Apply()
		for _, w := range warnings {
			output.Warnf("%s", w)
		}
		if err != nil {
			return err
		}
		output.Successf("Re-applied %d configuration trees", len(plan.Entries))
		return nil
	}
	return watcher.New(rdir, apply)
}

func stopWatchDaemon() error {
	running, err := watcher.IsDaemonRunning(watchPIDFile)
	if err != nil {
		return fmt.Errorf("failed to check daemon status: %w", err)
	}
	if !running {
		fmt.Println("Daemon is not running")
		return nil
	}

	spinner := output.NewSpinner("Stopping daemon...")
	if err := watcher.StopDaemon(watchPIDFile); err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to stop daemon: %w", err)
	}
	spinner.StopWithMessage("✓ Daemon stopped")
	return nil
}

func startWatchDaemon() error {
	// Fail on a missing clone before forking so the error reaches the
	// terminal instead of the log file.
	if _, err := newRepoWatcher(); err != nil {
		return err
	}

	spinner := output.NewSpinner("Starting daemon...")
	pid, err := watcher.StartDaemon(watchPIDFile, watchLogFile)
	if err != nil {
		spinner.Stop()
		return fmt.Errorf("failed to start daemon: %w", err)
	}
	spinner.StopWithMessage(fmt.Sprintf("✓ Daemon started (PID %d)", pid))

	fmt.Printf("\n  PID file: %s\n", watchPIDFile)
	fmt.Printf("  Log file: %s\n", watchLogFile)
	fmt.Printf("\nTo stop: hyprforge watch --stop\n")
	return nil
}

func runWatchForeground(w *watcher.Watcher) error {
	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}
	fmt.Println("Watching the dotfiles repository. Press Ctrl+C to stop.")

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)
	sig := <-sigCh
	fmt.Printf("\nReceived signal %v, shutting down...\n", sig)

	if err := w.Stop(); err != nil {
		return fmt.Errorf("failed to stop watcher: %w", err)
	}
	fmt.Println("Watcher stopped")
	return nil
}
