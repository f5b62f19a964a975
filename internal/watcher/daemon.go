package watcher

import (
	"fmt"
	"os"
	"os/exec"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
)

// StartDaemon re-executes the current binary as a detached child running
// `watch --daemon-child`, writes its PID to pidFile, and sends its output
// to logFile.
func StartDaemon(pidFile, logFile string) (int, error) {
	running, err := IsDaemonRunning(pidFile)
	if err != nil {
		return 0, fmt.Errorf("failed to check daemon status: %w", err)
	}
	if running {
		return 0, fmt.Errorf("daemon already running (PID file: %s)", pidFile)
	}

	logF, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return 0, fmt.Errorf("failed to open log file: %w", err)
	}
	defer logF.Close()

	executable, err := os.Executable()
	if err != nil {
		return 0, fmt.Errorf("failed to get executable path: %w", err)
	}

	cmd := exec.Command(executable, "watch", "--daemon-child")
	cmd.Stdout = logF
	cmd.Stderr = logF
	cmd.Stdin = nil
	cmd.SysProcAttr = &syscall.SysProcAttr{
		Setsid: true, // new session, detached from the terminal
	}

	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("failed to start daemon process: %w", err)
	}

	pid := cmd.Process.Pid
	if err := os.WriteFile(pidFile, []byte(fmt.Sprintf("%d\n", pid)), 0644); err != nil {
		cmd.Process.Kill()
		return 0, fmt.Errorf("failed to write PID file: %w", err)
	}

	if err := cmd.Process.Release(); err != nil {
		return 0, fmt.Errorf("failed to release process: %w", err)
	}
	return pid, nil
}

// RunDaemon runs the watcher until SIGTERM or SIGINT, then removes the PID
// file. Called from the daemon child.
func (w *Watcher) RunDaemon(pidFile string) error {
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGTERM, syscall.SIGINT)

	if err := w.Start(); err != nil {
		return fmt.Errorf("failed to start watcher: %w", err)
	}

	sig := <-sigCh
	fmt.Printf("received %v, shutting down\n", sig)

	if err := w.Stop(); err != nil {
		return fmt.Errorf("failed to stop watcher: %w", err)
	}
	os.Remove(pidFile)
	return nil
}

// StopDaemon signals the daemon recorded in pidFile to terminate.
func StopDaemon(pidFile string) error {
	pid, err := readPIDFile(pidFile)
	if err != nil {
		return err
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return fmt.Errorf("failed to find process %d: %w", pid, err)
	}
	if err := proc.Signal(syscall.SIGTERM); err != nil {
		return fmt.Errorf("failed to signal daemon (PID %d): %w", pid, err)
	}
	return nil
}

// IsDaemonRunning reports whether the PID in pidFile belongs to a live
// process. A missing or stale PID file means not running.
func IsDaemonRunning(pidFile string) (bool, error) {
	pid, err := readPIDFile(pidFile)
	if err != nil {
		if os.IsNotExist(err) {
			return false, nil
		}
		return false, err
	}
	proc, err := os.FindProcess(pid)
	if err != nil {
		return false, nil
	}
	// Signal 0 probes liveness without delivering anything.
	if err := proc.Signal(syscall.Signal(0)); err != nil {
		return false, nil
	}
	return true, nil
}

func readPIDFile(pidFile string) (int, error) {
	data, err := os.ReadFile(pidFile)
	if err != nil {
		return 0, err
	}
	pid, err := strconv.Atoi(strings.TrimSpace(string(data)))
	if err != nil {
		return 0, fmt.Errorf("malformed PID file %s: %w", pidFile, err)
	}
	return pid, nil
}
