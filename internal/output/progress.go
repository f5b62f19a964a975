// Package output provides terminal output utilities for hyprforge:
// colored status lines, a progress bar for package batches, a spinner for
// indeterminate operations, and tables for runs and backups. Progress
// indicators are safe for concurrent use and degrade to plain lines when
// stdout is not a terminal.
package output

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/mattn/go-isatty"
)

// ANSI color codes for status prefixes.
const (
	colorReset  = "\033[0m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorRed    = "\033[31m"
	colorGray   = "\033[90m"
)

// IsColorEnabled returns true if ANSI color codes should be emitted: stdout
// is a TTY and NO_COLOR is unset.
func IsColorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd())
}

func colorize(color, text string) string {
	if IsColorEnabled() {
		return color + text + colorReset
	}
	return text
}

// Successf prints a ✓ status line.
func Successf(format string, args ...any) {
	fmt.Printf("%s %s\n", colorize(colorGreen, "✓"), fmt.Sprintf(format, args...))
}

// Warnf prints a ⚠ status line.
func Warnf(format string, args ...any) {
	fmt.Printf("%s %s\n", colorize(colorYellow, "⚠"), fmt.Sprintf(format, args...))
}

// Failf prints a ✗ status line.
func Failf(format string, args ...any) {
	fmt.Printf("%s %s\n", colorize(colorRed, "✗"), fmt.Sprintf(format, args...))
}

// writerIsTTY reports whether w is backed by a terminal. Plain io.Writer
// values such as *bytes.Buffer are never TTYs.
func writerIsTTY(w io.Writer) bool {
	type fder interface{ Fd() uintptr }
	if f, ok := w.(fder); ok {
		return isatty.IsTerminal(f.Fd())
	}
	return false
}

// ProgressBar renders "[=====>    ] 42% description" on one line.
type ProgressBar struct {
	mu          sync.Mutex
	writer      io.Writer
	total       int
	current     int
	description string
	width       int
}

// NewProgress creates a progress bar over total items writing to stdout.
func NewProgress(total int, description string) *ProgressBar {
	return &ProgressBar{
		writer:      os.Stdout,
		total:       total,
		description: description,
		width:       30,
	}
}

// Increment advances the bar by one item and re-renders.
func (p *ProgressBar) Increment() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current < p.total {
		p.current++
	}
	p.render()
}

// SetDescription updates the trailing description text.
func (p *ProgressBar) SetDescription(description string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.description = description
	p.render()
}

// Finish completes the bar and moves to the next line.
func (p *ProgressBar) Finish() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = p.total
	p.render()
	if writerIsTTY(p.writer) {
		fmt.Fprintln(p.writer)
	}
}

func (p *ProgressBar) render() {
	if p.total == 0 {
		return
	}
	percent := p.current * 100 / p.total
	if !writerIsTTY(p.writer) {
		// Non-TTY: one plain line per render, no carriage returns.
		fmt.Fprintf(p.writer, "%d%% %s\n", percent, p.description)
		return
	}
	filled := p.width * p.current / p.total
	bar := strings.Repeat("=", filled)
	if filled < p.width {
		bar += ">" + strings.Repeat(" ", p.width-filled-1)
	}
	fmt.Fprintf(p.writer, "\r\033[K[%s] %3d%% %s", bar, percent, p.description)
}

// Spinner renders an animated indicator for operations without a known
// total, such as a package manager invocation.
type Spinner struct {
	mu      sync.Mutex
	writer  io.Writer
	message string
	stopCh  chan struct{}
	doneCh  chan struct{}
	stopped bool
}

var spinnerFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}

// NewSpinner starts a spinner with the given message.
func NewSpinner(message string) *Spinner {
	s := &Spinner{
		writer:  os.Stdout,
		message: message,
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}
	if !writerIsTTY(s.writer) {
		fmt.Fprintln(s.writer, message)
		close(s.doneCh)
		return s
	}
	go s.spin()
	return s
}

func (s *Spinner) spin() {
	defer close(s.doneCh)
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()
	frame := 0
	for {
		select {
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.mu.Lock()
			fmt.Fprintf(s.writer, "\r\033[K%s %s", spinnerFrames[frame%len(spinnerFrames)], s.message)
			s.mu.Unlock()
			frame++
		}
	}
}

// Stop halts the spinner and clears its line.
func (s *Spinner) Stop() {
	s.StopWithMessage("")
}

// StopWithMessage halts the spinner and replaces its line with message.
func (s *Spinner) StopWithMessage(message string) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	if writerIsTTY(s.writer) {
		close(s.stopCh)
		<-s.doneCh
		fmt.Fprint(s.writer, "\r\033[K")
	}
	if message != "" {
		fmt.Fprintln(s.writer, message)
	}
}
