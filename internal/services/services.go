// Package services enables systemd units. Enable failures never abort a
// provisioning run; they are aggregated into a single warning.
package services

import (
	"fmt"
	"os/exec"
	"strings"
)

// Outcomes for one service.
const (
	OutcomeEnabled = "enabled"
	OutcomeFailed  = "failed"
	OutcomeSkipped = "skipped-unavailable"
)

// Result is the outcome of enabling one service.
type Result struct {
	Service string
	Outcome string
	Detail  string
}

type runFunc func(dir, name string, args ...string) ([]byte, error)

func runCommand(dir, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// Enabler enables system services via systemctl.
type Enabler struct {
	run runFunc
}

// New returns an Enabler using the real systemctl.
func New() *Enabler {
	return &Enabler{run: runCommand}
}

// EnableAll enables each named service. startNow names the one service that
// is also started immediately (the display manager); it may be empty.
// Services whose unit does not exist are reported as skipped-unavailable.
func (e *Enabler) EnableAll(names []string, startNow string) []Result {
	results := make([]Result, 0, len(names))
	for _, name := range names {
		results = append(results, e.enable(name, name == startNow))
	}
	return results
}

func (e *Enabler) enable(name string, start bool) Result {
	args := []string{"enable"}
	if start {
		args = append(args, "--now")
	}
	args = append(args, name)

	out, err := e.run("", "sudo", append([]string{"systemctl"}, args...)...)
	if err == nil {
		return Result{Service: name, Outcome: OutcomeEnabled}
	}
	if strings.Contains(strings.ToLower(string(out)), "does not exist") ||
		strings.Contains(strings.ToLower(string(out)), "not found") {
		return Result{Service: name, Outcome: OutcomeSkipped, Detail: "unit not installed"}
	}
	return Result{
		Service: name,
		Outcome: OutcomeFailed,
		Detail:  fmt.Sprintf("%v: %s", err, strings.TrimSpace(string(out))),
	}
}

// FailureCount returns how many results failed. Skipped services do not
// count as failures.
func FailureCount(results []Result) int {
	n := 0
	for _, r := range results {
		if r.Outcome == OutcomeFailed {
			n++
		}
	}
	return n
}
