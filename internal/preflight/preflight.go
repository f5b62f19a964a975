// Package preflight runs the pre-installation checks that gate every
// mutating step: network reachability, required tools, and free disk space.
package preflight

import (
	"fmt"
	"net"
	"os/exec"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sys/unix"
)

// MinFreeBytes is the minimum free disk space required before any
// package installation or file copy is attempted.
const MinFreeBytes = 2 << 30 // 2 GiB

// probeHost is dialed to verify network reachability. Port 443 because the
// dotfiles repository and AUR are both fetched over HTTPS.
const probeHost = "github.com:443"

// Error is a failed precondition. No mutating step may run once one of
// these has been returned.
type Error struct {
	Check  string
	Detail string
}

func (e *Error) Error() string {
	return fmt.Sprintf("precondition %q failed: %s", e.Check, e.Detail)
}

// Check is the outcome of a single preflight check.
type Check struct {
	Name   string
	OK     bool
	Detail string
}

// Runner executes preflight checks. The probe functions are fields so tests
// can substitute fakes; zero values fall back to the real probes.
type Runner struct {
	Dial      func(network, addr string, timeout time.Duration) (net.Conn, error)
	LookPath  func(file string) (string, error)
	FreeBytes func(path string) (uint64, error)
}

// New returns a Runner wired to the real system probes.
func New() *Runner {
	return &Runner{
		Dial:      net.DialTimeout,
		LookPath:  exec.LookPath,
		FreeBytes: freeBytes,
	}
}

// Run executes all checks against the given home directory. It returns the
// full check list plus a *Error for the first failed check, or nil if all
// checks passed.
func (r *Runner) Run(home string) ([]Check, error) {
	checks := []Check{
		r.checkNetwork(),
		r.checkGit(),
		r.checkDiskSpace(home),
	}

	for _, c := range checks {
		if !c.OK {
			return checks, &Error{Check: c.Name, Detail: c.Detail}
		}
	}
	return checks, nil
}

func (r *Runner) checkNetwork() Check {
	conn, err := r.Dial("tcp", probeHost, 10*time.Second)
	if err != nil {
		return Check{Name: "network", Detail: fmt.Sprintf("cannot reach %s: %v", probeHost, err)}
	}
	conn.Close()
	return Check{Name: "network", OK: true, Detail: "reached " + probeHost}
}

func (r *Runner) checkGit() Check {
	path, err := r.LookPath("git")
	if err != nil {
		return Check{Name: "git", Detail: "git not found in PATH; install git and re-run"}
	}
	return Check{Name: "git", OK: true, Detail: path}
}

func (r *Runner) checkDiskSpace(home string) Check {
	free, err := r.FreeBytes(home)
	if err != nil {
		return Check{Name: "disk", Detail: fmt.Sprintf("cannot determine free space under %s: %v", home, err)}
	}
	if free < MinFreeBytes {
		return Check{
			Name: "disk",
			Detail: fmt.Sprintf("%s free under %s, need at least %s",
				humanize.IBytes(free), home, humanize.IBytes(MinFreeBytes)),
		}
	}
	return Check{Name: "disk", OK: true, Detail: humanize.IBytes(free) + " free"}
}

func freeBytes(path string) (uint64, error) {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return 0, err
	}
	return st.Bavail * uint64(st.Bsize), nil
}
