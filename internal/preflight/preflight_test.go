package preflight

import (
	"errors"
	"net"
	"strings"
	"testing"
	"time"
)

func passingRunner() *Runner {
	return &Runner{
		Dial: func(network, addr string, timeout time.Duration) (net.Conn, error) {
			c, s := net.Pipe()
			s.Close()
			return c, nil
		},
		LookPath: func(file string) (string, error) {
			return "/usr/bin/" + file, nil
		},
		FreeBytes: func(path string) (uint64, error) {
			return MinFreeBytes * 4, nil
		},
	}
}

// TestRun_AllProbesPass_NoError verifies that Run returns all checks OK and
// no error when every probe succeeds.
func TestRun_AllProbesPass_NoError(t *testing.T) {
	checks, err := passingRunner().Run("/home/user")
	if err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if len(checks) != 3 {
		t.Fatalf("len(checks) = %d; want 3", len(checks))
	}
	for _, c := range checks {
		if !c.OK {
			t.Errorf("check %q failed unexpectedly: %s", c.Name, c.Detail)
		}
	}
}

// TestRun_DiskBelowThreshold_FailsNamingDiskCheck verifies the 2 GiB gate:
// below the threshold Run must return a *Error naming the disk check.
func TestRun_DiskBelowThreshold_FailsNamingDiskCheck(t *testing.T) {
	r := passingRunner()
	r.FreeBytes = func(path string) (uint64, error) {
		return MinFreeBytes - 1, nil
	}

	_, err := r.Run("/home/user")
	if err == nil {
		t.Fatal("Run() should fail when free space is below the threshold")
	}
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("error = %T; want *preflight.Error", err)
	}
	if pe.Check != "disk" {
		t.Errorf("failed check = %q; want %q", pe.Check, "disk")
	}
}

// TestRun_NetworkUnreachable_FailsNamingNetworkCheck verifies that a dial
// failure is reported as the network precondition.
func TestRun_NetworkUnreachable_FailsNamingNetworkCheck(t *testing.T) {
	r := passingRunner()
	r.Dial = func(network, addr string, timeout time.Duration) (net.Conn, error) {
		return nil, errors.New("no route to host")
	}

	_, err := r.Run("/home/user")
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v; want *preflight.Error", err)
	}
	if pe.Check != "network" {
		t.Errorf("failed check = %q; want %q", pe.Check, "network")
	}
}

// TestRun_GitMissing_FailsNamingGitCheck verifies that a missing git binary
// fails the git precondition with an actionable message.
func TestRun_GitMissing_FailsNamingGitCheck(t *testing.T) {
	r := passingRunner()
	r.LookPath = func(file string) (string, error) {
		return "", errors.New("not found")
	}

	_, err := r.Run("/home/user")
	var pe *Error
	if !errors.As(err, &pe) {
		t.Fatalf("error = %v; want *preflight.Error", err)
	}
	if pe.Check != "git" {
		t.Errorf("failed check = %q; want %q", pe.Check, "git")
	}
	if !strings.Contains(pe.Detail, "git") {
		t.Errorf("detail %q should mention git", pe.Detail)
	}
}

// TestError_Message_NamesFailedCheck verifies the Error string names the
// check so the operator knows what to fix.
func TestError_Message_NamesFailedCheck(t *testing.T) {
	e := &Error{Check: "disk", Detail: "1.0 GiB free, need at least 2.0 GiB"}
	msg := e.Error()
	if !strings.Contains(msg, "disk") {
		t.Errorf("Error() = %q; should contain the check name", msg)
	}
	if !strings.Contains(msg, "need at least") {
		t.Errorf("Error() = %q; should contain the detail", msg)
	}
}
