package services

import (
	"errors"
	"strings"
	"testing"
)

// fakeSystemctl fails services listed in fail, reports services listed in
// missing as nonexistent units, and records every invocation.
func fakeSystemctl(fail, missing map[string]bool, calls *[]string) runFunc {
	return func(dir, name string, args ...string) ([]byte, error) {
		argv := strings.Join(append([]string{name}, args...), " ")
		*calls = append(*calls, argv)
		unit := args[len(args)-1]
		if missing[unit] {
			return []byte("Failed to enable unit: Unit file " + unit + ".service does not exist."), errors.New("exit status 1")
		}
		if fail[unit] {
			return []byte("Failed to enable unit: Access denied"), errors.New("exit status 1")
		}
		return nil, nil
	}
}

// TestEnableAll_FailureCountMatchesFailedServices verifies the aggregation
// law: the count equals the number of non-success enables, regardless of
// which services failed.
func TestEnableAll_FailureCountMatchesFailedServices(t *testing.T) {
	var calls []string
	e := &Enabler{run: fakeSystemctl(
		map[string]bool{"bluetooth": true, "tuned": true},
		nil,
		&calls,
	)}

	results := e.EnableAll([]string{"sddm", "NetworkManager", "bluetooth", "tuned"}, "")
	if got := FailureCount(results); got != 2 {
		t.Errorf("FailureCount() = %d; want 2", got)
	}
	if len(results) != 4 {
		t.Errorf("len(results) = %d; want 4", len(results))
	}
}

// TestEnableAll_MissingUnit_SkippedNotFailed verifies unavailable units are
// skipped-unavailable and excluded from the failure count.
func TestEnableAll_MissingUnit_SkippedNotFailed(t *testing.T) {
	var calls []string
	e := &Enabler{run: fakeSystemctl(nil, map[string]bool{"power-profiles-daemon": true}, &calls)}

	results := e.EnableAll([]string{"sddm", "power-profiles-daemon"}, "")
	if got := FailureCount(results); got != 0 {
		t.Errorf("FailureCount() = %d; want 0", got)
	}
	var skipped *Result
	for i := range results {
		if results[i].Service == "power-profiles-daemon" {
			skipped = &results[i]
		}
	}
	if skipped == nil || skipped.Outcome != OutcomeSkipped {
		t.Errorf("missing unit outcome = %+v; want %q", skipped, OutcomeSkipped)
	}
}

// TestEnableAll_StartNow_OnlyDesignatedServiceStarted verifies only the
// designated service gets --now.
func TestEnableAll_StartNow_OnlyDesignatedServiceStarted(t *testing.T) {
	var calls []string
	e := &Enabler{run: fakeSystemctl(nil, nil, &calls)}

	e.EnableAll([]string{"NetworkManager", "sddm"}, "sddm")
	if len(calls) != 2 {
		t.Fatalf("got %d calls; want 2", len(calls))
	}
	if strings.Contains(calls[0], "--now") {
		t.Errorf("call %q should not start the service", calls[0])
	}
	if !strings.Contains(calls[1], "--now") {
		t.Errorf("call %q should enable --now the designated service", calls[1])
	}
}

// TestEnableAll_FailedResult_CarriesDetail verifies failures keep the
// systemctl output for the aggregated warning.
func TestEnableAll_FailedResult_CarriesDetail(t *testing.T) {
	var calls []string
	e := &Enabler{run: fakeSystemctl(map[string]bool{"sddm": true}, nil, &calls)}

	results := e.EnableAll([]string{"sddm"}, "")
	if results[0].Outcome != OutcomeFailed {
		t.Fatalf("Outcome = %q; want %q", results[0].Outcome, OutcomeFailed)
	}
	if !strings.Contains(results[0].Detail, "Access denied") {
		t.Errorf("Detail = %q; should carry the systemctl output", results[0].Detail)
	}
}
