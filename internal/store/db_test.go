package store

import (
	"errors"
	"strings"
	"testing"
	"time"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.CreateSchema(); err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}
	return s
}

// TestLatestRun_NoSchema_ReturnsErrNotInitialized verifies queries against
// an uninitialized database return the sentinel.
func TestLatestRun_NoSchema_ReturnsErrNotInitialized(t *testing.T) {
	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	defer s.Close()

	// Do NOT call CreateSchema — simulate a database no run ever touched.
	_, err = s.LatestRun()
	if err == nil {
		t.Fatal("LatestRun() should fail on an uninitialized database")
	}
	if !errors.Is(err, ErrNotInitialized) {
		t.Errorf("error = %v; want errors.Is(err, ErrNotInitialized) to be true", err)
	}
}

// TestErrNotInitialized_MentionsInstall verifies the sentinel's message
// tells the user what to run.
func TestErrNotInitialized_MentionsInstall(t *testing.T) {
	if !strings.Contains(ErrNotInitialized.Error(), "hyprforge install") {
		t.Errorf("ErrNotInitialized = %q; should mention 'hyprforge install'", ErrNotInitialized)
	}
}

// TestRunLifecycle_CreateFinishLatest verifies the create → finish → read
// round trip for runs.
func TestRunLifecycle_CreateFinishLatest(t *testing.T) {
	s := newTestStore(t)

	id, err := s.CreateRun("install --force")
	if err != nil {
		t.Fatalf("CreateRun() failed: %v", err)
	}
	if err := s.FinishRun(id, RunStatusCompleted, 42); err != nil {
		t.Fatalf("FinishRun() failed: %v", err)
	}

	run, err := s.LatestRun()
	if err != nil {
		t.Fatalf("LatestRun() failed: %v", err)
	}
	if run == nil {
		t.Fatal("LatestRun() = nil; want the finished run")
	}
	if run.ID != id {
		t.Errorf("ID = %d; want %d", run.ID, id)
	}
	if run.Mode != "install --force" {
		t.Errorf("Mode = %q; want %q", run.Mode, "install --force")
	}
	if run.Status != RunStatusCompleted {
		t.Errorf("Status = %q; want %q", run.Status, RunStatusCompleted)
	}
	if run.PackageCount != 42 {
		t.Errorf("PackageCount = %d; want 42", run.PackageCount)
	}
	if run.FinishedAt.IsZero() {
		t.Error("FinishedAt is zero after FinishRun")
	}
}

// TestLatestRun_Empty_ReturnsNil verifies an initialized but empty
// database yields (nil, nil).
func TestLatestRun_Empty_ReturnsNil(t *testing.T) {
	s := newTestStore(t)
	run, err := s.LatestRun()
	if err != nil {
		t.Fatalf("LatestRun() failed: %v", err)
	}
	if run != nil {
		t.Errorf("LatestRun() = %+v; want nil", run)
	}
}

// TestRecordStep_ReplaceKeepsLatestStatus verifies INSERT OR REPLACE
// semantics for re-recorded steps.
func TestRecordStep_ReplaceKeepsLatestStatus(t *testing.T) {
	s := newTestStore(t)
	id, err := s.CreateRun("install")
	if err != nil {
		t.Fatalf("CreateRun() failed: %v", err)
	}

	if err := s.RecordStep(id, "packages", StepStatusWarning, "3 failures"); err != nil {
		t.Fatalf("RecordStep() failed: %v", err)
	}
	if err := s.RecordStep(id, "packages", StepStatusOK, ""); err != nil {
		t.Fatalf("RecordStep() replace failed: %v", err)
	}

	steps, err := s.ListSteps(id)
	if err != nil {
		t.Fatalf("ListSteps() failed: %v", err)
	}
	if len(steps) != 1 {
		t.Fatalf("len(steps) = %d; want 1", len(steps))
	}
	if steps[0].Status != StepStatusOK {
		t.Errorf("Status = %q; want %q", steps[0].Status, StepStatusOK)
	}
}

// TestBackups_InsertGetList verifies backup round trips and newest-first
// ordering.
func TestBackups_InsertGetList(t *testing.T) {
	s := newTestStore(t)

	first, err := s.InsertBackup(&Backup{
		CreatedAt: time.Now().Add(-time.Hour),
		Reason:    "pre-install",
		Source:    "/home/user/.config",
		Path:      "/home/user/.config.backup.2026-08-29-120000",
		FileCount: 120,
		SizeBytes: 5 << 20,
	})
	if err != nil {
		t.Fatalf("InsertBackup() failed: %v", err)
	}
	second, err := s.InsertBackup(&Backup{
		CreatedAt: time.Now(),
		Reason:    "pre-install",
		Source:    "/home/user/.config",
		Path:      "/home/user/.config.backup.2026-08-29-130000",
		FileCount: 121,
		SizeBytes: 5 << 20,
	})
	if err != nil {
		t.Fatalf("InsertBackup() failed: %v", err)
	}

	got, err := s.GetBackup(first)
	if err != nil {
		t.Fatalf("GetBackup() failed: %v", err)
	}
	if got.FileCount != 120 {
		t.Errorf("FileCount = %d; want 120", got.FileCount)
	}

	list, err := s.ListBackups()
	if err != nil {
		t.Fatalf("ListBackups() failed: %v", err)
	}
	if len(list) != 2 {
		t.Fatalf("len = %d; want 2", len(list))
	}
	if list[0].ID != second {
		t.Errorf("first listed = %d; want newest (%d)", list[0].ID, second)
	}
}

// TestGetBackup_Missing_ReturnsError verifies unknown IDs fail clearly.
func TestGetBackup_Missing_ReturnsError(t *testing.T) {
	s := newTestStore(t)
	if _, err := s.GetBackup(999); err == nil {
		t.Fatal("GetBackup(999) should fail")
	}
}

// TestServiceResults_AggregationSource verifies service outcomes round trip
// so the status command can rebuild the failure count.
func TestServiceResults_AggregationSource(t *testing.T) {
	s := newTestStore(t)
	id, err := s.CreateRun("install")
	if err != nil {
		t.Fatalf("CreateRun() failed: %v", err)
	}

	outcomes := map[string]string{
		"sddm":           "enabled",
		"NetworkManager": "enabled",
		"bluetooth":      "failed",
		"tuned":          "skipped-unavailable",
	}
	for svc, outcome := range outcomes {
		if err := s.RecordServiceResult(id, svc, outcome, ""); err != nil {
			t.Fatalf("RecordServiceResult(%s) failed: %v", svc, err)
		}
	}

	results, err := s.ListServiceResults(id)
	if err != nil {
		t.Fatalf("ListServiceResults() failed: %v", err)
	}
	if len(results) != len(outcomes) {
		t.Fatalf("len = %d; want %d", len(results), len(outcomes))
	}
	failures := 0
	for _, r := range results {
		if r.Outcome == "failed" {
			failures++
		}
	}
	if failures != 1 {
		t.Errorf("failure count = %d; want 1", failures)
	}
}
