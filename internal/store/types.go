package store

import "time"

// Run statuses.
const (
	RunStatusRunning   = "running"
	RunStatusCompleted = "completed"
	RunStatusFailed    = "failed"
)

// Step statuses.
const (
	StepStatusOK      = "ok"
	StepStatusWarning = "warning"
	StepStatusFailed  = "failed"
	StepStatusSkipped = "skipped"
)

// Run is one invocation of the provisioning flow.
type Run struct {
	ID           int64
	StartedAt    time.Time
	FinishedAt   time.Time // zero until the run finishes
	Mode         string    // "install" or "install --force"
	Status       string
	PackageCount int
}

// StepResult is the recorded outcome of one provisioning step within a run.
type StepResult struct {
	RunID      int64
	Step       string
	Status     string
	Detail     string
	RecordedAt time.Time
}

// Backup is a point-in-time copy of the user's configuration directory.
type Backup struct {
	ID        int64
	CreatedAt time.Time
	Reason    string
	Source    string
	Path      string
	FileCount int
	SizeBytes int64
}

// ServiceResult is the recorded outcome of enabling one system service.
type ServiceResult struct {
	RunID   int64
	Service string
	Outcome string // "enabled", "failed", or "skipped-unavailable"
	Detail  string
}
