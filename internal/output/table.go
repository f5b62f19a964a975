package output

import (
	"fmt"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/mrlinuxdude/hyprforge/internal/store"
)

// statusGlyph maps a step status to its colored prefix.
func statusGlyph(status string) string {
	switch status {
	case store.StepStatusOK:
		return colorize(colorGreen, "✓")
	case store.StepStatusWarning:
		return colorize(colorYellow, "⚠")
	case store.StepStatusFailed:
		return colorize(colorRed, "✗")
	default:
		return colorize(colorGray, "-")
	}
}

// RenderStepTable renders the per-step outcomes of a run.
func RenderStepTable(steps []*store.StepResult) string {
	if len(steps) == 0 {
		return "No steps recorded.\n"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("  %-22s %-9s %s\n", "Step", "Status", "Detail"))
	sb.WriteString("  " + strings.Repeat("─", 58) + "\n")
	for _, s := range steps {
		detail := s.Detail
		if len(detail) > 44 {
			detail = detail[:41] + "..."
		}
		sb.WriteString(fmt.Sprintf("%s %-22s %-9s %s\n", statusGlyph(s.Status), s.Step, s.Status, detail))
	}
	return sb.String()
}

// RenderBackupTable renders recorded configuration backups, newest first.
func RenderBackupTable(backups []*store.Backup) string {
	if len(backups) == 0 {
		return "No backups recorded.\n"
	}
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%-5s %-14s %-7s %-9s %s\n", "ID", "Created", "Files", "Size", "Path"))
	sb.WriteString(strings.Repeat("─", 72) + "\n")
	for _, b := range backups {
		sb.WriteString(fmt.Sprintf("%-5d %-14s %-7d %-9s %s\n",
			b.ID,
			formatRelativeTime(b.CreatedAt),
			b.FileCount,
			humanize.IBytes(uint64(b.SizeBytes)),
			b.Path))
	}
	return sb.String()
}

// RenderPackageColumns lays out package names in columns for the plan
// listing.
func RenderPackageColumns(names []string) string {
	if len(names) == 0 {
		return "  (none)\n"
	}
	const perRow = 3
	width := 0
	for _, n := range names {
		if len(n) > width {
			width = len(n)
		}
	}
	var sb strings.Builder
	for i, n := range names {
		sb.WriteString(fmt.Sprintf("  %-*s", width, n))
		if (i+1)%perRow == 0 || i == len(names)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// formatRelativeTime renders a timestamp as a short relative age.
func formatRelativeTime(t time.Time) string {
	if t.IsZero() {
		return "never"
	}
	return humanize.Time(t)
}
