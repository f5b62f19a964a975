// Package backup creates and restores timestamped copies of the user's
// configuration directory.
package backup

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mrlinuxdude/hyprforge/internal/dotfiles"
	"github.com/mrlinuxdude/hyprforge/internal/store"
)

// manifestName is written inside each backup directory and excluded from
// restores.
const manifestName = "hyprforge-backup.json"

// Manifest is the JSON metadata stored inside a backup directory, so a
// backup remains self-describing even without the database.
type Manifest struct {
	CreatedAt time.Time
	Reason    string
	Source    string
	FileCount int
	SizeBytes int64
}

// Manager creates, lists, and restores configuration backups, recording
// them in the store.
type Manager struct {
	store *store.Store
}

// New returns a backup Manager backed by st.
func New(st *store.Store) *Manager {
	return &Manager{store: st}
}

// Create copies configDir into a sibling directory named
// <configDir>.backup.<timestamp>, writes the manifest, and records the
// backup. Unlike the per-entry pre-copy backups, a failure here is returned
// to the caller: this backup is what `hyprforge undo` restores.
func (m *Manager) Create(configDir, reason string) (*store.Backup, error) {
	info, err := os.Stat(configDir)
	if err != nil {
		return nil, fmt.Errorf("cannot back up %s: %w", configDir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("cannot back up %s: not a directory", configDir)
	}

	timestamp := time.Now().Format("2006-01-02-150405")
	dest := fmt.Sprintf("%s.backup.%s", configDir, timestamp)
	if err := dotfiles.CopyTree(configDir, dest); err != nil {
		return nil, fmt.Errorf("backup copy to %s failed: %w", dest, err)
	}

	fileCount, sizeBytes, err := treeStats(dest)
	if err != nil {
		return nil, fmt.Errorf("failed to measure backup %s: %w", dest, err)
	}

	b := &store.Backup{
		CreatedAt: time.Now(),
		Reason:    reason,
		Source:    configDir,
		Path:      dest,
		FileCount: fileCount,
		SizeBytes: sizeBytes,
	}

	manifest := Manifest{
		CreatedAt: b.CreatedAt,
		Reason:    reason,
		Source:    configDir,
		FileCount: fileCount,
		SizeBytes: sizeBytes,
	}
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal manifest: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dest, manifestName), data, 0644); err != nil {
		return nil, fmt.Errorf("failed to write manifest: %w", err)
	}

	b.ID, err = m.store.InsertBackup(b)
	if err != nil {
		return nil, err
	}
	return b, nil
}

// Restore copies the backup with the given ID back over its source
// directory, skipping the manifest. Files created since the backup are
// kept; files from the backup overwrite.
func (m *Manager) Restore(id int64) (*store.Backup, error) {
	b, err := m.store.GetBackup(id)
	if err != nil {
		return nil, err
	}
	if _, err := os.Stat(b.Path); err != nil {
		return nil, fmt.Errorf("backup directory %s is missing: %w", b.Path, err)
	}
	if err := restoreTree(b.Path, b.Source); err != nil {
		return nil, fmt.Errorf("failed to restore %s: %w", b.Path, err)
	}
	return b, nil
}

// List returns all recorded backups, newest first.
func (m *Manager) List() ([]*store.Backup, error) {
	return m.store.ListBackups()
}

// Latest returns the most recent backup, or nil if none exist.
func (m *Manager) Latest() (*store.Backup, error) {
	backups, err := m.store.ListBackups()
	if err != nil {
		return nil, err
	}
	if len(backups) == 0 {
		return nil, nil
	}
	return backups[0], nil
}

// restoreTree copies src over dst excluding the manifest file.
func restoreTree(src, dst string) error {
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.Name() == manifestName {
			continue
		}
		from := filepath.Join(src, e.Name())
		to := filepath.Join(dst, e.Name())
		// CopyTree handles both directories and single files.
		if err := dotfiles.CopyTree(from, to); err != nil {
			return err
		}
	}
	return nil
}

// treeStats counts regular files and their total size under root.
func treeStats(root string) (int, int64, error) {
	var count int
	var size int64
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			count++
			size += info.Size()
		}
		return nil
	})
	return count, size, err
}
