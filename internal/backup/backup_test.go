package backup

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/mrlinuxdude/hyprforge/internal/store"
)

func newTestManager(t *testing.T) *Manager {
	t.Helper()
	st, err := store.New(":memory:")
	if err != nil {
		t.Fatalf("store.New() failed: %v", err)
	}
	t.Cleanup(func() { st.Close() })
	if err := st.CreateSchema(); err != nil {
		t.Fatalf("CreateSchema() failed: %v", err)
	}
	return New(st)
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

// TestCreate_TimestampedDirWithCompleteCopy verifies the backup law: the
// backup directory matches the naming pattern and holds a complete
// recursive copy.
func TestCreate_TimestampedDirWithCompleteCopy(t *testing.T) {
	m := newTestManager(t)
	configDir := filepath.Join(t.TempDir(), ".config")
	writeFile(t, filepath.Join(configDir, "hypr", "hyprland.conf"), "monitor=,preferred,auto,1")
	writeFile(t, filepath.Join(configDir, "kitty", "kitty.conf"), "font_size 12")

	b, err := m.Create(configDir, "pre-install")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	pattern := regexp.MustCompile(`\.config\.backup\.\d{4}-\d{2}-\d{2}-\d{6}$`)
	if !pattern.MatchString(b.Path) {
		t.Errorf("backup path %q does not match <config-dir>.backup.<timestamp>", b.Path)
	}
	for _, rel := range []string{"hypr/hyprland.conf", "kitty/kitty.conf"} {
		if _, err := os.Stat(filepath.Join(b.Path, rel)); err != nil {
			t.Errorf("backup missing %s: %v", rel, err)
		}
	}
	if b.FileCount != 3 { // two configs + manifest
		t.Errorf("FileCount = %d; want 3", b.FileCount)
	}
}

// TestCreate_WritesManifest verifies the backup is self-describing.
func TestCreate_WritesManifest(t *testing.T) {
	m := newTestManager(t)
	configDir := filepath.Join(t.TempDir(), ".config")
	writeFile(t, filepath.Join(configDir, "a.conf"), "x")

	b, err := m.Create(configDir, "pre-install")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(b.Path, manifestName))
	if err != nil {
		t.Fatalf("manifest missing: %v", err)
	}
	var manifest Manifest
	if err := json.Unmarshal(data, &manifest); err != nil {
		t.Fatalf("manifest is not valid JSON: %v", err)
	}
	if manifest.Source != configDir {
		t.Errorf("manifest Source = %q; want %q", manifest.Source, configDir)
	}
	if manifest.Reason != "pre-install" {
		t.Errorf("manifest Reason = %q; want %q", manifest.Reason, "pre-install")
	}
}

// TestCreate_MissingSource_Fails verifies backing up a nonexistent config
// directory is an error, not a silent no-op.
func TestCreate_MissingSource_Fails(t *testing.T) {
	m := newTestManager(t)
	if _, err := m.Create(filepath.Join(t.TempDir(), "nope"), "pre-install"); err == nil {
		t.Fatal("Create() should fail for a missing source directory")
	}
}

// TestRestore_RoundTrip_OverwritesChangedFiles verifies restore puts the
// backed-up content back and skips the manifest.
func TestRestore_RoundTrip_OverwritesChangedFiles(t *testing.T) {
	m := newTestManager(t)
	configDir := filepath.Join(t.TempDir(), ".config")
	target := filepath.Join(configDir, "hypr", "hyprland.conf")
	writeFile(t, target, "original")

	b, err := m.Create(configDir, "pre-install")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	// Simulate the installer overwriting the config.
	writeFile(t, target, "clobbered")

	if _, err := m.Restore(b.ID); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "original" {
		t.Errorf("restored content = %q; want %q", data, "original")
	}
	if _, err := os.Stat(filepath.Join(configDir, manifestName)); err == nil {
		t.Error("manifest was restored into the config directory")
	}
}

// TestRestore_MissingBackupDir_Fails verifies a deleted backup directory is
// reported rather than restoring nothing.
func TestRestore_MissingBackupDir_Fails(t *testing.T) {
	m := newTestManager(t)
	configDir := filepath.Join(t.TempDir(), ".config")
	writeFile(t, filepath.Join(configDir, "a.conf"), "x")

	b, err := m.Create(configDir, "pre-install")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	if err := os.RemoveAll(b.Path); err != nil {
		t.Fatal(err)
	}

	if _, err := m.Restore(b.ID); err == nil {
		t.Fatal("Restore() should fail when the backup directory is gone")
	}
}

// TestLatest_NoBackups_ReturnsNil verifies Latest distinguishes "none" from
// errors.
func TestLatest_NoBackups_ReturnsNil(t *testing.T) {
	m := newTestManager(t)
	b, err := m.Latest()
	if err != nil {
		t.Fatalf("Latest() failed: %v", err)
	}
	if b != nil {
		t.Errorf("Latest() = %+v; want nil", b)
	}
}

// TestLatest_ReturnsNewest verifies ordering across multiple backups.
func TestLatest_ReturnsNewest(t *testing.T) {
	m := newTestManager(t)
	configDir := filepath.Join(t.TempDir(), ".config")
	writeFile(t, filepath.Join(configDir, "a.conf"), "x")

	if _, err := m.Create(configDir, "first"); err != nil {
		t.Fatalf("Create() failed: %v", err)
	}
	second, err := m.Create(configDir, "second")
	if err != nil {
		t.Fatalf("Create() failed: %v", err)
	}

	latest, err := m.Latest()
	if err != nil {
		t.Fatalf("Latest() failed: %v", err)
	}
	if latest == nil || latest.ID != second.ID {
		t.Errorf("Latest() = %+v; want backup %d", latest, second.ID)
	}
}
