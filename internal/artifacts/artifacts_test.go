package artifacts

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestWriteAll_CreatesFullFixedSet verifies every artifact is written with
// parent directories created.
func TestWriteAll_CreatesFullFixedSet(t *testing.T) {
	home := t.TempDir()

	paths, err := WriteAll(home)
	if err != nil {
		t.Fatalf("WriteAll() failed: %v", err)
	}
	if len(paths) != len(artifactSet) {
		t.Errorf("wrote %d artifacts; want %d", len(paths), len(artifactSet))
	}
	for _, a := range artifactSet {
		if _, err := os.Stat(filepath.Join(home, a.RelPath)); err != nil {
			t.Errorf("artifact %s missing: %v", a.RelPath, err)
		}
	}
}

// TestWriteAll_ScriptsAreExecutable verifies the session scripts carry the
// executable bit.
func TestWriteAll_ScriptsAreExecutable(t *testing.T) {
	home := t.TempDir()
	if _, err := WriteAll(home); err != nil {
		t.Fatalf("WriteAll() failed: %v", err)
	}

	for _, a := range artifactSet {
		if !strings.HasSuffix(a.RelPath, ".sh") {
			continue
		}
		info, err := os.Stat(filepath.Join(home, a.RelPath))
		if err != nil {
			t.Fatal(err)
		}
		if info.Mode().Perm()&0111 == 0 {
			t.Errorf("%s mode = %v; want executable", a.RelPath, info.Mode())
		}
	}
}

// TestWriteAll_Idempotent_OverwritesStaleContent verifies a second run
// fully overwrites modified artifacts.
func TestWriteAll_Idempotent_OverwritesStaleContent(t *testing.T) {
	home := t.TempDir()
	if _, err := WriteAll(home); err != nil {
		t.Fatalf("WriteAll() failed: %v", err)
	}

	envPath := filepath.Join(home, ".config/uwsm/env")
	if err := os.WriteFile(envPath, []byte("stale"), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := WriteAll(home); err != nil {
		t.Fatalf("second WriteAll() failed: %v", err)
	}
	data, err := os.ReadFile(envPath)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) == "stale" {
		t.Error("second WriteAll() did not overwrite stale content")
	}
	if !strings.Contains(string(data), "XDG_CURRENT_DESKTOP=Hyprland") {
		t.Errorf("env file content = %q; missing session variables", data)
	}
}
