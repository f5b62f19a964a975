package cleanup

import (
	"os"
	"path/filepath"
	"testing"
)

// TestRun_RemovesRegisteredPathsOnce verifies registered trees are removed
// and the registry is cleared.
func TestRun_RemovesRegisteredPathsOnce(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "yay-build")
	if err := os.MkdirAll(filepath.Join(dir, "src"), 0755); err != nil {
		t.Fatal(err)
	}
	Register(dir)

	Run()
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Errorf("registered path %s still exists after Run()", dir)
	}

	// A second Run with an empty registry must not panic or remove anything
	// newly created at the same path.
	if err := os.MkdirAll(dir, 0755); err != nil {
		t.Fatal(err)
	}
	Run()
	if _, err := os.Stat(dir); err != nil {
		t.Error("Run() removed a path that was not re-registered")
	}
}

// TestRun_UnregisteredPathsUntouched verifies Run only touches what was
// registered.
func TestRun_UnregisteredPathsUntouched(t *testing.T) {
	keep := filepath.Join(t.TempDir(), "keep")
	if err := os.MkdirAll(keep, 0755); err != nil {
		t.Fatal(err)
	}
	Register(filepath.Join(t.TempDir(), "nonexistent-is-fine"))

	Run()
	if _, err := os.Stat(keep); err != nil {
		t.Errorf("unregistered path was removed: %v", err)
	}
}
