package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

// TestLoad_MissingFile_ReturnsDefaults verifies an absent config file is
// not an error.
func TestLoad_MissingFile_ReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if !reflect.DeepEqual(cfg, Default()) {
		t.Errorf("Load() = %+v; want defaults", cfg)
	}
}

// TestLoad_OverridesLayerOverDefaults verifies set fields override and
// unset fields keep their defaults.
func TestLoad_OverridesLayerOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	content := `
repo_url = "https://example.com/my-dots.git"
branch = "testing"
extra_packages = ["neovim", "zoxide"]
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if cfg.RepoURL != "https://example.com/my-dots.git" {
		t.Errorf("RepoURL = %q; want override", cfg.RepoURL)
	}
	if cfg.Branch != "testing" {
		t.Errorf("Branch = %q; want %q", cfg.Branch, "testing")
	}
	if want := []string{"neovim", "zoxide"}; !reflect.DeepEqual(cfg.ExtraPackages, want) {
		t.Errorf("ExtraPackages = %v; want %v", cfg.ExtraPackages, want)
	}
	if cfg.TemplateHome != Default().TemplateHome {
		t.Errorf("TemplateHome = %q; want default kept", cfg.TemplateHome)
	}
	if len(cfg.Services) == 0 {
		t.Error("Services default was lost")
	}
}

// TestLoad_MalformedFile_ReturnsError verifies broken TOML is surfaced.
func TestLoad_MalformedFile_ReturnsError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("repo_url = [broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("Load() should fail for malformed TOML")
	}
}
