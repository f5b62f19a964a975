// Package config loads the optional user configuration file.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the optional ~/.config/hyprforge/config.toml. Every field has a
// default; an absent file is not an error.
type Config struct {
	// RepoURL is the dotfiles repository to clone.
	RepoURL string `toml:"repo_url"`
	// Branch overrides the remote default branch when set.
	Branch string `toml:"branch"`
	// TemplateHome is the literal home path hardcoded inside the
	// repository's config files.
	TemplateHome string `toml:"template_home"`
	// ExtraPackages are appended to the base package list.
	ExtraPackages []string `toml:"extra_packages"`
	// Services are the systemd units enabled after installation.
	Services []string `toml:"services"`
	// StartService is the one service started immediately (the display
	// manager).
	StartService string `toml:"start_service"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		RepoURL:      "https://github.com/mrlinuxdude/Matts-Quickshell-Hyprland.git",
		TemplateHome: "/home/matt",
		Services:     []string{"sddm", "NetworkManager", "bluetooth"},
		StartService: "",
	}
}

// Load reads the config file at path, layering it over the defaults. A
// missing file yields the defaults; a malformed file is an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return cfg, nil
}
