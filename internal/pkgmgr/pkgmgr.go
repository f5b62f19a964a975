// Package pkgmgr drives the system package managers: pacman or dnf as the
// primary source, and an AUR helper (Arch) or COPR repositories (Fedora) as
// the secondary community source.
package pkgmgr

import (
	"errors"
	"fmt"
	"os"
	"os/exec"

	"github.com/mrlinuxdude/hyprforge/internal/distro"
)

// ErrLocalBuildUnsupported is returned by BuildAndInstall on families
// without a local source-build path. Callers treat it as a per-recipe
// warning, not a fatal error.
var ErrLocalBuildUnsupported = errors.New("local recipe builds are only supported on Arch-family systems")

// runFunc executes an external command in dir (empty for the working
// directory) and returns its combined output.
type runFunc func(dir, name string, args ...string) ([]byte, error)

func runCommand(dir, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	cmd.Stdin = os.Stdin // package managers may prompt for sudo
	return cmd.CombinedOutput()
}

// Manager wraps the family-specific package manager invocations. Force mode
// adds the overwrite-conflicting-files modifier and enables the full system
// upgrade.
type Manager struct {
	family distro.Family
	force  bool
	run    runFunc
	look   func(file string) (string, error)
}

// New returns a Manager for the given family. force enables the reinstall
// modifiers.
func New(family distro.Family, force bool) *Manager {
	return &Manager{
		family: family,
		force:  force,
		run:    runCommand,
		look:   exec.LookPath,
	}
}

// Upgrade performs a full system upgrade. Only invoked in force mode.
func (m *Manager) Upgrade() error {
	var out []byte
	var err error
	switch m.family {
	case distro.FamilyArch:
		out, err = m.run("", "sudo", "pacman", "-Syu", "--noconfirm")
	default:
		out, err = m.run("", "sudo", "dnf", "-y", "upgrade", "--refresh")
	}
	if err != nil {
		return fmt.Errorf("system upgrade failed: %w (output: %s)", err, string(out))
	}
	return nil
}

// Available reports whether the primary package manager knows the package.
func (m *Manager) Available(name string) bool {
	var err error
	switch m.family {
	case distro.FamilyArch:
		_, err = m.run("", "pacman", "-Si", name)
	default:
		_, err = m.run("", "dnf", "info", name)
	}
	return err == nil
}

// Partition splits names into packages the primary manager can install and
// packages that must come from the secondary source, preserving order.
func (m *Manager) Partition(names []string) (primary, secondary []string) {
	for _, name := range names {
		if m.Available(name) {
			primary = append(primary, name)
		} else {
			secondary = append(secondary, name)
		}
	}
	return primary, secondary
}

// Install installs a batch of packages via the primary manager. Already
// installed packages are skipped unless force mode is active.
func (m *Manager) Install(names []string) error {
	if len(names) == 0 {
		return nil
	}
	var args []string
	switch m.family {
	case distro.FamilyArch:
		args = []string{"pacman", "-S", "--noconfirm"}
		if m.force {
			args = append(args, "--overwrite", "*")
		} else {
			args = append(args, "--needed")
		}
	default:
		args = []string{"dnf", "-y", "install"}
		if m.force {
			args = append(args, "--allowerasing")
		}
	}
	args = append(args, names...)
	out, err := m.run("", "sudo", args...)
	if err != nil {
		return fmt.Errorf("package install failed: %w (output: %s)", err, string(out))
	}
	return nil
}

// InstallLocal installs prebuilt package files from disk.
func (m *Manager) InstallLocal(paths []string) error {
	if len(paths) == 0 {
		return nil
	}
	var args []string
	switch m.family {
	case distro.FamilyArch:
		args = append([]string{"pacman", "-U", "--noconfirm"}, paths...)
	default:
		args = append([]string{"dnf", "-y", "install"}, paths...)
	}
	out, err := m.run("", "sudo", args...)
	if err != nil {
		return fmt.Errorf("local package install failed: %w (output: %s)", err, string(out))
	}
	return nil
}

// IsInstalled reports whether a package is present on the system.
func (m *Manager) IsInstalled(name string) bool {
	var err error
	switch m.family {
	case distro.FamilyArch:
		_, err = m.run("", "pacman", "-Qi", name)
	default:
		_, err = m.run("", "rpm", "-q", name)
	}
	return err == nil
}

// BuildAndInstall builds the recipe in dir with makepkg and installs the
// result. Arch-family only.
func (m *Manager) BuildAndInstall(dir string) error {
	if m.family != distro.FamilyArch {
		return ErrLocalBuildUnsupported
	}
	out, err := m.run(dir, "makepkg", "-si", "--noconfirm")
	if err != nil {
		return fmt.Errorf("makepkg in %s failed: %w (output: %s)", dir, err, string(out))
	}
	return nil
}
