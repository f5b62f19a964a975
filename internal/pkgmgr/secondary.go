package pkgmgr

import (
	"fmt"

	"github.com/mrlinuxdude/hyprforge/internal/distro"
)

// aurHelperRepo is the build recipe fetched to bootstrap the AUR helper on
// Arch-family systems. yay-bin is prebuilt, so the bootstrap needs only
// base-devel and git.
const aurHelperRepo = "https://aur.archlinux.org/yay-bin.git"

// coprRepos are the community repositories enabled as the secondary source
// on Fedora-family systems.
var coprRepos = []string{
	"solopasha/hyprland",
	"errornointernet/quickshell",
}

// SecondaryReady reports whether the secondary package source is usable
// without a bootstrap: the AUR helper is on PATH (Arch). On Fedora it is
// always false, so the COPR repositories are re-enabled on every install;
// enabling an already-enabled repository is idempotent.
func (m *Manager) SecondaryReady() bool {
	if m.family != distro.FamilyArch {
		return false
	}
	_, err := m.look("yay")
	return err == nil
}

// BootstrapSecondary prepares the secondary package source. On Arch it
// clones the helper's build recipe into buildDir, builds and installs it
// (callers remove buildDir afterwards via the cleanup registry). On Fedora
// it enables the COPR repositories. Failure here is fatal to the run: every
// later secondary install depends on it.
func (m *Manager) BootstrapSecondary(buildDir string) error {
	switch m.family {
	case distro.FamilyArch:
		if out, err := m.run("", "git", "clone", "--depth", "1", aurHelperRepo, buildDir); err != nil {
			return fmt.Errorf("failed to fetch AUR helper recipe: %w (output: %s)", err, string(out))
		}
		if out, err := m.run(buildDir, "makepkg", "-si", "--noconfirm"); err != nil {
			return fmt.Errorf("failed to build AUR helper: %w (output: %s)", err, string(out))
		}
		return nil
	default:
		if out, err := m.run("", "sudo", "dnf", "-y", "install", "dnf-plugins-core"); err != nil {
			return fmt.Errorf("failed to install dnf-plugins-core: %w (output: %s)", err, string(out))
		}
		for _, repo := range coprRepos {
			if out, err := m.run("", "sudo", "dnf", "-y", "copr", "enable", repo); err != nil {
				return fmt.Errorf("failed to enable copr %s: %w (output: %s)", repo, err, string(out))
			}
		}
		return nil
	}
}

// InstallSecondary installs packages from the secondary source: the AUR
// helper on Arch, or the primary manager on Fedora where the COPR
// repositories are already enabled.
func (m *Manager) InstallSecondary(names []string) error {
	if len(names) == 0 {
		return nil
	}
	if m.family != distro.FamilyArch {
		return m.Install(names)
	}
	args := []string{"-S", "--noconfirm"}
	if m.force {
		args = append(args, "--overwrite", "*")
	} else {
		args = append(args, "--needed")
	}
	args = append(args, names...)
	out, err := m.run("", "yay", args...)
	if err != nil {
		return fmt.Errorf("AUR install failed: %w (output: %s)", err, string(out))
	}
	return nil
}
