// Package dotfiles fetches the configuration repository and applies its
// file tree over the user's home directory.
package dotfiles

import (
	"fmt"
	"os"
	"os/exec"
)

// runFunc mirrors the exec wrapper used across the installer so tests can
// substitute a fake git.
type runFunc func(dir, name string, args ...string) ([]byte, error)

func runCommand(dir, name string, args ...string) ([]byte, error) {
	cmd := exec.Command(name, args...)
	cmd.Dir = dir
	return cmd.CombinedOutput()
}

// Repo is the remote dotfiles repository.
type Repo struct {
	URL    string
	Branch string
	run    runFunc
}

// NewRepo returns a Repo for the given URL. branch may be empty for the
// remote default.
func NewRepo(url, branch string) *Repo {
	return &Repo{URL: url, Branch: branch, run: runCommand}
}

// Clone shallow-clones the repository into dest. dest must not exist.
// Failure here is fatal to the run: nothing downstream can proceed without
// the repository contents.
func (r *Repo) Clone(dest string) error {
	if _, err := os.Stat(dest); err == nil {
		return fmt.Errorf("clone destination %s already exists", dest)
	}
	args := []string{"clone", "--depth", "1"}
	if r.Branch != "" {
		args = append(args, "--branch", r.Branch)
	}
	args = append(args, r.URL, dest)
	out, err := r.run("", "git", args...)
	if err != nil {
		return fmt.Errorf("failed to clone %s: %w (output: %s)", r.URL, err, string(out))
	}
	return nil
}
