package dotfiles

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// CopyEntry maps one source tree onto a destination, with an optional
// pre-copy backup of whatever the destination currently holds.
type CopyEntry struct {
	Source string
	Dest   string
	Backup bool
}

// CopyPlan is the ordered set of tree copies applied to the home directory.
// Entries are applied strictly in sequence: an entry's backup always
// completes (or is skipped) before its copy starts, and no two entries
// interleave.
type CopyPlan struct {
	Entries []CopyEntry

	// TemplateHome is the literal home path hardcoded in the repository's
	// config files; occurrences are rewritten to Home in text files after
	// each copy.
	TemplateHome string
	Home         string
}

// Apply executes the plan. Per-entry backup failures are reported as
// warnings and do not stop the copy (matching the installer's observed
// behavior; the primary pre-run backup is the recovery path). Copy failures
// are fatal.
func (p *CopyPlan) Apply() (warnings []string, err error) {
	for _, e := range p.Entries {
		if e.Backup {
			if _, statErr := os.Stat(e.Dest); statErr == nil {
				backupDir := e.Dest + ".overwrite"
				os.RemoveAll(backupDir)
				if backupErr := CopyTree(e.Dest, backupDir); backupErr != nil {
					warnings = append(warnings, fmt.Sprintf("pre-copy backup of %s failed: %v", e.Dest, backupErr))
				}
			}
		}
		if err := CopyTree(e.Source, e.Dest); err != nil {
			return warnings, fmt.Errorf("failed to copy %s to %s: %w", e.Source, e.Dest, err)
		}
		if p.TemplateHome != "" && p.TemplateHome != p.Home {
			if _, err := RewriteHomePaths(e.Source, e.Dest, p.TemplateHome, p.Home); err != nil {
				return warnings, fmt.Errorf("failed to rewrite home paths under %s: %w", e.Dest, err)
			}
		}
	}
	return warnings, nil
}

// CopyTree recursively copies src over dst, overwriting existing files and
// preserving file modes and symlinks. Files present only in dst are kept.
func CopyTree(src, dst string) error {
	return filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)

		switch {
		case info.IsDir():
			return os.MkdirAll(target, info.Mode().Perm())
		case info.Mode()&os.ModeSymlink != 0:
			link, err := os.Readlink(path)
			if err != nil {
				return err
			}
			os.Remove(target)
			return os.Symlink(link, target)
		default:
			return copyFile(path, target, info.Mode().Perm())
		}
	})
}

func copyFile(src, dst string, perm os.FileMode) error {
	if err := os.MkdirAll(filepath.Dir(dst), 0755); err != nil {
		return err
	}
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	// Remove first so copying over a read-only or symlinked file works.
	os.Remove(dst)
	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, perm)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
