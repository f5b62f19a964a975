package dotfiles

import (
	"bytes"
	"os"
	"path/filepath"
)

// textProbeSize is how many leading bytes are inspected to decide whether a
// file is text. A NUL byte in the probe marks the file as binary.
const textProbeSize = 8000

// RewriteHomePaths replaces every occurrence of oldHome with newHome in the
// copied text files under dst. The walk follows src, so only files the copy
// brought over are touched; pre-existing user files kept by the force-copy
// are never rewritten. Binary files and symlinks are left untouched.
// Returns the number of files rewritten.
func RewriteHomePaths(src, dst, oldHome, newHome string) (int, error) {
	if oldHome == "" || oldHome == newHome {
		return 0, nil
	}
	needle := []byte(oldHome)
	replacement := []byte(newHome)
	rewritten := 0

	err := filepath.Walk(src, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(src, path)
		if err != nil {
			return err
		}
		target := filepath.Join(dst, rel)
		targetInfo, err := os.Lstat(target)
		if err != nil || !targetInfo.Mode().IsRegular() {
			return nil
		}
		data, err := os.ReadFile(target)
		if err != nil {
			return err
		}
		if !bytes.Contains(data, needle) {
			return nil
		}
		if !isText(data) {
			return nil
		}
		updated := bytes.ReplaceAll(data, needle, replacement)
		if err := os.WriteFile(target, updated, targetInfo.Mode().Perm()); err != nil {
			return err
		}
		rewritten++
		return nil
	})
	return rewritten, err
}

func isText(data []byte) bool {
	probe := data
	if len(probe) > textProbeSize {
		probe = probe[:textProbeSize]
	}
	return !bytes.ContainsRune(probe, 0)
}
