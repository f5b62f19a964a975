// Package recipe discovers and parses local package-build directories.
//
// A recipe directory is a subdirectory of the dotfiles repository that
// carries a .SRCINFO or PKGBUILD declaring the package's dependencies, and
// optionally a prebuilt package artifact. The structured .SRCINFO form is
// preferred; the PKGBUILD array scan is a fallback for recipes that never
// regenerated their .SRCINFO.
package recipe

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Recipe is one parsed package-build directory.
type Recipe struct {
	Name        string
	Dir         string
	Depends     []string
	MakeDepends []string
	Artifact    string // path to a prebuilt package, empty if none
}

// RuntimeDeps returns the declared runtime dependencies.
func (r *Recipe) RuntimeDeps() []string { return r.Depends }

// BuildDeps returns the declared build-time dependencies.
func (r *Recipe) BuildDeps() []string { return r.MakeDepends }

// ParseWarning records a malformed declaration that was skipped. Malformed
// declarations never abort discovery; the file simply contributes nothing.
type ParseWarning struct {
	File string
	Msg  string
}

func (w ParseWarning) String() string {
	return fmt.Sprintf("%s: %s", w.File, w.Msg)
}

// artifactSuffixes are recognized prebuilt package extensions, pacman
// formats first.
var artifactSuffixes = []string{".pkg.tar.zst", ".pkg.tar.xz", ".pkg.tar.gz", ".rpm"}

// Discover scans the immediate subdirectories of root for recipes. A
// subdirectory without a recognizable declaration file contributes nothing
// and is not an error. A missing root yields an empty result.
func Discover(root string) ([]*Recipe, []ParseWarning, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil, nil
		}
		return nil, nil, fmt.Errorf("failed to read recipe root %s: %w", root, err)
	}

	var recipes []*Recipe
	var warnings []ParseWarning

	// Deterministic order regardless of readdir ordering.
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	for _, e := range entries {
		if !e.IsDir() {
			continue
		}
		dir := filepath.Join(root, e.Name())
		r, warns, err := Load(dir)
		warnings = append(warnings, warns...)
		if err != nil {
			return nil, warnings, err
		}
		if r != nil {
			recipes = append(recipes, r)
		}
	}
	return recipes, warnings, nil
}

// Load parses a single recipe directory. It returns (nil, warns, nil) when
// the directory has no usable declaration.
func Load(dir string) (*Recipe, []ParseWarning, error) {
	var warnings []ParseWarning

	r := &Recipe{
		Name:     filepath.Base(dir),
		Dir:      dir,
		Artifact: findArtifact(dir),
	}

	srcinfo := filepath.Join(dir, ".SRCINFO")
	if _, err := os.Stat(srcinfo); err == nil {
		warns, err := parseSrcinfo(srcinfo, r)
		warnings = append(warnings, warns...)
		if err != nil {
			return nil, warnings, err
		}
		return r, warnings, nil
	}

	pkgbuild := filepath.Join(dir, "PKGBUILD")
	if _, err := os.Stat(pkgbuild); err == nil {
		warns, err := parsePkgbuild(pkgbuild, r)
		warnings = append(warnings, warns...)
		if err != nil {
			return nil, warnings, err
		}
		return r, warnings, nil
	}

	// No declaration and no prebuilt artifact: nothing to contribute.
	if r.Artifact == "" {
		return nil, warnings, nil
	}
	return r, warnings, nil
}

// findArtifact returns the path of a prebuilt package in dir, or "".
// When several are present the lexicographically last one wins, which for
// versioned filenames is the newest build.
func findArtifact(dir string) string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return ""
	}
	var found []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		for _, suffix := range artifactSuffixes {
			if strings.HasSuffix(e.Name(), suffix) {
				found = append(found, e.Name())
			}
		}
	}
	if len(found) == 0 {
		return ""
	}
	sort.Strings(found)
	return filepath.Join(dir, found[len(found)-1])
}
