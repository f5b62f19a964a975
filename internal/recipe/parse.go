package recipe

import (
	"bufio"
	"fmt"
	"os"
	"strings"
)

// parseSrcinfo reads the makepkg-generated key-value format:
//
//	pkgname = quickshell-meta
//	depends = qt6-declarative
//	makedepends = cmake
//
// Unknown keys are ignored. Lines without a "=" separator produce a
// ParseWarning and are skipped.
func parseSrcinfo(path string, r *Recipe) ([]ParseWarning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var warnings []ParseWarning
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			warnings = append(warnings, ParseWarning{File: path, Msg: fmt.Sprintf("skipping malformed line %q", line)})
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.TrimSpace(value)
		switch key {
		case "pkgname":
			r.Name = value
		case "depends":
			r.Depends = append(r.Depends, stripVersionConstraint(value))
		case "makedepends":
			r.MakeDepends = append(r.MakeDepends, stripVersionConstraint(value))
		}
	}
	if err := scanner.Err(); err != nil {
		return warnings, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return warnings, nil
}

// parsePkgbuild line-scans a PKGBUILD for pkgname and the depends and
// makedepends arrays, which may span multiple lines:
//
//	depends=('qt6-declarative' 'qt6-wayland'
//	         'pipewire')
//
// An array that never closes produces a ParseWarning and contributes
// nothing. This deliberately does not evaluate shell, so parameter
// expansions inside arrays are skipped with a warning.
func parsePkgbuild(path string, r *Recipe) ([]ParseWarning, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var warnings []ParseWarning
	var inArray string // "" or the key being collected
	var collected []string

	flush := func() {
		switch inArray {
		case "depends":
			r.Depends = append(r.Depends, collected...)
		case "makedepends":
			r.MakeDepends = append(r.MakeDepends, collected...)
		}
		inArray = ""
		collected = nil
	}

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if idx := strings.Index(line, "#"); idx >= 0 {
			line = strings.TrimSpace(line[:idx])
		}
		if line == "" {
			continue
		}

		if inArray == "" {
			if name, ok := strings.CutPrefix(line, "pkgname="); ok {
				r.Name = strings.Trim(name, `"'()`)
				continue
			}
			for _, key := range []string{"depends", "makedepends"} {
				if rest, ok := strings.CutPrefix(line, key+"=("); ok {
					inArray = key
					line = rest
					break
				}
			}
			if inArray == "" {
				continue
			}
		}

		closed := false
		if idx := strings.Index(line, ")"); idx >= 0 {
			line = line[:idx]
			closed = true
		}
		for _, field := range strings.Fields(line) {
			name := strings.Trim(field, `"'`)
			if name == "" {
				continue
			}
			if strings.ContainsAny(name, "$`") {
				warnings = append(warnings, ParseWarning{File: path, Msg: fmt.Sprintf("skipping unevaluated entry %q", name)})
				continue
			}
			collected = append(collected, stripVersionConstraint(name))
		}
		if closed {
			flush()
		}
	}
	if err := scanner.Err(); err != nil {
		return warnings, fmt.Errorf("failed to read %s: %w", path, err)
	}

	if inArray != "" {
		warnings = append(warnings, ParseWarning{File: path, Msg: fmt.Sprintf("unterminated %s array; declaration ignored", inArray)})
		inArray = ""
		collected = nil
	}
	return warnings, nil
}

// stripVersionConstraint trims ">=1.2"-style suffixes from a dependency
// name. The installer always targets the repository's current version.
func stripVersionConstraint(name string) string {
	for _, op := range []string{">=", "<=", "=", ">", "<"} {
		if idx := strings.Index(name, op); idx >= 0 {
			return name[:idx]
		}
	}
	return name
}
