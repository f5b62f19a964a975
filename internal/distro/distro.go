// Package distro identifies the host Linux distribution family.
package distro

import (
	"errors"
	"fmt"
	"os"
	"strings"
)

// Family is a supported distribution family.
type Family string

const (
	FamilyArch   Family = "arch"
	FamilyFedora Family = "fedora"
)

// ErrUnsupported is returned when the host distribution is neither
// Arch- nor Fedora-family.
var ErrUnsupported = errors.New("unsupported distribution: hyprforge supports Arch- and Fedora-family systems")

// osReleasePath is overridable in tests.
var osReleasePath = "/etc/os-release"

// Info describes the detected host distribution.
type Info struct {
	ID         string
	IDLike     []string
	PrettyName string
	Family     Family
}

// Detect reads /etc/os-release and classifies the host into a supported
// family. It must be called before any mutating step.
func Detect() (*Info, error) {
	return detectFrom(osReleasePath)
}

func detectFrom(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	info := &Info{}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"'`)
		switch key {
		case "ID":
			info.ID = strings.ToLower(value)
		case "ID_LIKE":
			for _, like := range strings.Fields(strings.ToLower(value)) {
				info.IDLike = append(info.IDLike, like)
			}
		case "PRETTY_NAME":
			info.PrettyName = value
		}
	}

	if info.ID == "" {
		return nil, fmt.Errorf("could not determine distribution from %s", path)
	}

	family, ok := classify(info.ID, info.IDLike)
	if !ok {
		return nil, fmt.Errorf("%w (detected %q)", ErrUnsupported, info.ID)
	}
	info.Family = family

	return info, nil
}

// archIDs and fedoraIDs list distribution IDs that belong to each family
// without declaring it in ID_LIKE.
var (
	archIDs   = map[string]bool{"arch": true, "manjaro": true, "endeavouros": true, "cachyos": true, "garuda": true}
	fedoraIDs = map[string]bool{"fedora": true, "nobara": true, "ultramarine": true}
)

func classify(id string, idLike []string) (Family, bool) {
	if archIDs[id] {
		return FamilyArch, true
	}
	if fedoraIDs[id] {
		return FamilyFedora, true
	}
	for _, like := range idLike {
		if like == "arch" || archIDs[like] {
			return FamilyArch, true
		}
		if like == "fedora" || fedoraIDs[like] {
			return FamilyFedora, true
		}
	}
	return "", false
}
