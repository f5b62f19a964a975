// Package artifacts writes the fixed configuration files the desktop
// session expects: the environment file, GTK theme settings, and the
// session scripts. Writes always fully overwrite, so re-running the
// installer converges to the same state.
package artifacts

import (
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Artifact is one fixed-path file written relative to the home directory.
type Artifact struct {
	RelPath string
	Mode    fs.FileMode
	Content string
}

const envFile = `# Written by hyprforge. Sourced by uwsm for every Hyprland session.
export XDG_CURRENT_DESKTOP=Hyprland
export XDG_SESSION_TYPE=wayland
export XDG_SESSION_DESKTOP=Hyprland
export QT_QPA_PLATFORM="wayland;xcb"
export QT_QPA_PLATFORMTHEME=qt6ct
export QT_WAYLAND_DISABLE_WINDOWDECORATION=1
export GDK_BACKEND="wayland,x11"
export MOZ_ENABLE_WAYLAND=1
export ELECTRON_OZONE_PLATFORM_HINT=auto
export SDL_VIDEODRIVER=wayland
export _JAVA_AWT_WM_NONREPARENTING=1
`

const gtk3Settings = `[Settings]
gtk-theme-name=Adwaita-dark
gtk-icon-theme-name=Papirus-Dark
gtk-font-name=Noto Sans 11
gtk-cursor-theme-name=Adwaita
gtk-cursor-theme-size=24
gtk-application-prefer-dark-theme=1
`

const gtk4Settings = `[Settings]
gtk-icon-theme-name=Papirus-Dark
gtk-font-name=Noto Sans 11
gtk-cursor-theme-name=Adwaita
gtk-cursor-theme-size=24
gtk-application-prefer-dark-theme=1
`

const startupScript = `#!/usr/bin/env bash
# Written by hyprforge. Launched once per Hyprland session.
swww-daemon &
/usr/lib/polkit-gnome/polkit-gnome-authentication-agent-1 &
wl-paste --type text --watch cliphist store &
wl-paste --type image --watch cliphist store &
quickshell &
`

const shutdownScript = `#!/usr/bin/env bash
# Written by hyprforge. Runs before the session exits.
cliphist wipe
pkill -x quickshell
pkill -x swww-daemon
`

const themeSwitchScript = `#!/usr/bin/env bash
# Written by hyprforge. Regenerates colors from the current wallpaper and
# reloads the bar.
set -euo pipefail

wallpaper="${1:-$(swww query | sed -n 's/.*image: //p' | head -n1)}"
[ -n "$wallpaper" ] || { echo "usage: theme-switch.sh <wallpaper>" >&2; exit 1; }

swww img "$wallpaper" --transition-type grow --transition-duration 1
command -v matugen >/dev/null && matugen image "$wallpaper"
pkill -x quickshell || true
quickshell & disown
`

// artifactSet is the full fixed set, paths relative to the home directory.
var artifactSet = []Artifact{
	{RelPath: ".config/uwsm/env", Mode: 0644, Content: envFile},
	{RelPath: ".config/gtk-3.0/settings.ini", Mode: 0644, Content: gtk3Settings},
	{RelPath: ".config/gtk-4.0/settings.ini", Mode: 0644, Content: gtk4Settings},
	{RelPath: ".config/hypr/scripts/startup.sh", Mode: 0755, Content: startupScript},
	{RelPath: ".config/hypr/scripts/shutdown.sh", Mode: 0755, Content: shutdownScript},
	{RelPath: ".config/hypr/scripts/theme-switch.sh", Mode: 0755, Content: themeSwitchScript},
}

// WriteAll writes every artifact under home, creating parent directories as
// needed, and returns the written paths.
func WriteAll(home string) ([]string, error) {
	paths := make([]string, 0, len(artifactSet))
	for _, a := range artifactSet {
		path := filepath.Join(home, a.RelPath)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return paths, fmt.Errorf("failed to create directory for %s: %w", a.RelPath, err)
		}
		if err := os.WriteFile(path, []byte(a.Content), a.Mode); err != nil {
			return paths, fmt.Errorf("failed to write %s: %w", a.RelPath, err)
		}
		// WriteFile does not change the mode of a pre-existing file.
		if err := os.Chmod(path, a.Mode); err != nil {
			return paths, fmt.Errorf("failed to chmod %s: %w", a.RelPath, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}
