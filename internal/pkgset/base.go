package pkgset

import "github.com/mrlinuxdude/hyprforge/internal/distro"

// baseCommon is the curated package list shared by both families. Order is
// deliberate: compositor and session pieces first, then portals, audio,
// utilities, theming, fonts.
var baseCommon = []string{
	"hyprland",
	"hyprlock",
	"hypridle",
	"hyprpicker",
	"hyprshot",
	"hyprsunset",
	"xdg-desktop-portal-hyprland",
	"xdg-desktop-portal-gtk",
	"uwsm",
	"sddm",
	"polkit",
	"pipewire",
	"wireplumber",
	"pavucontrol",
	"playerctl",
	"brightnessctl",
	"grim",
	"slurp",
	"wl-clipboard",
	"cliphist",
	"swww",
	"kitty",
	"fish",
	"starship",
	"fastfetch",
	"thunar",
	"gvfs",
	"tumbler",
	"file-roller",
	"bluez",
	"blueman",
	"network-manager-applet",
	"gnome-keyring",
	"qt6-declarative",
	"qt6-wayland",
	"qt5-wayland",
	"papirus-icon-theme",
	"btop",
	"jq",
	"socat",
	"imagemagick",
}

// baseByFamily holds names that differ between package repositories.
var baseByFamily = map[distro.Family][]string{
	distro.FamilyArch: {
		"polkit-gnome",
		"ttf-jetbrains-mono-nerd",
		"noto-fonts",
		"noto-fonts-emoji",
		"qt6ct",
		"nwg-look",
	},
	distro.FamilyFedora: {
		"polkit-gnome",
		"jetbrains-mono-fonts-all",
		"google-noto-sans-fonts",
		"google-noto-emoji-fonts",
		"qt6ct",
		"nwg-look",
	},
}

// Base returns the curated base package list for the given family. The
// returned slice is a copy; callers may append freely.
func Base(family distro.Family) []string {
	out := make([]string, 0, len(baseCommon)+len(baseByFamily[family]))
	out = append(out, baseCommon...)
	out = append(out, baseByFamily[family]...)
	return out
}
