package viz

import "github.com/charmbracelet/lipgloss"

// Theme is the palette for the explorer and summary panels. Primary
// colours titles, Accent the selected knob, and Success, Warning and
// Error grade efficiency from attached flow down to a stalled rotor.
type Theme struct {
	Name    string
	Primary lipgloss.Color
	Accent  lipgloss.Color
	Text    lipgloss.Color
	Muted   lipgloss.Color
	Success lipgloss.Color
	Warning lipgloss.Color
	Error   lipgloss.Color
}

var (
	// offshore: sea-blue frame, white blades, nacelle-orange selection
	ThemeOffshore = Theme{
		Name:    "offshore",
		Primary: lipgloss.Color("#4fa3d9"),
		Accent:  lipgloss.Color("#ff8c1a"),
		Text:    lipgloss.Color("#f2f5f7"),
		Muted:   lipgloss.Color("#5b6b78"),
		Success: lipgloss.Color("#6cc48a"),
		Warning: lipgloss.Color("#f2c14e"),
		Error:   lipgloss.Color("#e0524b"),
	}

	// tunnel: smoke-trace greys on a wind tunnel test-section look
	ThemeTunnel = Theme{
		Name:    "tunnel",
		Primary: lipgloss.Color("#c8d0d8"),
		Accent:  lipgloss.Color("#7fdbca"),
		Text:    lipgloss.Color("#e6e6e6"),
		Muted:   lipgloss.Color("#6e7681"),
		Success: lipgloss.Color("#7fdbca"),
		Warning: lipgloss.Color("#e3b341"),
		Error:   lipgloss.Color("#f47067"),
	}

	// safety: high-visibility tower markings
	ThemeSafety = Theme{
		Name:    "safety",
		Primary: lipgloss.Color("#ffffff"),
		Accent:  lipgloss.Color("#ff3b30"),
		Text:    lipgloss.Color("#ffffff"),
		Muted:   lipgloss.Color("#8a8a8a"),
		Success: lipgloss.Color("#34c759"),
		Warning: lipgloss.Color("#ffcc00"),
		Error:   lipgloss.Color("#ff3b30"),
	}

	Themes = []Theme{ThemeOffshore, ThemeTunnel, ThemeSafety}
)

// GetTheme returns a theme by name, falling back to the first one.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return Themes[0]
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
