package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines color scheme for the TUI. Springs are coloured on a gradient
// from Relaxed (at rest) to Strained (stretched to the saturation limit).
type Theme struct {
	Name     string
	Primary  lipgloss.Color
	Accent   lipgloss.Color
	Text     lipgloss.Color
	Muted    lipgloss.Color
	Warning  lipgloss.Color
	Relaxed  lipgloss.Color
	Strained lipgloss.Color
}

// Available themes
var (
	ThemeClassic = Theme{
		Name:     "classic",
		Primary:  lipgloss.Color("#80ffd4"), // light green cursor
		Accent:   lipgloss.Color("#ffffff"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#666666"),
		Warning:  lipgloss.Color("#ff8800"),
		Relaxed:  lipgloss.Color("#00ff00"),
		Strained: lipgloss.Color("#ff0000"),
	}

	ThemeCyberpunk = Theme{
		Name:     "cyberpunk",
		Primary:  lipgloss.Color("#ff00ff"),
		Accent:   lipgloss.Color("#ffff00"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#666666"),
		Warning:  lipgloss.Color("#ff8800"),
		Relaxed:  lipgloss.Color("#00ffff"),
		Strained: lipgloss.Color("#ff00ff"),
	}

	ThemeOcean = Theme{
		Name:     "ocean",
		Primary:  lipgloss.Color("#0077be"),
		Accent:   lipgloss.Color("#ffd700"),
		Text:     lipgloss.Color("#e0f0ff"),
		Muted:    lipgloss.Color("#4488aa"),
		Warning:  lipgloss.Color("#ffcc00"),
		Relaxed:  lipgloss.Color("#00a8cc"),
		Strained: lipgloss.Color("#ffd700"),
	}

	ThemeMono = Theme{
		Name:     "mono",
		Primary:  lipgloss.Color("#ffffff"),
		Accent:   lipgloss.Color("#0088ff"),
		Text:     lipgloss.Color("#ffffff"),
		Muted:    lipgloss.Color("#888888"),
		Warning:  lipgloss.Color("#ffaa00"),
		Relaxed:  lipgloss.Color("#555555"),
		Strained: lipgloss.Color("#ffffff"),
	}

	// Default theme
	CurrentTheme = ThemeClassic

	// All available themes
	Themes = []Theme{
		ThemeClassic,
		ThemeCyberpunk,
		ThemeOcean,
		ThemeMono,
	}
)

// TensionColor interpolates between Relaxed and Strained for t in [0, 1].
func (t Theme) TensionColor(tension float64) lipgloss.Color {
	tension = max(0, min(tension, 1))
	sr, sg, sb := parseHex(string(t.Relaxed))
	er, eg, eb := parseHex(string(t.Strained))
	lerp := func(a, b int) int { return a + int(tension*float64(b-a)) }
	return lipgloss.Color(hexColor(lerp(sr, er), lerp(sg, eg), lerp(sb, eb)))
}

// GetTheme returns a theme by name
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeClassic
}

// SetTheme changes the current theme
func SetTheme(name string) {
	CurrentTheme = GetTheme(name)
}

// NextTheme switches to the theme after the current one.
func NextTheme() {
	for i, t := range Themes {
		if t.Name == CurrentTheme.Name {
			CurrentTheme = Themes[(i+1)%len(Themes)]
			return
		}
	}
	CurrentTheme = ThemeClassic
}

// ThemeNames returns list of available theme names
func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
