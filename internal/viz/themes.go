package viz

import "github.com/charmbracelet/lipgloss"

// Theme defines the heatmap ramp and UI colors.
type Theme struct {
	Name     string
	Primary  lipgloss.Color
	Muted    lipgloss.Color
	Obstacle lipgloss.Color
	Near     lipgloss.Color
	Far      lipgloss.Color
	Unknown  lipgloss.Color
}

var (
	ThemeCyberpunk = Theme{
		Name:     "cyberpunk",
		Primary:  lipgloss.Color("#00ffff"),
		Muted:    lipgloss.Color("#666688"),
		Obstacle: lipgloss.Color("#ffffff"),
		Near:     lipgloss.Color("#ff00ff"),
		Far:      lipgloss.Color("#00ffff"),
		Unknown:  lipgloss.Color("#222233"),
	}

	ThemeRetroGreen = Theme{
		Name:     "retro",
		Primary:  lipgloss.Color("#00ff00"),
		Muted:    lipgloss.Color("#005500"),
		Obstacle: lipgloss.Color("#88ff88"),
		Near:     lipgloss.Color("#00ff00"),
		Far:      lipgloss.Color("#003300"),
		Unknown:  lipgloss.Color("#001100"),
	}

	ThemeOcean = Theme{
		Name:     "ocean",
		Primary:  lipgloss.Color("#00a8cc"),
		Muted:    lipgloss.Color("#4488aa"),
		Obstacle: lipgloss.Color("#ffd700"),
		Near:     lipgloss.Color("#e0f0ff"),
		Far:      lipgloss.Color("#0077be"),
		Unknown:  lipgloss.Color("#001a33"),
	}

	ThemeSunset = Theme{
		Name:     "sunset",
		Primary:  lipgloss.Color("#ff6b6b"),
		Muted:    lipgloss.Color("#8b6b8c"),
		Obstacle: lipgloss.Color("#fff5f5"),
		Near:     lipgloss.Color("#ff4757"),
		Far:      lipgloss.Color("#feca57"),
		Unknown:  lipgloss.Color("#2d1b2e"),
	}

	Themes = []Theme{
		ThemeCyberpunk,
		ThemeRetroGreen,
		ThemeOcean,
		ThemeSunset,
	}
)

// GetTheme returns a theme by name, falling back to cyberpunk.
func GetTheme(name string) Theme {
	for _, t := range Themes {
		if t.Name == name {
			return t
		}
	}
	return ThemeCyberpunk
}

func ThemeNames() []string {
	names := make([]string, len(Themes))
	for i, t := range Themes {
		names[i] = t.Name
	}
	return names
}
