package plotpage

// Theme represents a color theme for visualizations.
type Theme string

const (
	// ThemeLight is the light color theme.
	ThemeLight Theme = "light"
	// ThemeDark is the dark color theme.
	ThemeDark Theme = "dark"
)

// ThemeConfig holds all theme-specific styling values.
type ThemeConfig struct {
	// Base colors.
	Background string
	Surface    string
	Border     string

	// Text colors.
	TextPrimary   string
	TextSecondary string
	TextMuted     string

	// Node colors.
	Accent    string
	Leaf      string
	Highlight string
	Edge      string

	// Chart-specific.
	ChartBackground string
	ChartText       string

	// ECharts theme name.
	EChartsTheme string
}

// ParseTheme maps a theme name to a Theme, falling back to ThemeDark.
func ParseTheme(name string) Theme {
	if Theme(name) == ThemeLight {
		return ThemeLight
	}

	return ThemeDark
}

// GetThemeConfig returns the configuration for a given theme.
func GetThemeConfig(theme Theme) ThemeConfig {
	switch theme {
	case ThemeDark:
		return darkTheme
	case ThemeLight:
		return lightTheme
	default:
		return lightTheme
	}
}

var lightTheme = ThemeConfig{
	Background: "#fafaf9", // stone-50.
	Surface:    "#ffffff",
	Border:     "#e7e5e4", // stone-200.

	TextPrimary:   "#1c1917", // stone-900.
	TextSecondary: "#44403c", // stone-700.
	TextMuted:     "#78716c", // stone-500.

	Accent:    "#a16207", // amber-700.
	Leaf:      "#2563eb", // blue-600.
	Highlight: "#dc2626", // red-600.
	Edge:      "#a8a29e", // stone-400.

	ChartBackground: "transparent",
	ChartText:       "#ffffff",
}

var darkTheme = ThemeConfig{
	Background: "#0c0a09", // stone-950.
	Surface:    "#1c1917", // stone-900.
	Border:     "#44403c", // stone-700.

	TextPrimary:   "#fafaf9", // stone-50.
	TextSecondary: "#d6d3d1", // stone-300.
	TextMuted:     "#a8a29e", // stone-400.

	Accent:    "#d97706", // amber-600.
	Leaf:      "#3b82f6", // blue-500.
	Highlight: "#ef4444", // red-500.
	Edge:      "#57534e", // stone-600.

	ChartBackground: "transparent",
	ChartText:       "#fafaf9",
}
