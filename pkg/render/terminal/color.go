package terminal

import "github.com/fatih/color"

// Color names a terminal color role.
type Color int

// Color constants.
const (
	ColorNone Color = iota
	ColorGreen
	ColorYellow
	ColorRed
	ColorBlue
	ColorCyan
	ColorGray
)

func (c Color) attribute() (color.Attribute, bool) {
	switch c {
	case ColorGreen:
		return color.FgGreen, true
	case ColorYellow:
		return color.FgYellow, true
	case ColorRed:
		return color.FgRed, true
	case ColorBlue:
		return color.FgBlue, true
	case ColorCyan:
		return color.FgCyan, true
	case ColorGray:
		return color.FgHiBlack, true
	default:
		return 0, false
	}
}

// Colorize applies c to text. If NoColor is set or c is ColorNone, text is
// returned unchanged. Output also honors color.NoColor.
func (cfg Config) Colorize(text string, c Color) string {
	if cfg.NoColor {
		return text
	}

	attr, ok := c.attribute()
	if !ok {
		return text
	}

	return color.New(attr).Sprint(text)
}

// Highlight renders text in the highlight color.
func (cfg Config) Highlight(text string) string {
	return cfg.Colorize(text, ColorYellow)
}

// Result renders a command result.
func (cfg Config) Result(text string) string {
	return cfg.Colorize(text, ColorGreen)
}

// Error renders err as "Error: ..." in red.
func (cfg Config) Error(err error) string {
	return cfg.Colorize("Error: "+err.Error(), ColorRed)
}
