package terminal

import (
	"fmt"
	"strings"
)

// Progress bar characters.
const (
	ProgressFilled = "█"
	ProgressEmpty  = "░"
)

// DrawProgressBar draws a bar of the given width. Value is clamped to [0, 1].
// Example: DrawProgressBar(0.7, 10) returns "███████░░░".
func DrawProgressBar(value float64, width int) string {
	value = min(max(value, 0), 1)

	filled := int(value * float64(width))

	return strings.Repeat(ProgressFilled, filled) + strings.Repeat(ProgressEmpty, width-filled)
}

// FormatZoomBar shows zoom as a position within [minZoom, maxZoom]:
// "[████░░░░░░] 0.80x".
func FormatZoomBar(zoom, minZoom, maxZoom float64, barWidth int) string {
	fraction := 0.0
	if maxZoom > minZoom {
		fraction = (zoom - minZoom) / (maxZoom - minZoom)
	}

	return fmt.Sprintf("[%s] %.2fx", DrawProgressBar(fraction, barWidth), zoom)
}
