// Package terminal renders scenes as colored text tables for the CLI and shell.
package terminal

import (
	"os"
	"strconv"

	"github.com/Sumatoshi-tech/segviz/pkg/layout"
)

// Default width constants.
const (
	DefaultWidth = 80
	MinWidth     = 60
	MaxWidth     = 120
)

// Config holds terminal rendering configuration.
type Config struct {
	Width   int
	NoColor bool

	// ShowArray includes the array table in scene output.
	ShowArray bool
	// ShowNodeData includes the data and lazy columns in the node table.
	ShowNodeData bool
	// MaxRows limits the node table. Zero means unlimited.
	MaxRows int

	// MinZoom and MaxZoom bound the zoom bar.
	MinZoom float64
	MaxZoom float64
}

// NewConfig creates a Config with defaults taken from the environment.
func NewConfig() Config {
	return Config{
		Width:        DetectWidth(),
		NoColor:      os.Getenv("NO_COLOR") != "",
		ShowArray:    true,
		ShowNodeData: true,
		MinZoom:      layout.DefaultMinZoom,
		MaxZoom:      layout.DefaultMaxZoom,
	}
}

// DetectWidth returns the terminal width from the COLUMNS environment
// variable clamped to [MinWidth, MaxWidth], or DefaultWidth if unset or invalid.
func DetectWidth() int {
	return parseWidth(os.Getenv("COLUMNS"))
}

func parseWidth(columns string) int {
	if columns == "" {
		return DefaultWidth
	}

	width, err := strconv.Atoi(columns)
	if err != nil {
		return DefaultWidth
	}

	return min(max(width, MinWidth), MaxWidth)
}
