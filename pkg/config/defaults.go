package config

import (
	"github.com/Sumatoshi-tech/segviz/pkg/alg/segtree"
	"github.com/Sumatoshi-tech/segviz/pkg/layout"
)

// Layout defaults.
const (
	DefaultNodeDistance    = layout.DefaultNodeDistance
	DefaultSiblingDistance = layout.DefaultSiblingDistance
	DefaultTreeDistance    = layout.DefaultTreeDistance
	DefaultScale           = layout.DefaultScale
	DefaultVerticalScale   = layout.DefaultVerticalScale
	DefaultDepthOffset     = layout.DefaultDepthOffset
	DefaultViewportWidth   = layout.DefaultViewportWidth
)

// View defaults.
const (
	DefaultZoom     = layout.DefaultZoom
	DefaultMinZoom  = layout.DefaultMinZoom
	DefaultMaxZoom  = layout.DefaultMaxZoom
	DefaultZoomStep = layout.DefaultZoomStep
)

// Tree defaults.
const (
	DefaultFunction = segtree.DefaultFunctionName
)

// Shell defaults.
const (
	DefaultHistorySize  = 100
	DefaultPrompt       = "segviz> "
	DefaultColor        = true
	DefaultShowArray    = true
	DefaultShowNodeData = true
)

// Logging defaults.
const (
	DefaultLogLevel  = "info"
	DefaultLogFormat = LogFormatText
)

// Log formats.
const (
	LogFormatText = "text"
	LogFormatJSON = "json"
)

// DefaultArray returns the array loaded when none is given.
func DefaultArray() []int64 {
	return []int64{1, 3, -2, 8, -7}
}
