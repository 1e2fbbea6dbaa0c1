// Package config provides configuration loading and validation for segviz.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/viper"

	"github.com/Sumatoshi-tech/segviz/pkg/alg/segtree"
	"github.com/Sumatoshi-tech/segviz/pkg/layout"
	"github.com/Sumatoshi-tech/segviz/pkg/observability"
)

// Sentinel validation errors.
var (
	ErrInvalidNodeDistance = errors.New("node distance must be positive")
	ErrInvalidScale        = errors.New("layout scales must be positive")
	ErrInvalidViewport     = errors.New("viewport width must be positive")
	ErrInvalidZoomRange    = errors.New("zoom must satisfy 0 < min_zoom <= zoom <= max_zoom")
	ErrInvalidZoomStep     = errors.New("zoom step must be positive")
	ErrInvalidHistorySize  = errors.New("history size must be positive")
	ErrInvalidLogLevel     = errors.New("invalid log level")
	ErrInvalidLogFormat    = errors.New("invalid log format")
	ErrInvalidSampleRatio  = errors.New("sample ratio must be within [0, 1]")
)

// Config holds all configuration for segviz.
type Config struct {
	Layout    LayoutConfig    `mapstructure:"layout"`
	View      ViewConfig      `mapstructure:"view"`
	Tree      TreeConfig      `mapstructure:"tree"`
	Shell     ShellConfig     `mapstructure:"shell"`
	Logging   LoggingConfig   `mapstructure:"logging"`
	Telemetry TelemetryConfig `mapstructure:"telemetry"`
}

// LayoutConfig holds tree layout spacing.
type LayoutConfig struct {
	NodeDistance    float64 `mapstructure:"node_distance"`
	SiblingDistance float64 `mapstructure:"sibling_distance"`
	TreeDistance    float64 `mapstructure:"tree_distance"`
	Scale           float64 `mapstructure:"scale"`
	VerticalScale   float64 `mapstructure:"vertical_scale"`
	DepthOffset     float64 `mapstructure:"depth_offset"`
	ViewportWidth   int     `mapstructure:"viewport_width"`
}

// ViewConfig holds the initial zoom and its bounds.
type ViewConfig struct {
	Zoom     float64 `mapstructure:"zoom"`
	MinZoom  float64 `mapstructure:"min_zoom"`
	MaxZoom  float64 `mapstructure:"max_zoom"`
	ZoomStep float64 `mapstructure:"zoom_step"`
}

// TreeConfig holds the initial tree contents.
type TreeConfig struct {
	Function string  `mapstructure:"function"`
	Array    []int64 `mapstructure:"array"`
}

// ShellConfig holds interactive shell settings.
type ShellConfig struct {
	Prompt       string `mapstructure:"prompt"`
	HistorySize  int    `mapstructure:"history_size"`
	Color        bool   `mapstructure:"color"`
	ShowArray    bool   `mapstructure:"show_array"`
	ShowNodeData bool   `mapstructure:"show_node_data"`
}

// LoggingConfig holds logging-specific configuration.
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// TelemetryConfig holds OpenTelemetry export settings.
type TelemetryConfig struct {
	Environment  string  `mapstructure:"environment"`
	OTLPEndpoint string  `mapstructure:"otlp_endpoint"`
	OTLPHeaders  string  `mapstructure:"otlp_headers"`
	MetricsAddr  string  `mapstructure:"metrics_addr"`
	SampleRatio  float64 `mapstructure:"sample_ratio"`
	OTLPInsecure bool    `mapstructure:"otlp_insecure"`
}

// LoadConfig loads configuration from file and environment variables.
// An empty path searches for segviz.yaml in the working directory,
// ./config and $HOME/.config/segviz; a missing file is not an error.
func LoadConfig(configPath string) (*Config, error) {
	viperCfg := viper.New()

	setDefaults(viperCfg)

	if configPath != "" {
		viperCfg.SetConfigFile(configPath)
	} else {
		viperCfg.SetConfigName("segviz")
		viperCfg.SetConfigType("yaml")
		viperCfg.AddConfigPath(".")
		viperCfg.AddConfigPath("./config")
		viperCfg.AddConfigPath("$HOME/.config/segviz")
	}

	viperCfg.SetEnvPrefix("SEGVIZ")
	viperCfg.AutomaticEnv()
	viperCfg.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	readErr := viperCfg.ReadInConfig()
	if readErr != nil {
		var notFoundErr viper.ConfigFileNotFoundError
		if !errors.As(readErr, &notFoundErr) {
			return nil, fmt.Errorf("failed to read config file: %w", readErr)
		}
	}

	var config Config

	unmarshalErr := viperCfg.Unmarshal(&config)
	if unmarshalErr != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", unmarshalErr)
	}

	validateErr := validateConfig(&config)
	if validateErr != nil {
		return nil, fmt.Errorf("invalid configuration: %w", validateErr)
	}

	return &config, nil
}

// Default returns the configuration used when nothing is configured.
func Default() *Config {
	return &Config{
		Layout: LayoutConfig{
			NodeDistance:    DefaultNodeDistance,
			SiblingDistance: DefaultSiblingDistance,
			TreeDistance:    DefaultTreeDistance,
			Scale:           DefaultScale,
			VerticalScale:   DefaultVerticalScale,
			DepthOffset:     DefaultDepthOffset,
			ViewportWidth:   DefaultViewportWidth,
		},
		View: ViewConfig{
			Zoom:     DefaultZoom,
			MinZoom:  DefaultMinZoom,
			MaxZoom:  DefaultMaxZoom,
			ZoomStep: DefaultZoomStep,
		},
		Tree: TreeConfig{
			Function: DefaultFunction,
			Array:    DefaultArray(),
		},
		Shell: ShellConfig{
			Prompt:       DefaultPrompt,
			HistorySize:  DefaultHistorySize,
			Color:        DefaultColor,
			ShowArray:    DefaultShowArray,
			ShowNodeData: DefaultShowNodeData,
		},
		Logging: LoggingConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
		},
	}
}

// setDefaults mirrors Default into viper so env overrides bind to every key.
func setDefaults(viperCfg *viper.Viper) {
	def := Default()

	viperCfg.SetDefault("layout.node_distance", def.Layout.NodeDistance)
	viperCfg.SetDefault("layout.sibling_distance", def.Layout.SiblingDistance)
	viperCfg.SetDefault("layout.tree_distance", def.Layout.TreeDistance)
	viperCfg.SetDefault("layout.scale", def.Layout.Scale)
	viperCfg.SetDefault("layout.vertical_scale", def.Layout.VerticalScale)
	viperCfg.SetDefault("layout.depth_offset", def.Layout.DepthOffset)
	viperCfg.SetDefault("layout.viewport_width", def.Layout.ViewportWidth)

	viperCfg.SetDefault("view.zoom", def.View.Zoom)
	viperCfg.SetDefault("view.min_zoom", def.View.MinZoom)
	viperCfg.SetDefault("view.max_zoom", def.View.MaxZoom)
	viperCfg.SetDefault("view.zoom_step", def.View.ZoomStep)

	viperCfg.SetDefault("tree.function", def.Tree.Function)
	viperCfg.SetDefault("tree.array", def.Tree.Array)

	viperCfg.SetDefault("shell.prompt", def.Shell.Prompt)
	viperCfg.SetDefault("shell.history_size", def.Shell.HistorySize)
	viperCfg.SetDefault("shell.color", def.Shell.Color)
	viperCfg.SetDefault("shell.show_array", def.Shell.ShowArray)
	viperCfg.SetDefault("shell.show_node_data", def.Shell.ShowNodeData)

	viperCfg.SetDefault("logging.level", def.Logging.Level)
	viperCfg.SetDefault("logging.format", def.Logging.Format)

	viperCfg.SetDefault("telemetry.environment", "")
	viperCfg.SetDefault("telemetry.otlp_endpoint", "")
	viperCfg.SetDefault("telemetry.otlp_headers", "")
	viperCfg.SetDefault("telemetry.otlp_insecure", false)
	viperCfg.SetDefault("telemetry.sample_ratio", 0.0)
	viperCfg.SetDefault("telemetry.metrics_addr", "")
}

// validateConfig validates the configuration.
func validateConfig(config *Config) error {
	if config.Layout.NodeDistance <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidNodeDistance, config.Layout.NodeDistance)
	}

	if config.Layout.Scale <= 0 || config.Layout.VerticalScale <= 0 {
		return fmt.Errorf("%w: scale=%v vertical_scale=%v", ErrInvalidScale, config.Layout.Scale, config.Layout.VerticalScale)
	}

	if config.Layout.ViewportWidth <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidViewport, config.Layout.ViewportWidth)
	}

	view := config.View
	if view.MinZoom <= 0 || view.MinZoom > view.MaxZoom || view.Zoom < view.MinZoom || view.Zoom > view.MaxZoom {
		return fmt.Errorf("%w: min=%v zoom=%v max=%v", ErrInvalidZoomRange, view.MinZoom, view.Zoom, view.MaxZoom)
	}

	if view.ZoomStep <= 0 {
		return fmt.Errorf("%w: %v", ErrInvalidZoomStep, view.ZoomStep)
	}

	_, err := segtree.DefaultRegistry().Lookup(config.Tree.Function)
	if err != nil {
		return err
	}

	if config.Shell.HistorySize <= 0 {
		return fmt.Errorf("%w: %d", ErrInvalidHistorySize, config.Shell.HistorySize)
	}

	_, err = config.Logging.SlogLevel()
	if err != nil {
		return err
	}

	if config.Logging.Format != LogFormatText && config.Logging.Format != LogFormatJSON {
		return fmt.Errorf("%w: %q", ErrInvalidLogFormat, config.Logging.Format)
	}

	if config.Telemetry.SampleRatio < 0 || config.Telemetry.SampleRatio > 1 {
		return fmt.Errorf("%w: %v", ErrInvalidSampleRatio, config.Telemetry.SampleRatio)
	}

	return nil
}

// Engine returns the layout engine parameters.
func (c LayoutConfig) Engine() layout.Config {
	return layout.Config{
		NodeDistance:    c.NodeDistance,
		SiblingDistance: c.SiblingDistance,
		TreeDistance:    c.TreeDistance,
		Scale:           c.Scale,
		VerticalScale:   c.VerticalScale,
		DepthOffset:     c.DepthOffset,
		ViewportWidth:   c.ViewportWidth,
	}
}

// Transform returns a coordinate transform at the configured zoom.
func (c ViewConfig) Transform() *layout.Transform {
	return &layout.Transform{
		Zoom:     c.Zoom,
		MinZoom:  c.MinZoom,
		MaxZoom:  c.MaxZoom,
		ZoomStep: c.ZoomStep,
	}
}

// SlogLevel parses the configured level name.
func (c LoggingConfig) SlogLevel() (slog.Level, error) {
	var level slog.Level

	err := level.UnmarshalText([]byte(c.Level))
	if err != nil {
		return slog.LevelInfo, fmt.Errorf("%w: %q", ErrInvalidLogLevel, c.Level)
	}

	return level, nil
}

// Observability builds the telemetry configuration for the given mode.
func (c *Config) Observability(mode observability.AppMode, version string) observability.Config {
	obsCfg := observability.DefaultConfig()
	obsCfg.ServiceVersion = version
	obsCfg.Mode = mode
	obsCfg.Environment = c.Telemetry.Environment
	obsCfg.OTLPEndpoint = c.Telemetry.OTLPEndpoint
	obsCfg.OTLPHeaders = observability.ParseOTLPHeaders(c.Telemetry.OTLPHeaders)
	obsCfg.OTLPInsecure = c.Telemetry.OTLPInsecure
	obsCfg.SampleRatio = c.Telemetry.SampleRatio
	obsCfg.Prometheus = c.Telemetry.MetricsAddr != ""
	obsCfg.LogJSON = c.Logging.Format == LogFormatJSON

	level, err := c.Logging.SlogLevel()
	if err == nil {
		obsCfg.LogLevel = level
	}

	return obsCfg
}
