package scene

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Serialization format constants.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
	FormatHTML = "html"
	FormatText = "text"

	// FormatYMLAlias is a short CLI alias for YAML output.
	FormatYMLAlias = "yml"
)

// ErrUnsupportedFormat indicates the requested output format is not supported.
var ErrUnsupportedFormat = errors.New("unsupported format")

// NormalizeFormat canonicalizes a user-provided output format string.
func NormalizeFormat(format string) string {
	normalized := strings.ToLower(strings.TrimSpace(format))
	if normalized == FormatYMLAlias {
		return FormatYAML
	}

	return normalized
}

// Formats returns every output format a scene can be rendered to.
func Formats() []string {
	return []string{FormatText, FormatJSON, FormatYAML, FormatHTML}
}

// ValidateFormat checks whether a format is in the provided support list.
func ValidateFormat(format string, supported []string) (string, error) {
	normalized := NormalizeFormat(format)
	if slices.Contains(supported, normalized) {
		return normalized, nil
	}

	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
}

// Encode writes the scene as JSON or YAML.
func Encode(w io.Writer, s *Scene, format string) error {
	switch NormalizeFormat(format) {
	case FormatJSON:
		return encodeJSON(w, s)
	case FormatYAML:
		return encodeYAML(w, s)
	default:
		return fmt.Errorf("%w: %s", ErrUnsupportedFormat, format)
	}
}

func encodeJSON(w io.Writer, s *Scene) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	err := enc.Encode(s)
	if err != nil {
		return fmt.Errorf("json encode: %w", err)
	}

	return nil
}

func encodeYAML(w io.Writer, s *Scene) error {
	data, err := yaml.Marshal(s)
	if err != nil {
		return fmt.Errorf("yaml marshal: %w", err)
	}

	_, err = w.Write(data)
	if err != nil {
		return fmt.Errorf("yaml write: %w", err)
	}

	return nil
}
