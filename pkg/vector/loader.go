package vector

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Format identifies a supported vector file encoding.
type Format string

// Supported vector file encodings.
const (
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// FormatForPath derives the encoding from a file extension.
// Recognized extensions are .json, .yaml and .yml.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return FormatJSON, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf(
			"unsupported vector file extension: %s", path,
		)
	}
}

// Load reads and parses a vector suite from a file, deriving the
// encoding from the file extension.
func Load(path string) (*Suite, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read vector file %s: %w", path, err)
	}

	suite, err := Parse(data, format)
	if err != nil {
		return nil, fmt.Errorf("parse vector file %s: %w", path, err)
	}
	return suite, nil
}

// Parse decodes a vector suite from raw document bytes.
func Parse(data []byte, format Format) (*Suite, error) {
	var suite Suite

	switch format {
	case FormatJSON:
		if err := json.Unmarshal(data, &suite); err != nil {
			return nil, err
		}
	case FormatYAML:
		if err := yaml.Unmarshal(data, &suite); err != nil {
			return nil, err
		}
	default:
		return nil, fmt.Errorf("unsupported vector format: %s", format)
	}

	return &suite, nil
}
