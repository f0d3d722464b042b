// Package config loads profile type configurations from disk or from the
// built-in set.
package config

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/goccy/go-yaml"
	"github.com/tidwall/jsonc"

	"github.com/zowe/imperative-go/internal/domain/entities"
)

// Format of a type configuration document.
type Format string

const (
	FormatYAML Format = "yaml"
	// FormatJSON accepts JSON with comments and trailing commas.
	FormatJSON Format = "json"
)

// typesDocument is the file form of a set of type configurations.
//
//	profileTypes:
//	  - type: zosmf
//	    schema: {...}
type typesDocument struct {
	ProfileTypes entities.TypeConfigurations `yaml:"profileTypes" json:"profileTypes"`
}

// TypesLoader reads profile type configurations.
type TypesLoader struct{}

// NewTypesLoader creates a new types loader.
func NewTypesLoader() *TypesLoader {
	return &TypesLoader{}
}

// FormatFromPath picks the document format from a file extension.
func FormatFromPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json", ".jsonc":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported profile types file %s: expected .yaml, .yml, .json or .jsonc", path)
	}
}

// LoadTypes reads and validates the type configurations in path.
func (l *TypesLoader) LoadTypes(path string) (entities.TypeConfigurations, error) {
	format, err := FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	root, err := os.OpenRoot(filepath.Dir(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open profile types directory: %w", err)
	}
	defer func() {
		_ = root.Close() // Best-effort cleanup
	}()

	file, err := root.Open(filepath.Base(path))
	if err != nil {
		return nil, fmt.Errorf("failed to open profile types: %w", err)
	}
	defer func() {
		_ = file.Close() // Best-effort cleanup
	}()

	configs, err := l.LoadTypesFromReader(file, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return configs, nil
}

// LoadTypesFromReader decodes and validates type configurations.
func (l *TypesLoader) LoadTypesFromReader(r io.Reader, format Format) (entities.TypeConfigurations, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile types: %w", err)
	}

	var doc typesDocument
	switch format {
	case FormatYAML:
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("failed to decode profile types YAML: %w", err)
		}
	case FormatJSON:
		decoder := json.NewDecoder(bytes.NewReader(jsonc.ToJSON(data)))
		if err := decoder.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode profile types JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unknown profile types format %q", format)
	}

	if err := doc.ProfileTypes.Validate(); err != nil {
		return nil, fmt.Errorf("invalid profile types: %w", err)
	}
	return doc.ProfileTypes, nil
}
