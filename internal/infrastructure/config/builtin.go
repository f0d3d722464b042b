package config

import (
	"bytes"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"sort"
	"strings"

	"github.com/zowe/imperative-go/internal/domain/entities"
)

//go:embed builtin/*.yaml
var builtinFS embed.FS

const builtinTypesFile = "builtin/types.yaml"

// BuiltinTypes returns the profile types used when no types file is given.
func BuiltinTypes() (entities.TypeConfigurations, error) {
	data, err := builtinFS.ReadFile(builtinTypesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read built-in profile types: %w", err)
	}
	return NewTypesLoader().LoadTypesFromReader(bytes.NewReader(data), FormatYAML)
}

// BuiltinPlans returns the declarative validation plans shipped with the
// built-in types, keyed by module name.
func BuiltinPlans() (map[string][]byte, error) {
	entries, err := fs.Glob(builtinFS, "builtin/*-plan.yaml")
	if err != nil {
		return nil, err
	}
	sort.Strings(entries)
	plans := make(map[string][]byte, len(entries))
	for _, name := range entries {
		data, err := builtinFS.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("failed to read built-in plan %s: %w", name, err)
		}
		plans[strings.TrimSuffix(path.Base(name), ".yaml")] = data
	}
	return plans, nil
}
