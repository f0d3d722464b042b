// Package entities contains domain entities for the profile domain model.
// These are pure domain types with NO infrastructure dependencies.
package entities

import (
	"fmt"
	"sort"
	"strings"
)

// Reserved keys present on every profile document.
const (
	KeyName         = "name"
	KeyType         = "type"
	KeyDependencies = "dependencies"
)

// Profile is a named, typed configuration document.
//
// The shape beyond name/type/dependencies is dictated by the schema of the
// profile's type, so the document is kept open. Nested objects are
// map[string]any and arrays are []any, which is what both the YAML decoder and
// the JSON decoder produce.
type Profile map[string]any

// DependencyRef names another profile this one depends on.
type DependencyRef struct {
	Type string `yaml:"type" json:"type"`
	Name string `yaml:"name" json:"name"`
}

// String returns the "type/name" form used in log and error messages.
func (d DependencyRef) String() string {
	return d.Type + "/" + d.Name
}

// NewProfile creates a document carrying only its identity.
func NewProfile(profileType, name string) Profile {
	return Profile{KeyType: profileType, KeyName: name}
}

// Name returns the profile name or "" when unset.
func (p Profile) Name() string {
	s, _ := p[KeyName].(string)
	return s
}

// Type returns the profile type or "" when unset.
func (p Profile) Type() string {
	s, _ := p[KeyType].(string)
	return s
}

// HasDependencies reports whether the document declares a dependency list.
func (p Profile) HasDependencies() bool {
	_, ok := p[KeyDependencies]
	return ok
}

// Dependencies decodes the dependency list. Entries missing a type or name
// are returned as-is so that validation can report them.
func (p Profile) Dependencies() ([]DependencyRef, error) {
	raw, ok := p[KeyDependencies]
	if !ok || raw == nil {
		return nil, nil
	}

	switch deps := raw.(type) {
	case []DependencyRef:
		out := make([]DependencyRef, len(deps))
		copy(out, deps)
		return out, nil
	case []any:
		out := make([]DependencyRef, 0, len(deps))
		for i, entry := range deps {
			ref, err := dependencyFromAny(entry)
			if err != nil {
				return nil, fmt.Errorf("dependency %d: %w", i, err)
			}
			out = append(out, ref)
		}
		return out, nil
	case []map[string]any:
		out := make([]DependencyRef, 0, len(deps))
		for i, entry := range deps {
			ref, err := dependencyFromAny(entry)
			if err != nil {
				return nil, fmt.Errorf("dependency %d: %w", i, err)
			}
			out = append(out, ref)
		}
		return out, nil
	default:
		return nil, fmt.Errorf("dependencies must be a list, got %T", raw)
	}
}

func dependencyFromAny(entry any) (DependencyRef, error) {
	switch e := entry.(type) {
	case DependencyRef:
		return e, nil
	case map[string]any:
		t, _ := e[KeyType].(string)
		n, _ := e[KeyName].(string)
		return DependencyRef{Type: t, Name: n}, nil
	default:
		return DependencyRef{}, fmt.Errorf("entry must be an object, got %T", entry)
	}
}

// WithDependencies returns a copy of the top level of the document with the
// dependency list replaced. Nested values are shared.
func (p Profile) WithDependencies(deps []DependencyRef) Profile {
	out := make(Profile, len(p)+1)
	for k, v := range p {
		out[k] = v
	}
	if len(deps) == 0 {
		delete(out, KeyDependencies)
		return out
	}
	list := make([]any, len(deps))
	for i, d := range deps {
		list[i] = map[string]any{KeyType: d.Type, KeyName: d.Name}
	}
	out[KeyDependencies] = list
	return out
}

// IsEmpty reports whether the document has no content besides its identity.
func (p Profile) IsEmpty() bool {
	for k := range p {
		if k != KeyName && k != KeyType {
			return false
		}
	}
	return true
}

// Lookup returns the value at a dotted path such as "auth.user".
func (p Profile) Lookup(path string) (any, bool) {
	var cur any = map[string]any(p)
	for _, seg := range strings.Split(path, ".") {
		m, ok := AsMap(cur)
		if !ok {
			return nil, false
		}
		cur, ok = m[seg]
		if !ok {
			return nil, false
		}
	}
	return cur, true
}

// Keys returns the top-level keys in sorted order.
func (p Profile) Keys() []string {
	keys := make([]string, 0, len(p))
	for k := range p {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// AsMap converts the map shapes produced by the decoders into map[string]any.
func AsMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case Profile:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			out[fmt.Sprint(k)] = val
		}
		return out, true
	default:
		return nil, false
	}
}
