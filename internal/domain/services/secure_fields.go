package services

import (
	"strings"

	"github.com/zowe/imperative-go/internal/domain/entities"
)

// SecurePath is the location of a secure property within a schema.
type SecurePath struct {
	// Path is the dotted property path, e.g. "auth.password".
	Path string
	// Box is true for a secure object whose whole sub-document is stored as
	// one credential.
	Box bool
	// Required is true when every object on the way to the property lists
	// it as required.
	Required bool
}

// SecureField is a secure value lifted out of a profile document.
type SecureField struct {
	SecurePath
	Value any
}

// SecureFieldWalker finds secure properties in a schema and moves their
// values in and out of profile documents. All methods return new documents.
type SecureFieldWalker struct{}

// NewSecureFieldWalker creates a new walker.
func NewSecureFieldWalker() *SecureFieldWalker {
	return &SecureFieldWalker{}
}

// SecurePaths lists every secure property of the schema in a stable
// depth-first order. Descendants of a secure object are not listed because
// the object is stored as a unit.
func (w *SecureFieldWalker) SecurePaths(schema *entities.ProfileSchema) []SecurePath {
	if schema == nil {
		return nil
	}
	var out []SecurePath
	w.walk(schema.Properties, schema.Required, "", true, &out)
	return out
}

func (w *SecureFieldWalker) walk(
	props map[string]*entities.ProfileProperty,
	required []string,
	prefix string,
	parentRequired bool,
	out *[]SecurePath,
) {
	requiredSet := make(map[string]bool, len(required))
	for _, r := range required {
		requiredSet[r] = true
	}

	for _, name := range entities.SortedPropertyNames(props) {
		prop := props[name]
		if prop == nil {
			continue
		}
		path := name
		if prefix != "" {
			path = prefix + "." + name
		}
		isRequired := parentRequired && requiredSet[name]
		if prop.OptionDefinition != nil && prop.OptionDefinition.Required {
			isRequired = parentRequired
		}

		if prop.Secure {
			*out = append(*out, SecurePath{Path: path, Box: prop.HasProperties(), Required: isRequired})
			continue
		}
		if prop.HasProperties() {
			w.walk(prop.Properties, prop.Required, path, isRequired, out)
		}
	}
}

// Extract returns a copy of the profile with every present secure value
// replaced by the sentinel, along with the lifted values. Values that
// already hold a sentinel are left alone and not returned.
func (w *SecureFieldWalker) Extract(
	schema *entities.ProfileSchema,
	profile entities.Profile,
	sentinel string,
) (entities.Profile, []SecureField) {
	out := DeepCopyProfile(profile)
	if out == nil {
		return nil, nil
	}

	var fields []SecureField
	for _, sp := range w.SecurePaths(schema) {
		v, ok := out.Lookup(sp.Path)
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && s == sentinel {
			continue
		}
		fields = append(fields, SecureField{SecurePath: sp, Value: v})
		SetPath(out, sp.Path, sentinel)
	}
	return out, fields
}

// SentinelPaths returns the secure paths whose value in the profile is the
// given sentinel, i.e. the fields currently held by the credential store.
func (w *SecureFieldWalker) SentinelPaths(
	schema *entities.ProfileSchema,
	profile entities.Profile,
	sentinel string,
) []SecurePath {
	var out []SecurePath
	for _, sp := range w.SecurePaths(schema) {
		v, ok := profile.Lookup(sp.Path)
		if !ok {
			continue
		}
		if s, isString := v.(string); isString && s == sentinel {
			out = append(out, sp)
		}
	}
	return out
}

// Restore returns a copy of the profile with the given values substituted at
// their paths. A nil value removes the field.
func (w *SecureFieldWalker) Restore(profile entities.Profile, fields []SecureField) entities.Profile {
	out := DeepCopyProfile(profile)
	if out == nil {
		return nil
	}
	for _, f := range fields {
		if f.Value == nil {
			DeletePath(out, f.Path)
			continue
		}
		SetPath(out, f.Path, CopyValue(f.Value))
	}
	return out
}

// SetPath writes a value at a dotted path, creating intermediate objects.
// It mutates doc; callers pass their own copy.
func SetPath(doc map[string]any, path string, value any) {
	segs := strings.Split(path, ".")
	cur := doc
	for _, seg := range segs[:len(segs)-1] {
		next, ok := entities.AsMap(cur[seg])
		if !ok {
			next = make(map[string]any)
		}
		// map[any]any is converted, so store the converted map back
		cur[seg] = next
		cur = next
	}
	cur[segs[len(segs)-1]] = value
}

// DeletePath removes the value at a dotted path if present.
// It mutates doc; callers pass their own copy.
func DeletePath(doc map[string]any, path string) {
	segs := strings.Split(path, ".")
	cur := doc
	for _, seg := range segs[:len(segs)-1] {
		next, ok := entities.AsMap(cur[seg])
		if !ok {
			return
		}
		cur[seg] = next
		cur = next
	}
	delete(cur, segs[len(segs)-1])
}
