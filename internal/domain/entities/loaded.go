package entities

import "fmt"

// MetaFileSuffix is appended to the type name to form the meta file name,
// which is also reserved as a profile name.
const MetaFileSuffix = "_meta"

// MetaProfileName returns the reserved meta name for a profile type.
func MetaProfileName(profileType string) string {
	return profileType + MetaFileSuffix
}

// MetaProfile is the per-type record holding the default profile pointer and
// the type configuration the store was initialized with.
type MetaProfile struct {
	FormatVersion  string                    `yaml:"formatVersion,omitempty"`
	DefaultProfile string                    `yaml:"defaultProfile,omitempty"`
	Configuration  *ProfileTypeConfiguration `yaml:"configuration,omitempty"`
}

// Loaded is the result of loading a profile, including the recursive results
// of loading its dependencies.
type Loaded struct {
	Message                 string
	Type                    string
	Name                    string
	FailNotFound            bool
	Profile                 Profile
	DependenciesLoaded      bool
	DependencyLoadResponses []*Loaded
}

// Ref returns the {type,name} identity of the loaded profile.
func (l *Loaded) Ref() DependencyRef {
	return DependencyRef{Type: l.Type, Name: l.Name}
}

// Found reports whether a document was actually loaded.
func (l *Loaded) Found() bool {
	return l != nil && l.Profile != nil
}

// NotFoundMessage is used when a missing profile was tolerated.
func NotFoundMessage(profileType, name string) string {
	return fmt.Sprintf(
		"Profile %q of type %q was not found, but the request indicated to ignore \"not found\" errors. "+
			"The profile returned is undefined.",
		name, profileType,
	)
}

// FlattenLoaded returns every response in the tree, parents before their
// dependencies, without dropping or duplicating entries.
func FlattenLoaded(loaded []*Loaded) []*Loaded {
	var out []*Loaded
	var walk func([]*Loaded)
	walk = func(list []*Loaded) {
		for _, l := range list {
			if l == nil {
				continue
			}
			out = append(out, l)
			walk(l.DependencyLoadResponses)
		}
	}
	walk(loaded)
	return out
}
