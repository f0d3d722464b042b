package entities

import (
	"fmt"
	"sort"
	"strings"
)

// Option value types understood by the command layer.
const (
	OptionTypeString  = "string"
	OptionTypeBoolean = "boolean"
	OptionTypeNumber  = "number"
	OptionTypeArray   = "array"
	OptionTypeJSON    = "json"
)

// ProfileTypeConfiguration declares one profile type: its schema, the
// dependencies its profiles may carry, and an optional validation plan.
type ProfileTypeConfiguration struct {
	Type                 string                  `yaml:"type" json:"type"`
	Schema               *ProfileSchema          `yaml:"schema" json:"schema"`
	Dependencies         []DependencyDeclaration `yaml:"dependencies,omitempty" json:"dependencies,omitempty"`
	ValidationPlanModule string                  `yaml:"validationPlanModule,omitempty" json:"validationPlanModule,omitempty"`
}

// DependencyDeclaration states that profiles of a type may (or must) depend
// on a profile of another type.
type DependencyDeclaration struct {
	Type        string `yaml:"type" json:"type"`
	Required    bool   `yaml:"required,omitempty" json:"required,omitempty"`
	Description string `yaml:"description,omitempty" json:"description,omitempty"`
}

// ProfileSchema is the JSON-schema-shaped description of a profile type.
type ProfileSchema struct {
	Title                string                      `yaml:"title,omitempty" json:"title,omitempty"`
	Description          string                      `yaml:"description,omitempty" json:"description,omitempty"`
	Type                 string                      `yaml:"type,omitempty" json:"type,omitempty"`
	Properties           map[string]*ProfileProperty `yaml:"properties" json:"properties"`
	Required             []string                    `yaml:"required,omitempty" json:"required,omitempty"`
	AdditionalProperties *bool                       `yaml:"additionalProperties,omitempty" json:"additionalProperties,omitempty"`
}

// ProfileProperty describes one field of a profile. Properties nest without
// limit. A secure property's value is externalized to the credential store;
// a secure object ("secure box") is externalized as a whole.
type ProfileProperty struct {
	Type              string                      `yaml:"type,omitempty" json:"type,omitempty"`
	Description       string                      `yaml:"description,omitempty" json:"description,omitempty"`
	Properties        map[string]*ProfileProperty `yaml:"properties,omitempty" json:"properties,omitempty"`
	Required          []string                    `yaml:"required,omitempty" json:"required,omitempty"`
	Items             *ProfileProperty            `yaml:"items,omitempty" json:"items,omitempty"`
	Enum              []any                       `yaml:"enum,omitempty" json:"enum,omitempty"`
	Secure            bool                        `yaml:"secure,omitempty" json:"secure,omitempty"`
	OptionDefinition  *OptionDefinition           `yaml:"optionDefinition,omitempty" json:"optionDefinition,omitempty"`
	OptionDefinitions []OptionDefinition          `yaml:"optionDefinitions,omitempty" json:"optionDefinitions,omitempty"`
}

// HasProperties reports whether the property is an object with declared
// children.
func (p *ProfileProperty) HasProperties() bool {
	return p != nil && len(p.Properties) > 0
}

// OptionDefinition is the command-line projection of a schema property.
type OptionDefinition struct {
	Name                string   `yaml:"name" json:"name"`
	Aliases             []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`
	Description         string   `yaml:"description,omitempty" json:"description,omitempty"`
	Type                string   `yaml:"type" json:"type"`
	Required            bool     `yaml:"required,omitempty" json:"required,omitempty"`
	DefaultValue        any      `yaml:"defaultValue,omitempty" json:"defaultValue,omitempty"`
	AllowableValues     []string `yaml:"allowableValues,omitempty" json:"allowableValues,omitempty"`
	AbsenceImplications []string `yaml:"absenceImplications,omitempty" json:"absenceImplications,omitempty"`
	Implies             []string `yaml:"implies,omitempty" json:"implies,omitempty"`
	Conflicts           []string `yaml:"conflictsWith,omitempty" json:"conflictsWith,omitempty"`
	Group               string   `yaml:"group,omitempty" json:"group,omitempty"`
}

// Clone returns a deep copy of the definition.
func (o OptionDefinition) Clone() OptionDefinition {
	out := o
	out.Aliases = cloneStrings(o.Aliases)
	out.AllowableValues = cloneStrings(o.AllowableValues)
	out.AbsenceImplications = cloneStrings(o.AbsenceImplications)
	out.Implies = cloneStrings(o.Implies)
	out.Conflicts = cloneStrings(o.Conflicts)
	return out
}

func cloneStrings(src []string) []string {
	if src == nil {
		return nil
	}
	dst := make([]string, len(src))
	copy(dst, src)
	return dst
}

// SortedPropertyNames returns property names in a stable order.
func SortedPropertyNames(props map[string]*ProfileProperty) []string {
	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DependencyFor returns the declaration for the given dependency type.
func (c *ProfileTypeConfiguration) DependencyFor(depType string) (DependencyDeclaration, bool) {
	for _, d := range c.Dependencies {
		if d.Type == depType {
			return d, true
		}
	}
	return DependencyDeclaration{}, false
}

// RequiredDependencyTypes returns the types this type must depend on.
func (c *ProfileTypeConfiguration) RequiredDependencyTypes() []string {
	var out []string
	for _, d := range c.Dependencies {
		if d.Required {
			out = append(out, d.Type)
		}
	}
	return out
}

// Validate checks the invariants of a single type configuration.
func (c *ProfileTypeConfiguration) Validate() error {
	if strings.TrimSpace(c.Type) == "" {
		return fmt.Errorf("profile type configuration is missing a type")
	}
	if c.Schema == nil {
		return fmt.Errorf("profile type %q has no schema", c.Type)
	}
	if c.Schema.Properties == nil {
		return fmt.Errorf("schema for profile type %q has no properties", c.Type)
	}
	if _, ok := c.Schema.Properties[KeyDependencies]; ok {
		return fmt.Errorf("schema for profile type %q must not declare a %q property", c.Type, KeyDependencies)
	}
	seen := make(map[string]bool, len(c.Dependencies))
	for _, d := range c.Dependencies {
		if strings.TrimSpace(d.Type) == "" {
			return fmt.Errorf("profile type %q declares a dependency without a type", c.Type)
		}
		if seen[d.Type] {
			return fmt.Errorf("profile type %q declares dependency type %q more than once", c.Type, d.Type)
		}
		seen[d.Type] = true
	}
	return nil
}

// TypeConfigurations is the full set of profile types known to a manager.
type TypeConfigurations []ProfileTypeConfiguration

// Find returns the configuration for a type.
func (cs TypeConfigurations) Find(profileType string) (*ProfileTypeConfiguration, bool) {
	for i := range cs {
		if cs[i].Type == profileType {
			return &cs[i], true
		}
	}
	return nil, false
}

// Types returns the configured type names in declaration order.
func (cs TypeConfigurations) Types() []string {
	out := make([]string, len(cs))
	for i := range cs {
		out[i] = cs[i].Type
	}
	return out
}

// Validate checks every configuration, type uniqueness, and that every
// declared dependency type exists in the set.
func (cs TypeConfigurations) Validate() error {
	if len(cs) == 0 {
		return fmt.Errorf("no profile type configurations supplied")
	}
	known := make(map[string]bool, len(cs))
	for i := range cs {
		if err := cs[i].Validate(); err != nil {
			return err
		}
		if known[cs[i].Type] {
			return fmt.Errorf("profile type %q is configured more than once", cs[i].Type)
		}
		known[cs[i].Type] = true
	}
	for i := range cs {
		for _, d := range cs[i].Dependencies {
			if !known[d.Type] {
				return fmt.Errorf("profile type %q depends on unknown type %q", cs[i].Type, d.Type)
			}
		}
	}
	return nil
}
