// Package builders generates profile command definitions from profile type
// configurations.
package builders

import (
	"fmt"

	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/values"
)

// BuildOptionsFromProfileSchema flattens the option definitions of every
// schema property, nested ones included, and adds one "{type}-profile"
// option per declared dependency. Properties are walked in sorted order so
// the result is stable. The configuration is not modified.
func BuildOptionsFromProfileSchema(cfg *entities.ProfileTypeConfiguration) []entities.OptionDefinition {
	if cfg == nil {
		return nil
	}
	var opts []entities.OptionDefinition
	if cfg.Schema != nil {
		opts = collectOptions(cfg.Schema.Properties, opts)
	}
	for _, dep := range cfg.Dependencies {
		opts = append(opts, dependencyOption(dep))
	}
	return opts
}

func collectOptions(props map[string]*entities.ProfileProperty, out []entities.OptionDefinition) []entities.OptionDefinition {
	for _, name := range entities.SortedPropertyNames(props) {
		prop := props[name]
		if prop == nil {
			continue
		}
		if prop.OptionDefinition != nil {
			out = append(out, prop.OptionDefinition.Clone())
		}
		for _, def := range prop.OptionDefinitions {
			out = append(out, def.Clone())
		}
		if prop.HasProperties() {
			out = collectOptions(prop.Properties, out)
		}
	}
	return out
}

func dependencyOption(dep entities.DependencyDeclaration) entities.OptionDefinition {
	desc := dep.Description
	if desc == "" {
		desc = fmt.Sprintf("The name of a %s profile to associate with this profile.", dep.Type)
	}
	return entities.OptionDefinition{
		Name:        values.ProfileOptionName(dep.Type),
		Aliases:     []string{values.ProfileOptionAlias(dep.Type)},
		Description: desc,
		Type:        entities.OptionTypeString,
		Required:    dep.Required,
	}
}

// relaxOptions returns copies of opts that are never required, imply
// nothing, and carry no default, so that an omitted option leaves the stored
// value alone.
func relaxOptions(opts []entities.OptionDefinition) []entities.OptionDefinition {
	out := make([]entities.OptionDefinition, len(opts))
	for i, o := range opts {
		c := o.Clone()
		c.Required = false
		c.AbsenceImplications = nil
		c.Implies = nil
		c.DefaultValue = nil
		out[i] = c
	}
	return out
}
