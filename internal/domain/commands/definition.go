// Package commands describes command trees independently of the CLI library
// that eventually parses them.
package commands

import (
	"github.com/zowe/imperative-go/internal/domain/entities"
)

// Kind distinguishes groups from runnable commands.
type Kind string

const (
	KindGroup   Kind = "group"
	KindCommand Kind = "command"
)

// Action names the profile operation a generated command performs.
type Action string

const (
	ActionCreate     Action = "create"
	ActionUpdate     Action = "update"
	ActionDelete     Action = "delete"
	ActionList       Action = "list"
	ActionSetDefault Action = "set-default"
	ActionValidate   Action = "validate"
)

// Positional is a positional argument of a command.
type Positional struct {
	Name        string
	Description string
	Required    bool
}

// Example is a usage example shown in help.
type Example struct {
	Description string
	Options     string
}

// Definition is one node of a command tree.
type Definition struct {
	Name        string
	Aliases     []string
	Summary     string
	Description string
	Kind        Kind
	Positionals []Positional
	Options     []entities.OptionDefinition
	Examples    []Example
	Children    []*Definition

	// Action and ProfileType identify what a generated command does.
	Action      Action
	ProfileType string
}

// Child returns the direct child with the given name or alias.
func (d *Definition) Child(name string) (*Definition, bool) {
	for _, c := range d.Children {
		if c.Name == name {
			return c, true
		}
		for _, a := range c.Aliases {
			if a == name {
				return c, true
			}
		}
	}
	return nil, false
}

// Find walks the tree along path.
func (d *Definition) Find(path ...string) (*Definition, bool) {
	cur := d
	for _, name := range path {
		next, ok := cur.Child(name)
		if !ok {
			return nil, false
		}
		cur = next
	}
	return cur, true
}

// Option returns the option with the given name.
func (d *Definition) Option(name string) (entities.OptionDefinition, bool) {
	for _, o := range d.Options {
		if o.Name == name {
			return o, true
		}
	}
	return entities.OptionDefinition{}, false
}

// Walk calls fn for every node, parents first.
func (d *Definition) Walk(fn func(path []string, def *Definition)) {
	d.walk(nil, fn)
}

func (d *Definition) walk(parent []string, fn func([]string, *Definition)) {
	path := append(append([]string(nil), parent...), d.Name)
	fn(path, d)
	for _, c := range d.Children {
		c.walk(path, fn)
	}
}
