// Package cli projects generated command definitions onto cobra commands.
package cli

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/zowe/imperative-go/internal/application/builders"
	"github.com/zowe/imperative-go/internal/application/dto"
	"github.com/zowe/imperative-go/internal/domain/commands"
	"github.com/zowe/imperative-go/internal/domain/entities"
)

// Invocation is a parsed call of a generated command.
type Invocation struct {
	Definition *commands.Definition
	// Positionals holds the positional arguments that were given, by name.
	Positionals map[string]string
	// Arguments holds changed options, plus defaults unless disabled, keyed
	// by canonical option name.
	Arguments dto.Arguments
}

// Positional returns a positional argument, or "" when it was not given.
func (inv Invocation) Positional(name string) string {
	return inv.Positionals[name]
}

// Bool returns a boolean argument.
func (inv Invocation) Bool(name string) bool {
	b, _ := inv.Arguments[name].(bool)
	return b
}

// Handler runs a generated command.
type Handler func(ctx context.Context, cmd *cobra.Command, inv Invocation) error

// Project builds the cobra command tree for def. Every runnable command
// calls handler.
func Project(def *commands.Definition, handler Handler) (*cobra.Command, error) {
	return project(def, handler, nil)
}

func project(def *commands.Definition, handler Handler, parent []string) (*cobra.Command, error) {
	path := append(append([]string(nil), parent...), def.Name)
	cmd := &cobra.Command{
		Use:     use(def),
		Aliases: def.Aliases,
		Short:   def.Summary,
		Long:    def.Description,
		Example: examples(def, path),
	}

	if def.Kind == commands.KindGroup {
		for _, child := range def.Children {
			sub, err := project(child, handler, path)
			if err != nil {
				return nil, err
			}
			cmd.AddCommand(sub)
		}
		return cmd, nil
	}

	if err := bindOptions(cmd.Flags(), def.Options); err != nil {
		return nil, fmt.Errorf("command %q: %w", strings.Join(path, " "), err)
	}
	for _, o := range def.Options {
		if o.Required {
			if err := cmd.MarkFlagRequired(o.Name); err != nil {
				return nil, err
			}
		}
	}
	markConflicts(cmd, def.Options)

	cmd.Args = positionalArgs(def.Positionals)
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		inv, err := collect(def, cmd.Flags(), args)
		if err != nil {
			return err
		}
		return handler(cmd.Context(), cmd, inv)
	}
	return cmd, nil
}

func use(def *commands.Definition) string {
	parts := []string{def.Name}
	for _, p := range def.Positionals {
		if p.Required {
			parts = append(parts, "<"+p.Name+">")
		} else {
			parts = append(parts, "["+p.Name+"]")
		}
	}
	return strings.Join(parts, " ")
}

func examples(def *commands.Definition, path []string) string {
	lines := make([]string, 0, len(def.Examples))
	for _, ex := range def.Examples {
		call := strings.TrimSpace(strings.Join(path, " ") + " " + ex.Options)
		lines = append(lines, fmt.Sprintf("  # %s\n  $ %s", ex.Description, call))
	}
	return strings.Join(lines, "\n\n")
}

func positionalArgs(ps []commands.Positional) cobra.PositionalArgs {
	required := 0
	for _, p := range ps {
		if p.Required {
			required++
		}
	}
	return cobra.RangeArgs(required, len(ps))
}

// bindOptions adds one flag per option. A single-letter alias becomes the
// shorthand; other aliases and the camelCase form of the name are accepted
// through the flag set's normalize func.
func bindOptions(fs *pflag.FlagSet, opts []entities.OptionDefinition) error {
	names := make(map[string]bool, len(opts))
	for _, o := range opts {
		if names[o.Name] {
			return fmt.Errorf("option %q is defined more than once", o.Name)
		}
		names[o.Name] = true
	}

	aliases := make(map[string]string)
	for _, o := range opts {
		for _, a := range o.Aliases {
			if names[a] {
				return fmt.Errorf("alias %q of option %q is the name of another option", a, o.Name)
			}
			if other, ok := aliases[a]; ok && other != o.Name {
				return fmt.Errorf("alias %q is used by options %q and %q", a, other, o.Name)
			}
			aliases[a] = o.Name
		}
	}
	for _, o := range opts {
		camel := camelCase(o.Name)
		if _, taken := aliases[camel]; camel != o.Name && !names[camel] && !taken {
			aliases[camel] = o.Name
		}
	}
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		if canonical, ok := aliases[name]; ok {
			return pflag.NormalizedName(canonical)
		}
		return pflag.NormalizedName(name)
	})

	// -h is cobra's help flag and -v the root command's verbose flag.
	shorthands := map[string]bool{"h": true, "v": true}
	for _, o := range opts {
		short := ""
		for _, a := range o.Aliases {
			if len(a) == 1 && !shorthands[a] {
				short = a
				shorthands[a] = true
				break
			}
		}
		if err := addFlag(fs, o, short); err != nil {
			return err
		}
	}
	return nil
}

func addFlag(fs *pflag.FlagSet, o entities.OptionDefinition, short string) error {
	usage := o.Description
	if len(o.AllowableValues) > 0 {
		usage = fmt.Sprintf("%s (allowed: %s)", usage, strings.Join(o.AllowableValues, ", "))
	}
	if others := longAliases(o.Aliases); len(others) > 0 {
		usage = fmt.Sprintf("%s (aliases: --%s)", usage, strings.Join(others, ", --"))
	}

	switch o.Type {
	case entities.OptionTypeBoolean:
		def, err := defaultBool(o.DefaultValue)
		if err != nil {
			return fmt.Errorf("default for --%s: %w", o.Name, err)
		}
		fs.BoolP(o.Name, short, def, usage)
	case entities.OptionTypeNumber:
		def, err := defaultFloat(o.DefaultValue)
		if err != nil {
			return fmt.Errorf("default for --%s: %w", o.Name, err)
		}
		fs.Float64P(o.Name, short, def, usage)
	case entities.OptionTypeArray:
		fs.StringSliceP(o.Name, short, defaultStrings(o.DefaultValue), usage)
	default:
		def := ""
		if o.DefaultValue != nil {
			def = fmt.Sprint(o.DefaultValue)
		}
		fs.StringP(o.Name, short, def, usage)
	}
	return nil
}

func longAliases(aliases []string) []string {
	var out []string
	for _, a := range aliases {
		if len(a) > 1 {
			out = append(out, a)
		}
	}
	return out
}

func markConflicts(cmd *cobra.Command, opts []entities.OptionDefinition) {
	seen := make(map[[2]string]bool)
	for _, o := range opts {
		for _, c := range o.Conflicts {
			if cmd.Flags().Lookup(c) == nil {
				continue
			}
			pair := [2]string{o.Name, c}
			if c < o.Name {
				pair = [2]string{c, o.Name}
			}
			if seen[pair] {
				continue
			}
			seen[pair] = true
			cmd.MarkFlagsMutuallyExclusive(pair[0], pair[1])
		}
	}
}

// collect reads the positionals and the options that were set. Options
// left unset contribute their default unless --disable-defaults was given.
func collect(def *commands.Definition, fs *pflag.FlagSet, args []string) (Invocation, error) {
	inv := Invocation{
		Definition:  def,
		Positionals: make(map[string]string, len(args)),
		Arguments:   make(dto.Arguments),
	}
	for i, arg := range args {
		if i < len(def.Positionals) {
			inv.Positionals[def.Positionals[i].Name] = arg
		}
	}

	disableDefaults := false
	if f := fs.Lookup(builders.OptionDisableDefaults); f != nil {
		disableDefaults, _ = fs.GetBool(builders.OptionDisableDefaults)
	}

	for _, o := range def.Options {
		f := fs.Lookup(o.Name)
		if f == nil {
			continue
		}
		if !f.Changed && (o.DefaultValue == nil || disableDefaults) {
			continue
		}
		v, err := flagValue(fs, o)
		if err != nil {
			return Invocation{}, err
		}
		if err := checkAllowed(o, v); err != nil {
			return Invocation{}, err
		}
		inv.Arguments[o.Name] = v
	}
	return inv, nil
}

func flagValue(fs *pflag.FlagSet, o entities.OptionDefinition) (any, error) {
	switch o.Type {
	case entities.OptionTypeBoolean:
		return fs.GetBool(o.Name)
	case entities.OptionTypeNumber:
		f, err := fs.GetFloat64(o.Name)
		if err != nil {
			return nil, err
		}
		if f == math.Trunc(f) && math.Abs(f) < 1<<53 {
			return int(f), nil
		}
		return f, nil
	case entities.OptionTypeArray:
		return fs.GetStringSlice(o.Name)
	default:
		return fs.GetString(o.Name)
	}
}

func checkAllowed(o entities.OptionDefinition, v any) error {
	if len(o.AllowableValues) == 0 {
		return nil
	}
	var given []string
	switch val := v.(type) {
	case []string:
		given = val
	default:
		given = []string{fmt.Sprint(val)}
	}
	for _, g := range given {
		if !contains(o.AllowableValues, g) {
			return fmt.Errorf("invalid value %q for --%s (allowed: %s)", g, o.Name, strings.Join(o.AllowableValues, ", "))
		}
	}
	return nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func camelCase(s string) string {
	parts := strings.Split(s, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}
