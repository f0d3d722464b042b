package builders

import (
	"fmt"
	"strings"

	"github.com/zowe/imperative-go/internal/domain/commands"
	"github.com/zowe/imperative-go/internal/domain/entities"
)

// Option names shared by the generated commands and their handlers.
const (
	OptionOverwrite       = "overwrite"
	OptionDisableDefaults = "disable-defaults"
	OptionForce           = "force"
	OptionShowContents    = "show-contents"
	OptionPrintPlanOnly   = "print-plan-only"

	PositionalProfileName = "profileName"
)

// OverwriteOption allows create to replace an existing profile.
func OverwriteOption(profileType string) entities.OptionDefinition {
	return entities.OptionDefinition{
		Name:        OptionOverwrite,
		Aliases:     []string{"ow"},
		Description: fmt.Sprintf("Overwrite the %s profile when a profile of the same name exists.", profileType),
		Type:        entities.OptionTypeBoolean,
	}
}

// DisableDefaultsOption stops create from filling unset options with their
// defaults.
func DisableDefaultsOption() entities.OptionDefinition {
	return entities.OptionDefinition{
		Name:        OptionDisableDefaults,
		Aliases:     []string{"dd"},
		Description: "Disable populating profile values of undefined properties with default values.",
		Type:        entities.OptionTypeBoolean,
	}
}

// PrintPlanOnlyOption makes validate print the plan instead of running it.
func PrintPlanOnlyOption() entities.OptionDefinition {
	return entities.OptionDefinition{
		Name:    OptionPrintPlanOnly,
		Aliases: []string{"plan", "p"},
		Description: "Instead of validating your profile, print out a table of the tasks used for validation. " +
			"This will explain the different services and functionality that will be tested during profile validation.",
		Type: entities.OptionTypeBoolean,
	}
}

func commandName(profileType string) string {
	return profileType + "-profile"
}

func namePositional(verb string, required bool) commands.Positional {
	return commands.Positional{
		Name:        PositionalProfileName,
		Description: fmt.Sprintf("Specify a profile name to %s.", verb),
		Required:    required,
	}
}

// CreateCommand builds "create {type}-profile <name>".
func CreateCommand(cfg *entities.ProfileTypeConfiguration) *commands.Definition {
	opts := BuildOptionsFromProfileSchema(cfg)
	opts = append(opts, OverwriteOption(cfg.Type), DisableDefaultsOption())
	return &commands.Definition{
		Name:        commandName(cfg.Type),
		Aliases:     []string{cfg.Type},
		Summary:     fmt.Sprintf("Create a %s profile", cfg.Type),
		Description: describe(cfg, "Create a %s profile. %s"),
		Kind:        commands.KindCommand,
		Positionals: []commands.Positional{namePositional("create", true)},
		Options:     opts,
		Action:      commands.ActionCreate,
		ProfileType: cfg.Type,
	}
}

// UpdateCommand builds "update {type}-profile <name>". Every option is
// optional and default-free.
func UpdateCommand(cfg *entities.ProfileTypeConfiguration) *commands.Definition {
	return &commands.Definition{
		Name:        commandName(cfg.Type),
		Aliases:     []string{cfg.Type},
		Summary:     fmt.Sprintf("Update a %s profile", cfg.Type),
		Description: describe(cfg, "Update a %s profile. You can update any property present within the profile configuration. %s"),
		Kind:        commands.KindCommand,
		Positionals: []commands.Positional{namePositional("update", true)},
		Options:     relaxOptions(BuildOptionsFromProfileSchema(cfg)),
		Action:      commands.ActionUpdate,
		ProfileType: cfg.Type,
	}
}

// DeleteCommand builds "delete {type}-profile <name>".
func DeleteCommand(cfg *entities.ProfileTypeConfiguration) *commands.Definition {
	return &commands.Definition{
		Name:        commandName(cfg.Type),
		Aliases:     []string{cfg.Type},
		Summary:     fmt.Sprintf("Delete a %s profile", cfg.Type),
		Description: fmt.Sprintf("Delete a %s profile. You must specify a profile name to be deleted.", cfg.Type),
		Kind:        commands.KindCommand,
		Positionals: []commands.Positional{namePositional("delete", true)},
		Options: []entities.OptionDefinition{{
			Name:        OptionForce,
			Description: "Force deletion of profile even when other profiles depend on it.",
			Type:        entities.OptionTypeBoolean,
		}},
		Examples: []commands.Example{{
			Description: fmt.Sprintf("Delete a %s profile named profilename", cfg.Type),
			Options:     "profilename",
		}},
		Action:      commands.ActionDelete,
		ProfileType: cfg.Type,
	}
}

// ListCommand builds "list {type}-profiles".
func ListCommand(cfg *entities.ProfileTypeConfiguration) *commands.Definition {
	return &commands.Definition{
		Name:        cfg.Type + "-profiles",
		Aliases:     []string{cfg.Type},
		Summary:     fmt.Sprintf("List profiles of the type %s.", cfg.Type),
		Description: fmt.Sprintf("List profiles of the type %s.", cfg.Type),
		Kind:        commands.KindCommand,
		Options: []entities.OptionDefinition{{
			Name:        OptionShowContents,
			Aliases:     []string{"sc"},
			Description: "List profiles and their contents. All profile details will be printed as part of command output.",
			Type:        entities.OptionTypeBoolean,
		}},
		Examples: []commands.Example{
			{Description: fmt.Sprintf("List profiles of type %s", cfg.Type)},
			{
				Description: fmt.Sprintf("List profiles of type %s and display their contents", cfg.Type),
				Options:     "--sc",
			},
		},
		Action:      commands.ActionList,
		ProfileType: cfg.Type,
	}
}

// SetDefaultCommand builds "set-default {type}-profile <name>".
func SetDefaultCommand(cfg *entities.ProfileTypeConfiguration) *commands.Definition {
	return &commands.Definition{
		Name:    commandName(cfg.Type),
		Aliases: []string{cfg.Type},
		Summary: fmt.Sprintf("Set the default profiles for the %s group", cfg.Type),
		Description: fmt.Sprintf("The %s set default-profiles command allows you to set the default profiles for "+
			"this command group. When a %s command is issued and no profile override options are specified, "+
			"the default profiles for the command group are automatically loaded for the command based on the "+
			"commands profile requirements.", cfg.Type, cfg.Type),
		Kind:        commands.KindCommand,
		Positionals: []commands.Positional{namePositional("be the new default", true)},
		Examples: []commands.Example{{
			Description: fmt.Sprintf("Set the default profile for the %s type to the profile named 'profilename'", cfg.Type),
			Options:     "profilename",
		}},
		Action:      commands.ActionSetDefault,
		ProfileType: cfg.Type,
	}
}

// ValidateCommand builds "validate {type}-profile [name]". It returns nil
// for types without a validation plan.
func ValidateCommand(cfg *entities.ProfileTypeConfiguration) *commands.Definition {
	if cfg.ValidationPlanModule == "" {
		return nil
	}
	return &commands.Definition{
		Name:    commandName(cfg.Type),
		Aliases: []string{cfg.Type},
		Summary: fmt.Sprintf("Test the validity of a %s profile", cfg.Type),
		Description: fmt.Sprintf("Test the validity of a %s profile. "+
			"The default profile is validated when no name is given.", cfg.Type),
		Kind:        commands.KindCommand,
		Positionals: []commands.Positional{namePositional("validate", false)},
		Options:     []entities.OptionDefinition{PrintPlanOnlyOption()},
		Action:      commands.ActionValidate,
		ProfileType: cfg.Type,
	}
}

func describe(cfg *entities.ProfileTypeConfiguration, format string) string {
	var schemaDesc string
	if cfg.Schema != nil {
		schemaDesc = cfg.Schema.Description
	}
	return strings.TrimSpace(fmt.Sprintf(format, cfg.Type, schemaDesc))
}
