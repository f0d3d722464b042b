package builders

import (
	"github.com/zowe/imperative-go/internal/domain/commands"
	"github.com/zowe/imperative-go/internal/domain/entities"
)

// ProfilesGroupName is the name of the generated top-level group.
const ProfilesGroupName = "profiles"

// ProfilesGroup builds the complete "profiles" command tree for every
// configured type. The validate group only appears when at least one type
// declares a validation plan.
func ProfilesGroup(configs entities.TypeConfigurations, product string) *commands.Definition {
	create := actionGroup("create", []string{"cre"}, "Create new profiles")
	update := actionGroup("update", []string{"upd"}, "Update existing profiles")
	del := actionGroup("delete", []string{"rm"}, "Delete existing profiles")
	list := actionGroup("list", []string{"ls"}, "List existing profiles")
	set := actionGroup("set-default", []string{"set"}, "Set which profiles are loaded by default")
	validate := actionGroup("validate", []string{"val"}, "Test the validity of a profile")

	for i := range configs {
		cfg := &configs[i]
		create.Children = append(create.Children, CreateCommand(cfg))
		update.Children = append(update.Children, UpdateCommand(cfg))
		del.Children = append(del.Children, DeleteCommand(cfg))
		list.Children = append(list.Children, ListCommand(cfg))
		set.Children = append(set.Children, SetDefaultCommand(cfg))
		if v := ValidateCommand(cfg); v != nil {
			validate.Children = append(validate.Children, v)
		}
	}

	group := &commands.Definition{
		Name:    ProfilesGroupName,
		Aliases: []string{"pr"},
		Summary: "Create and manage configuration profiles",
		Description: "Create and manage configuration profiles for " + product +
			". Profiles hold connection details and are referenced by name.",
		Kind:     commands.KindGroup,
		Children: []*commands.Definition{create, update, del, list, set},
	}
	if len(validate.Children) > 0 {
		group.Children = append(group.Children, validate)
	}
	return group
}

func actionGroup(name string, aliases []string, summary string) *commands.Definition {
	return &commands.Definition{
		Name:        name,
		Aliases:     aliases,
		Summary:     summary,
		Description: summary + ".",
		Kind:        commands.KindGroup,
	}
}
