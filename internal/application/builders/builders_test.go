package builders

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zowe/imperative-go/internal/domain/commands"
	"github.com/zowe/imperative-go/internal/domain/entities"
)

func zosmfConfig() *entities.ProfileTypeConfiguration {
	return &entities.ProfileTypeConfiguration{
		Type: "zosmf",
		Schema: &entities.ProfileSchema{
			Type:        "object",
			Description: "z/OSMF connection details.",
			Properties: map[string]*entities.ProfileProperty{
				"host": {Type: "string", OptionDefinition: &entities.OptionDefinition{
					Name: "host", Aliases: []string{"H"}, Type: "string", Required: true,
					Implies: []string{"port"},
				}},
				"port": {Type: "number", OptionDefinition: &entities.OptionDefinition{
					Name: "port", Aliases: []string{"P"}, Type: "number", DefaultValue: 443,
					AbsenceImplications: []string{"host"},
				}},
				"auth": {
					Type: "object",
					Properties: map[string]*entities.ProfileProperty{
						"user": {Type: "string", OptionDefinition: &entities.OptionDefinition{Name: "user", Type: "string"}},
						"password": {Type: "string", Secure: true, OptionDefinitions: []entities.OptionDefinition{
							{Name: "password", Aliases: []string{"pass"}, Type: "string"},
							{Name: "passphrase", Type: "string"},
						}},
					},
				},
				"notes": {Type: "string"},
			},
		},
		Dependencies: []entities.DependencyDeclaration{
			{Type: "base"},
			{Type: "ssh", Required: true, Description: "The SSH profile."},
		},
	}
}

func optionNames(opts []entities.OptionDefinition) []string {
	names := make([]string, len(opts))
	for i, o := range opts {
		names[i] = o.Name
	}
	return names
}

func TestBuildOptionsFromProfileSchema(t *testing.T) {
	t.Parallel()
	cfg := zosmfConfig()

	opts := BuildOptionsFromProfileSchema(cfg)
	assert.Equal(t, []string{"password", "passphrase", "user", "host", "port", "base-profile", "ssh-profile"}, optionNames(opts))

	base := opts[5]
	assert.Equal(t, []string{"base-p"}, base.Aliases)
	assert.Equal(t, entities.OptionTypeString, base.Type)
	assert.False(t, base.Required)
	assert.Equal(t, "The name of a base profile to associate with this profile.", base.Description)

	ssh := opts[6]
	assert.True(t, ssh.Required)
	assert.Equal(t, "The SSH profile.", ssh.Description)

	for i := 0; i < 5; i++ {
		assert.Equal(t, opts, BuildOptionsFromProfileSchema(cfg), "repeated builds are equal")
	}

	assert.Nil(t, BuildOptionsFromProfileSchema(nil))
}

func TestBuildOptionsFromProfileSchema_DoesNotShareState(t *testing.T) {
	t.Parallel()
	cfg := zosmfConfig()

	opts := BuildOptionsFromProfileSchema(cfg)
	opts[3].Aliases[0] = "changed"
	opts[3].Required = false

	host := cfg.Schema.Properties["host"].OptionDefinition
	assert.Equal(t, []string{"H"}, host.Aliases)
	assert.True(t, host.Required)
}

func TestCreateCommand(t *testing.T) {
	t.Parallel()
	def := CreateCommand(zosmfConfig())

	assert.Equal(t, "zosmf-profile", def.Name)
	assert.Equal(t, []string{"zosmf"}, def.Aliases)
	assert.Equal(t, commands.ActionCreate, def.Action)
	assert.Equal(t, "zosmf", def.ProfileType)
	assert.Equal(t, "Create a zosmf profile. z/OSMF connection details.", def.Description)
	require.Len(t, def.Positionals, 1)
	assert.True(t, def.Positionals[0].Required)

	ow, ok := def.Option(OptionOverwrite)
	require.True(t, ok)
	assert.Equal(t, []string{"ow"}, ow.Aliases)
	dd, ok := def.Option(OptionDisableDefaults)
	require.True(t, ok)
	assert.Equal(t, []string{"dd"}, dd.Aliases)

	port, ok := def.Option("port")
	require.True(t, ok)
	assert.Equal(t, 443, port.DefaultValue)
}

func TestUpdateCommand_RelaxesOptions(t *testing.T) {
	t.Parallel()
	cfg := zosmfConfig()
	def := UpdateCommand(cfg)

	assert.Equal(t, commands.ActionUpdate, def.Action)
	for _, o := range def.Options {
		assert.False(t, o.Required, o.Name)
		assert.Nil(t, o.DefaultValue, o.Name)
		assert.Empty(t, o.Implies, o.Name)
		assert.Empty(t, o.AbsenceImplications, o.Name)
	}
	_, ok := def.Option(OptionOverwrite)
	assert.False(t, ok)

	host := cfg.Schema.Properties["host"].OptionDefinition
	assert.True(t, host.Required, "the schema is not modified")
	assert.Equal(t, []string{"port"}, host.Implies)
	assert.Equal(t, 443, cfg.Schema.Properties["port"].OptionDefinition.DefaultValue)
	assert.True(t, cfg.Dependencies[1].Required)
}

func TestOtherCommands(t *testing.T) {
	t.Parallel()
	cfg := zosmfConfig()

	del := DeleteCommand(cfg)
	_, ok := del.Option(OptionForce)
	assert.True(t, ok)
	assert.Equal(t, commands.ActionDelete, del.Action)

	list := ListCommand(cfg)
	assert.Equal(t, "zosmf-profiles", list.Name)
	assert.Empty(t, list.Positionals)
	sc, ok := list.Option(OptionShowContents)
	require.True(t, ok)
	assert.Equal(t, []string{"sc"}, sc.Aliases)

	set := SetDefaultCommand(cfg)
	assert.Equal(t, commands.ActionSetDefault, set.Action)
	require.Len(t, set.Positionals, 1)

	assert.Nil(t, ValidateCommand(cfg))
	cfg.ValidationPlanModule = "zosmf"
	val := ValidateCommand(cfg)
	require.NotNil(t, val)
	assert.False(t, val.Positionals[0].Required)
	plan, ok := val.Option(OptionPrintPlanOnly)
	require.True(t, ok)
	assert.Equal(t, []string{"plan", "p"}, plan.Aliases)
}

func TestProfilesGroup(t *testing.T) {
	t.Parallel()
	zosmf := *zosmfConfig()
	zosmf.ValidationPlanModule = "zosmf"
	configs := entities.TypeConfigurations{
		zosmf,
		{Type: "base", Schema: &entities.ProfileSchema{Properties: map[string]*entities.ProfileProperty{}}},
		{Type: "ssh", Schema: &entities.ProfileSchema{Properties: map[string]*entities.ProfileProperty{}}},
	}

	group := ProfilesGroup(configs, "Imperative")
	assert.Equal(t, commands.KindGroup, group.Kind)

	var names []string
	for _, c := range group.Children {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"create", "update", "delete", "list", "set-default", "validate"}, names)

	create, ok := group.Find("cre", "base")
	require.True(t, ok, "aliases resolve")
	assert.Equal(t, "base-profile", create.Name)

	validate, ok := group.Child("validate")
	require.True(t, ok)
	require.Len(t, validate.Children, 1)
	assert.Equal(t, "zosmf-profile", validate.Children[0].Name)

	var leaves int
	group.Walk(func(path []string, def *commands.Definition) {
		if def.Kind == commands.KindCommand {
			leaves++
			assert.Len(t, path, 3)
		}
	})
	assert.Equal(t, 3*5+1, leaves)

	withoutPlans := ProfilesGroup(configs[1:], "Imperative")
	_, ok = withoutPlans.Child("validate")
	assert.False(t, ok)
}
