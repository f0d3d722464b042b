package entities

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfigs() TypeConfigurations {
	return TypeConfigurations{
		{
			Type: "zosmf",
			Schema: &ProfileSchema{
				Type: "object",
				Properties: map[string]*ProfileProperty{
					"host": {Type: "string"},
				},
			},
			Dependencies: []DependencyDeclaration{{Type: "base", Required: true}},
		},
		{
			Type: "base",
			Schema: &ProfileSchema{
				Type:       "object",
				Properties: map[string]*ProfileProperty{"user": {Type: "string"}},
			},
		},
	}
}

func Test_Profile_Identity(t *testing.T) {
	t.Parallel()
	p := NewProfile("zosmf", "lpar1")
	assert.Equal(t, "zosmf", p.Type())
	assert.Equal(t, "lpar1", p.Name())
	assert.True(t, p.IsEmpty())

	p["host"] = "example.com"
	assert.False(t, p.IsEmpty())
}

func Test_Profile_Dependencies_Decode(t *testing.T) {
	t.Parallel()
	p := Profile{
		"name": "a",
		"type": "zosmf",
		"dependencies": []any{
			map[string]any{"type": "base", "name": "b"},
			map[string]any{"type": "tso"},
		},
	}

	deps, err := p.Dependencies()
	require.NoError(t, err)
	assert.Equal(t, []DependencyRef{{Type: "base", Name: "b"}, {Type: "tso"}}, deps)
}

func Test_Profile_Dependencies_Invalid(t *testing.T) {
	t.Parallel()
	_, err := Profile{"dependencies": "nope"}.Dependencies()
	assert.Error(t, err)

	_, err = Profile{"dependencies": []any{"nope"}}.Dependencies()
	assert.Error(t, err)
}

func Test_Profile_WithDependencies_DoesNotMutate(t *testing.T) {
	t.Parallel()
	p := NewProfile("zosmf", "a")
	out := p.WithDependencies([]DependencyRef{{Type: "base", Name: "b"}})

	assert.False(t, p.HasDependencies())
	deps, err := out.Dependencies()
	require.NoError(t, err)
	assert.Equal(t, []DependencyRef{{Type: "base", Name: "b"}}, deps)

	cleared := out.WithDependencies(nil)
	assert.False(t, cleared.HasDependencies())
}

func Test_Profile_Lookup(t *testing.T) {
	t.Parallel()
	p := Profile{"auth": map[string]any{"user": "ibmuser"}}

	v, ok := p.Lookup("auth.user")
	assert.True(t, ok)
	assert.Equal(t, "ibmuser", v)

	_, ok = p.Lookup("auth.password")
	assert.False(t, ok)
	_, ok = p.Lookup("auth.user.deeper")
	assert.False(t, ok)
}

func Test_TypeConfigurations_Validate(t *testing.T) {
	t.Parallel()
	require.NoError(t, testConfigs().Validate())

	cfgs := testConfigs()
	cfgs[0].Dependencies = append(cfgs[0].Dependencies, DependencyDeclaration{Type: "missing"})
	assert.ErrorContains(t, cfgs.Validate(), `unknown type "missing"`)

	dup := append(testConfigs(), testConfigs()[1])
	assert.ErrorContains(t, dup.Validate(), "more than once")

	noProps := testConfigs()
	noProps[1].Schema.Properties = nil
	assert.ErrorContains(t, noProps.Validate(), "no properties")

	reserved := testConfigs()
	reserved[1].Schema.Properties["dependencies"] = &ProfileProperty{Type: "array"}
	assert.ErrorContains(t, reserved.Validate(), "must not declare")

	assert.Error(t, TypeConfigurations{}.Validate())
}

func Test_ProfileTypeConfiguration_Dependencies(t *testing.T) {
	t.Parallel()
	cfgs := testConfigs()
	cfg, ok := cfgs.Find("zosmf")
	require.True(t, ok)

	assert.Equal(t, []string{"base"}, cfg.RequiredDependencyTypes())
	decl, ok := cfg.DependencyFor("base")
	assert.True(t, ok)
	assert.True(t, decl.Required)
	_, ok = cfg.DependencyFor("tso")
	assert.False(t, ok)
	assert.Equal(t, []string{"zosmf", "base"}, cfgs.Types())
}

func Test_OptionDefinition_Clone(t *testing.T) {
	t.Parallel()
	o := OptionDefinition{Name: "host", Aliases: []string{"H"}, Implies: []string{"port"}}
	c := o.Clone()
	c.Aliases[0] = "X"
	c.Implies = nil

	assert.Equal(t, "H", o.Aliases[0])
	assert.Equal(t, []string{"port"}, o.Implies)
}

func Test_FlattenLoaded(t *testing.T) {
	t.Parallel()
	leaf := &Loaded{Type: "base", Name: "b"}
	mid := &Loaded{Type: "tso", Name: "t", DependencyLoadResponses: []*Loaded{leaf}}
	root := &Loaded{Type: "zosmf", Name: "z", DependencyLoadResponses: []*Loaded{mid}}
	other := &Loaded{Type: "zosmf", Name: "y"}

	flat := FlattenLoaded([]*Loaded{root, other})
	require.Len(t, flat, 4)
	assert.Equal(t, []DependencyRef{
		{Type: "zosmf", Name: "z"},
		{Type: "tso", Name: "t"},
		{Type: "base", Name: "b"},
		{Type: "zosmf", Name: "y"},
	}, []DependencyRef{flat[0].Ref(), flat[1].Ref(), flat[2].Ref(), flat[3].Ref()})
}

func Test_NotFoundMessage(t *testing.T) {
	t.Parallel()
	msg := NotFoundMessage("zosmf", "gone")
	assert.Contains(t, msg, `Profile "gone" of type "zosmf" was not found`)
	assert.Equal(t, "zosmf_meta", MetaProfileName("zosmf"))
}
