package services

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zowe/imperative-go/internal/application/dto"
	apperrors "github.com/zowe/imperative-go/internal/application/errors"
	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/infrastructure/persistence/memory"
	"github.com/zowe/imperative-go/internal/infrastructure/validation"
)

func lpar1() entities.Profile {
	return entities.Profile{
		"host": "example.com",
		"port": 443,
		"auth": map[string]any{
			"user":     "ibmuser",
			"password": "hunter2",
		},
		"keys": map[string]any{"private": "abc"},
	}
}

func TestNewProfileService_RejectsBadConfiguration(t *testing.T) {
	t.Parallel()
	f := newFixture(t)

	tests := []struct {
		name   string
		mutate func(*ProfileServiceOptions)
	}{
		{"no root", func(o *ProfileServiceOptions) { o.ProfileRootDir = " " }},
		{"no io", func(o *ProfileServiceOptions) { o.ProfileIO = nil }},
		{"no validator", func(o *ProfileServiceOptions) { o.SchemaValidator = nil }},
		{"unknown type", func(o *ProfileServiceOptions) { o.Type = "ftp" }},
		{"unknown dependency type", func(o *ProfileServiceOptions) {
			o.TypeConfigurations = testConfigurations()
			o.TypeConfigurations[1].Dependencies = []entities.DependencyDeclaration{{Type: "ftp"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := f.opts
			opts.Type = "zosmf"
			tt.mutate(&opts)

			_, err := NewProfileService(opts)
			var cfgErr *apperrors.ConfigurationError
			assert.True(t, errors.As(err, &cfgErr), "got %v", err)
		})
	}
}

func TestSave_ExternalizesSecureFields(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service(t, "zosmf")

	input := lpar1()
	resp, err := svc.Save(ctx, dto.SaveProfileRequest{Name: "lpar1", Profile: input})
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(testRoot, "zosmf", "lpar1.yaml"), resp.Path)
	assert.Contains(t, resp.Message, "successfully written")
	assert.False(t, resp.Overwritten)

	raw := f.raw(t, "zosmf", "lpar1")
	assert.Equal(t, "lpar1", raw.Name())
	assert.Equal(t, "zosmf", raw.Type())
	assert.Equal(t, "managed by test store", raw["auth"].(map[string]any)["password"])
	assert.Equal(t, "managed by test store", raw["keys"], "secure boxes are stored whole")
	assert.Equal(t, "ibmuser", raw["auth"].(map[string]any)["user"])

	v, ok := f.credential(t, "zosmf_lpar1_auth.password")
	require.True(t, ok)
	assert.Equal(t, `"hunter2"`, v)
	v, ok = f.credential(t, "zosmf_lpar1_keys")
	require.True(t, ok)
	assert.JSONEq(t, `{"private":"abc"}`, v)

	assert.Equal(t, lpar1(), input, "the caller's document is not modified")
	assert.Contains(t, f.tracked.AllValues(), "hunter2")
}

func TestSave_ThenLoadRoundTrip(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service(t, "zosmf")

	_, err := svc.Save(ctx, dto.SaveProfileRequest{Name: "lpar1", Profile: lpar1()})
	require.NoError(t, err)

	loaded, err := svc.Load(ctx, dto.LoadProfileRequest{Name: "lpar1"})
	require.NoError(t, err)

	assert.True(t, loaded.FailNotFound)
	assert.Equal(t, `Profile "lpar1" of type "zosmf" loaded successfully.`, loaded.Message)
	assert.Equal(t, "hunter2", loaded.Profile["auth"].(map[string]any)["password"])
	assert.Equal(t, map[string]any{"private": "abc"}, loaded.Profile["keys"])
	assert.EqualValues(t, 443, loaded.Profile["port"])

	noSecure, err := svc.Load(ctx, dto.LoadProfileRequest{Name: "lpar1", NoSecure: true})
	require.NoError(t, err)
	assert.Equal(t, "managed by test store", noSecure.Profile["keys"])
}

func TestSave_OverwriteProtection(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service(t, "zosmf")

	_, err := svc.Save(ctx, dto.SaveProfileRequest{Name: "lpar1", Profile: lpar1()})
	require.NoError(t, err)

	changed := lpar1()
	changed["host"] = "other.example.com"
	_, err = svc.Save(ctx, dto.SaveProfileRequest{Name: "lpar1", Profile: changed})
	var conflict *apperrors.ConflictError
	require.True(t, errors.As(err, &conflict))
	assert.Equal(t, "example.com", f.raw(t, "zosmf", "lpar1")["host"])

	delete(changed, "keys")
	resp, err := svc.Save(ctx, dto.SaveProfileRequest{Name: "lpar1", Profile: changed, Overwrite: true})
	require.NoError(t, err)
	assert.True(t, resp.Overwritten)
	assert.Equal(t, "other.example.com", f.raw(t, "zosmf", "lpar1")["host"])

	_, ok := f.credential(t, "zosmf_lpar1_keys")
	assert.False(t, ok, "secure fields dropped by an overwrite are removed")
	_, ok = f.credential(t, "zosmf_lpar1_auth.password")
	assert.True(t, ok)
}

func TestSave_WithoutCredentialManager(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.opts.CredentialManager = nil
	svc := f.service(t, "zosmf")

	_, err := svc.Save(ctx, dto.SaveProfileRequest{Name: "lpar1", Profile: lpar1()})
	var credErr *apperrors.CredentialManagerError
	require.True(t, errors.As(err, &credErr), "got %v", err)
	assert.Equal(t, "save", credErr.Phase)
	assert.Contains(t, err.Error(), `Unable to save the secure field`)

	exists, err := f.io.Exists(svc.ProfilePath("lpar1"))
	require.NoError(t, err)
	assert.False(t, exists, "nothing is written in cleartext")

	_, err = svc.Save(ctx, dto.SaveProfileRequest{Name: "plain", Profile: entities.Profile{"host": "h"}})
	assert.NoError(t, err, "profiles without secure values need no credential manager")
}

func TestSave_UninitializedCredentialManager(t *testing.T) {
	t.Parallel()
	f := newFixture(t)
	mgr := newFlakyManager()
	mgr.initialized = false
	f.opts.CredentialManager = mgr
	svc := f.service(t, "zosmf")

	_, err := svc.Save(context.Background(), dto.SaveProfileRequest{Name: "lpar1", Profile: lpar1()})
	var credErr *apperrors.CredentialManagerError
	assert.True(t, errors.As(err, &credErr))
}

func TestSave_DefaultProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service(t, "zosmf")

	def, err := svc.GetDefaultProfileName(ctx)
	require.NoError(t, err)
	assert.Empty(t, def)

	_, err = svc.Save(ctx, dto.SaveProfileRequest{Name: "first", Profile: entities.Profile{"host": "a"}})
	require.NoError(t, err)
	_, err = svc.Save(ctx, dto.SaveProfileRequest{Name: "second", Profile: entities.Profile{"host": "b"}})
	require.NoError(t, err)

	def, err = svc.GetDefaultProfileName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "first", def, "the first profile saved becomes the default")

	_, err = svc.Save(ctx, dto.SaveProfileRequest{Name: "third", Profile: entities.Profile{"host": "c"}, UpdateDefault: true})
	require.NoError(t, err)
	def, err = svc.GetDefaultProfileName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "third", def)

	loaded, err := svc.Load(ctx, dto.LoadProfileRequest{LoadDefault: true})
	require.NoError(t, err)
	assert.Equal(t, "third", loaded.Name)

	msg, err := svc.SetDefault(ctx, "second")
	require.NoError(t, err)
	assert.Contains(t, msg, `"second"`)

	_, err = svc.SetDefault(ctx, "missing")
	var notFound *apperrors.NotFoundError
	assert.True(t, errors.As(err, &notFound))

	_, err = svc.ClearDefault(ctx)
	require.NoError(t, err)
	def, err = svc.GetDefaultProfileName(ctx)
	require.NoError(t, err)
	assert.Empty(t, def)

	names, err := svc.GetAllProfileNames(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"first", "second", "third"}, names)
}

func TestLoad_NotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newFixture(t).service(t, "zosmf")

	_, err := svc.Load(ctx, dto.LoadProfileRequest{Name: "ghost"})
	var notFound *apperrors.NotFoundError
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, "ghost", notFound.Name)

	loaded, err := svc.Load(ctx, dto.LoadProfileRequest{Name: "ghost", IgnoreNotFound: true})
	require.NoError(t, err)
	assert.False(t, loaded.FailNotFound)
	assert.False(t, loaded.Found())
	assert.Equal(t, entities.NotFoundMessage("zosmf", "ghost"), loaded.Message)

	_, err = svc.Load(ctx, dto.LoadProfileRequest{LoadDefault: true})
	require.True(t, errors.As(err, &notFound))
	assert.Equal(t, `No default profile set for type "zosmf".`, err.Error())

	loaded, err = svc.Load(ctx, dto.LoadProfileRequest{LoadDefault: true, IgnoreNotFound: true})
	require.NoError(t, err)
	assert.False(t, loaded.Found())
}

func TestLoad_MissingSecureValueRemovesField(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service(t, "zosmf")

	_, err := svc.Save(ctx, dto.SaveProfileRequest{Name: "lpar1", Profile: lpar1()})
	require.NoError(t, err)
	require.NoError(t, f.creds.Delete(ctx, "zosmf_lpar1_auth.password"))

	loaded, err := svc.Load(ctx, dto.LoadProfileRequest{Name: "lpar1"})
	require.NoError(t, err)
	_, present := loaded.Profile["auth"].(map[string]any)["password"]
	assert.False(t, present)
	assert.Equal(t, "ibmuser", loaded.Profile["auth"].(map[string]any)["user"])
}

func TestLoad_UninitializedManagerLeavesSentinels(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.service(t, "zosmf").Save(ctx, dto.SaveProfileRequest{Name: "lpar1", Profile: lpar1()})
	require.NoError(t, err)

	mgr := newFlakyManager()
	mgr.initialized = false
	f.opts.CredentialManager = mgr
	loaded, err := f.service(t, "zosmf").Load(ctx, dto.LoadProfileRequest{Name: "lpar1"})
	require.NoError(t, err)
	assert.Equal(t, "managed by test store", loaded.Profile["keys"])
}

func TestLoad_WithoutCredentialManagerLeavesSentinels(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	_, err := f.service(t, "zosmf").Save(ctx, dto.SaveProfileRequest{Name: "lpar1", Profile: lpar1()})
	require.NoError(t, err)

	f.opts.CredentialManager = nil
	loaded, err := f.service(t, "zosmf").Load(ctx, dto.LoadProfileRequest{Name: "lpar1"})
	require.NoError(t, err, "a secure box holding a placeholder is not a schema violation")
	assert.Equal(t, "managed by test store", loaded.Profile["keys"])
	assert.Equal(t, "managed by test store", loaded.Profile["auth"].(map[string]any)["password"])
}

func TestLoad_UnsupportedMetaFormat(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	svc := f.service(t, "zosmf")

	require.NoError(t, f.io.WriteMetaFile(
		&entities.MetaProfile{FormatVersion: "2.0.0", DefaultProfile: "x"},
		filepath.Join(testRoot, "zosmf", "zosmf_meta.yaml"),
	))

	_, err := svc.GetDefaultProfileName(ctx)
	var cfgErr *apperrors.ConfigurationError
	assert.True(t, errors.As(err, &cfgErr))
}

func TestValidate_AggregatesViolations(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newFixture(t).service(t, "zosmf")

	_, err := svc.Validate(ctx, dto.ValidateProfileRequest{
		Name:    "zosmf_meta",
		Profile: entities.Profile{"type": "tso", "port": "not a number"},
	})
	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr))

	msg := err.Error()
	assert.Contains(t, msg, `Errors located in profile "zosmf_meta" of type "zosmf"`)
	assert.Contains(t, msg, `profile type "tso" does not match`)
	assert.Contains(t, msg, `profile name "zosmf_meta" is reserved`)
	assert.Contains(t, msg, "host")
	assert.Contains(t, msg, "/port")
}

func TestValidate_EmptyAndStrict(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	svc := newFixture(t).service(t, "base")

	_, err := svc.Validate(ctx, dto.ValidateProfileRequest{Name: "b", Profile: entities.Profile{}})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "profile has no contents")

	doc := entities.Profile{"host": "h", "colour": "red"}
	resp, err := svc.Validate(ctx, dto.ValidateProfileRequest{Name: "b", Profile: doc})
	require.NoError(t, err)
	assert.Contains(t, resp.Message, "is valid")

	_, err = svc.Validate(ctx, dto.ValidateProfileRequest{Name: "b", Profile: doc, Strict: true})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "colour")
}

func TestMergeProfiles_DoesNotMutate(t *testing.T) {
	t.Parallel()
	svc := newFixture(t).service(t, "zosmf")

	old := entities.Profile{"host": "a", "auth": map[string]any{"user": "u"}}
	incoming := entities.Profile{"auth": map[string]any{"password": "p"}}
	merged := svc.MergeProfiles(old, incoming)

	assert.Equal(t, map[string]any{"user": "u", "password": "p"}, merged["auth"])
	assert.Equal(t, map[string]any{"user": "u"}, old["auth"])
}

func TestInitializeProfileEnvironment(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	io := memory.NewProfileIO()
	configs := testConfigurations()

	responses, err := InitializeProfileEnvironment(ctx, io, testRoot, configs, false, nil)
	require.NoError(t, err)
	require.Len(t, responses, 3)
	assert.Contains(t, responses[0].Message, "initialized")

	metaPath := filepath.Join(testRoot, "zosmf", "zosmf_meta.yaml")
	meta, err := io.ReadMetaFile(metaPath)
	require.NoError(t, err)
	assert.Equal(t, MetaFormatVersion, meta.FormatVersion)
	require.NotNil(t, meta.Configuration)
	assert.Equal(t, "zosmf", meta.Configuration.Type)

	svc, err := NewProfileService(ProfileServiceOptions{
		Type:               "zosmf",
		ProfileRootDir:     testRoot,
		TypeConfigurations: configs,
		ProfileIO:          io,
		SchemaValidator:    validation.NewSchemaValidator(),
	})
	require.NoError(t, err)
	_, err = svc.Save(ctx, dto.SaveProfileRequest{Name: "lpar1", Profile: entities.Profile{"host": "h"}})
	require.NoError(t, err)

	responses, err = InitializeProfileEnvironment(ctx, io, testRoot, configs, false, nil)
	require.NoError(t, err)
	assert.Contains(t, responses[1].Message, "already initialized")

	_, err = InitializeProfileEnvironment(ctx, io, testRoot, configs, true, nil)
	require.NoError(t, err)
	def, err := svc.GetDefaultProfileName(ctx)
	require.NoError(t, err)
	assert.Equal(t, "lpar1", def, "reinitializing keeps the default pointer")

	dirs, err := io.GetAllProfileDirectories(testRoot)
	require.NoError(t, err)
	assert.Equal(t, []string{"base", "tso", "zosmf"}, dirs)
}

func TestSaveAndMerge_RequiredProperties(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	f.opts.TypeConfigurations = entities.TypeConfigurations{{
		Type: "banana",
		Schema: &entities.ProfileSchema{
			Type:     "object",
			Required: []string{"age"},
			Properties: map[string]*entities.ProfileProperty{
				"age":         {Type: "number"},
				"rotten":      {Type: "boolean"},
				"description": {Type: "string"},
			},
		},
	}}
	svc := f.service(t, "banana")

	_, err := svc.Save(ctx, dto.SaveProfileRequest{Name: "old", Profile: entities.Profile{"rotten": true}})
	var vErr *apperrors.ValidationError
	require.True(t, errors.As(err, &vErr), "got %v", err)
	assert.Contains(t, err.Error(), "age")

	_, err = svc.Save(ctx, dto.SaveProfileRequest{Name: "old", Profile: entities.Profile{"age": 1, "rotten": true}})
	require.NoError(t, err)

	_, err = svc.Update(ctx, dto.UpdateProfileRequest{
		Name:    "old",
		Profile: entities.Profile{"description": "d"},
		Merge:   true,
	})
	require.NoError(t, err)

	loaded, err := svc.Load(ctx, dto.LoadProfileRequest{Name: "old"})
	require.NoError(t, err)
	assert.EqualValues(t, 1, loaded.Profile["age"])
	assert.Equal(t, true, loaded.Profile["rotten"])
	assert.Equal(t, "d", loaded.Profile["description"])
}
