package filesystem

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/zowe/imperative-go/internal/application/errors"
	"github.com/zowe/imperative-go/internal/domain/entities"
)

func TestProfileIO_WriteReadRoundTrip(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	io := NewProfileIO()
	path := filepath.Join(root, "zosmf", "lpar1"+Extension)

	profile := entities.Profile{
		"name": "lpar1",
		"type": "zosmf",
		"host": "example.com",
		"port": 443,
		"auth": map[string]any{"user": "ibmuser"},
		"dependencies": []any{
			map[string]any{"type": "base", "name": "b"},
		},
	}
	require.NoError(t, io.WriteProfile(path, profile))

	exists, err := io.Exists(path)
	require.NoError(t, err)
	assert.True(t, exists)

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	loaded, err := io.ReadProfileFile(path, "zosmf")
	require.NoError(t, err)
	assert.Equal(t, "lpar1", loaded.Name())
	assert.Equal(t, "example.com", loaded["host"])
	assert.EqualValues(t, 443, loaded["port"])

	user, ok := loaded.Lookup("auth.user")
	require.True(t, ok)
	assert.Equal(t, "ibmuser", user)

	deps, err := loaded.Dependencies()
	require.NoError(t, err)
	assert.Equal(t, []entities.DependencyRef{{Type: "base", Name: "b"}}, deps)
}

func TestProfileIO_ReadMissing(t *testing.T) {
	t.Parallel()
	io := NewProfileIO()

	_, err := io.ReadProfileFile(filepath.Join(t.TempDir(), "nope.yaml"), "zosmf")
	var ioErr *apperrors.ProfileIOError
	require.True(t, errors.As(err, &ioErr))
	assert.Equal(t, "read", ioErr.Op)

	exists, err := io.Exists(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestProfileIO_ReadInvalidYAML(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "bad.yaml")
	require.NoError(t, os.WriteFile(path, []byte("invalid: [yaml"), 0o600))

	_, err := NewProfileIO().ReadProfileFile(path, "zosmf")
	assert.Error(t, err)
}

func TestProfileIO_MetaRoundTrip(t *testing.T) {
	t.Parallel()
	io := NewProfileIO()
	path := filepath.Join(t.TempDir(), "zosmf", "zosmf_meta"+Extension)

	meta := &entities.MetaProfile{
		FormatVersion:  "1.0.0",
		DefaultProfile: "lpar1",
		Configuration: &entities.ProfileTypeConfiguration{
			Type: "zosmf",
			Schema: &entities.ProfileSchema{
				Type: "object",
				Properties: map[string]*entities.ProfileProperty{
					"host": {Type: "string", OptionDefinition: &entities.OptionDefinition{Name: "host", Type: "string"}},
				},
			},
		},
	}
	require.NoError(t, io.WriteMetaFile(meta, path))

	read, err := io.ReadMetaFile(path)
	require.NoError(t, err)
	assert.Equal(t, "lpar1", read.DefaultProfile)
	require.NotNil(t, read.Configuration)
	assert.Equal(t, "zosmf", read.Configuration.Type)
	assert.Equal(t, "host", read.Configuration.Schema.Properties["host"].OptionDefinition.Name)
}

func TestProfileIO_Listing(t *testing.T) {
	t.Parallel()
	root := t.TempDir()
	io := NewProfileIO()

	for _, name := range []string{"b", "a", "zosmf_meta"} {
		require.NoError(t, io.WriteProfile(filepath.Join(root, "zosmf", name+Extension), entities.Profile{"name": name}))
	}
	require.NoError(t, os.WriteFile(filepath.Join(root, "zosmf", "notes.txt"), []byte("x"), 0o600))
	require.NoError(t, io.CreateProfileDirs(filepath.Join(root, "tso")))

	dirs, err := io.GetAllProfileDirectories(root)
	require.NoError(t, err)
	assert.Equal(t, []string{"tso", "zosmf"}, dirs)

	names, err := io.GetAllProfileNames(filepath.Join(root, "zosmf"), Extension, "zosmf_meta")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, names)

	names, err = io.GetAllProfileNames(filepath.Join(root, "missing"), Extension, "missing_meta")
	require.NoError(t, err)
	assert.Empty(t, names)
}

func TestProfileIO_Delete(t *testing.T) {
	t.Parallel()
	io := NewProfileIO()
	path := filepath.Join(t.TempDir(), "zosmf", "a"+Extension)
	require.NoError(t, io.WriteProfile(path, entities.Profile{"name": "a"}))

	require.NoError(t, io.DeleteProfile("a", path))
	exists, err := io.Exists(path)
	require.NoError(t, err)
	assert.False(t, exists)

	err = io.DeleteProfile("a", path)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "delete"))
}
