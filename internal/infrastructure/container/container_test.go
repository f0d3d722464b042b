package container

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeSettings(t *testing.T, dir, body string) string {
	t.Helper()
	path := filepath.Join(dir, "settings.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestNew_BuiltinTypes(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	settings := writeSettings(t, dir, `
profiles:
  root_dir: `+filepath.Join(dir, "profiles")+`
  product: Imperative
credentials:
  kind: memory
  name: test store
`)

	c, err := New(Options{SystemConfigPath: settings})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, []string{"base", "zosmf", "tso", "ssh"}, c.TypeConfigurations().Types())
	assert.Equal(t, "base", c.Profiles().Type())
	assert.Equal(t, "test store", c.Profiles().CredentialManagerName())
	assert.NotNil(t, c.CLIProfiles())
	assert.NotNil(t, c.CheckProfileUseCase())
	assert.Contains(t, c.PlanRegistry().Modules(), "zosmf-plan")

	zosmf, err := c.Profiles().ForType("zosmf")
	require.NoError(t, err)
	opts := c.OutputOptions(zosmf, "json", false)
	assert.ElementsMatch(t, []string{"user", "password"}, opts.SecurePaths)
	assert.Equal(t, "Imperative", opts.Product)
	assert.True(t, opts.Indent)
	assert.Same(t, c.Redactor(), opts.Censor)
}

func TestNew_Overrides(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()
	types := filepath.Join(dir, "types.jsonc")
	require.NoError(t, os.WriteFile(types, []byte(`{
  // one type
  "profileTypes": [
    {"type": "db2", "schema": {"type": "object", "properties": {"host": {"type": "string"}}}}
  ]
}`), 0o600))

	c, err := New(Options{
		SystemConfigPath: filepath.Join(dir, "missing.yaml"),
		TypesFile:        types,
		ProfileRootDir:   filepath.Join(dir, "profiles"),
		CredentialKind:   "none",
	})
	require.NoError(t, err)
	defer c.Close()

	assert.Equal(t, []string{"db2"}, c.TypeConfigurations().Types())
	assert.Equal(t, "", c.Profiles().CredentialManagerName())
	assert.Equal(t, filepath.Join(dir, "profiles"), c.SystemConfig().Profiles.RootDir)
}

func TestNew_Errors(t *testing.T) {
	t.Parallel()
	dir := t.TempDir()

	_, err := New(Options{
		SystemConfigPath: filepath.Join(dir, "missing.yaml"),
		TypesFile:        filepath.Join(dir, "missing.yaml"),
		ProfileRootDir:   dir,
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load profile types")

	_, err = New(Options{
		SystemConfigPath: filepath.Join(dir, "missing.yaml"),
		ProfileRootDir:   dir,
		CredentialKind:   "keychain",
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), `unknown credential manager kind "keychain"`)
}
