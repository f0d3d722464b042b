package system

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigLoader_Load_FileNotExists(t *testing.T) {
	loader := NewConfigLoader()
	cfg, err := loader.Load("/nonexistent/settings.yaml")

	require.NoError(t, err)
	require.NotNil(t, cfg)
	assert.Equal(t, "vault", cfg.Credentials.Kind)
	assert.Equal(t, "fail-fast", cfg.Profiles.LoadAllPolicy)
	assert.Equal(t, filepath.Join(DefaultHome(), "profiles"), cfg.Profiles.RootDir)
}

func TestConfigLoader_Load_ValidConfig(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "settings.yaml")

	yaml := `
profiles:
  root_dir: /srv/profiles
  load_all_policy: partial
credentials:
  kind: memory
  name: test store
redaction:
  patterns:
    - "password\\s*=\\s*\\S+"
  paths:
    - "auth.password"
  hash_mode:
    enabled: true
    salt: "test-salt"
sensitive_data:
  secrets:
    env:
      vault_identity: MY_IDENTITY
`
	require.NoError(t, os.WriteFile(configPath, []byte(yaml), 0o600))

	cfg, err := NewConfigLoader().Load(configPath)
	require.NoError(t, err)

	assert.Equal(t, "/srv/profiles", cfg.Profiles.RootDir)
	assert.Equal(t, "partial", cfg.Profiles.LoadAllPolicy)
	assert.Equal(t, "imperative", cfg.Profiles.Product, "unset fields keep defaults")
	assert.Equal(t, "memory", cfg.Credentials.Kind)
	assert.Equal(t, "test store", cfg.Credentials.Name)
	assert.Len(t, cfg.Redaction.Patterns, 1)
	assert.Equal(t, []string{"auth.password"}, cfg.Redaction.Paths)
	assert.True(t, cfg.Redaction.HashMode.Enabled)
	assert.Equal(t, "test-salt", cfg.Redaction.HashMode.Salt)
	assert.Equal(t, "MY_IDENTITY", cfg.SensitiveData.Secrets.Env["vault_identity"])
}

func TestConfigLoader_Load_ExpandsHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	configPath := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("credentials:\n  vault_path: ~/vault.age\n"), 0o600))

	cfg, err := NewConfigLoader().Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, "vault.age"), cfg.Credentials.VaultPath)
}

func TestConfigLoader_Load_InvalidYAML(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "settings.yaml")
	require.NoError(t, os.WriteFile(configPath, []byte("profiles: [unclosed"), 0o600))

	_, err := NewConfigLoader().Load(configPath)
	assert.Error(t, err)
}
