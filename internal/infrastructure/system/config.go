// Package system provides infrastructure for system-level configuration.
// This is the settings file (~/.imperative/settings.yaml) that locates the
// profile root and selects the credential manager.
package system

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// DefaultDirName is the settings directory under the user's home.
const DefaultDirName = ".imperative"

// Config represents the global settings file (~/.imperative/settings.yaml).
// This is infrastructure-level configuration separate from profile documents.
type Config struct {
	Profiles      ProfilesConfig      `yaml:"profiles"`
	Credentials   CredentialsConfig   `yaml:"credentials"`
	SensitiveData SensitiveDataConfig `yaml:"sensitive_data"`
	Redaction     RedactionConfig     `yaml:"redaction"`
}

// ProfilesConfig locates profiles and controls bulk loading.
type ProfilesConfig struct {
	// RootDir holds one directory per profile type.
	RootDir string `yaml:"root_dir"`
	// TypesFile is an optional JSON/JSONC/YAML file of profile type configurations.
	TypesFile string `yaml:"types_file"`
	// LoadAllPolicy is "fail-fast" (default) or "partial".
	LoadAllPolicy string `yaml:"load_all_policy"`
	// Product is named in validation reports.
	Product string `yaml:"product"`
}

// CredentialsConfig selects the credential manager.
type CredentialsConfig struct {
	// Kind is "vault" (default), "memory" or "none".
	Kind string `yaml:"kind"`
	// Name is shown in secure value sentinels.
	Name string `yaml:"name"`
	// VaultPath is the encrypted vault file.
	VaultPath string `yaml:"vault_path"`
	// IdentitySecret names the secret holding the vault identity.
	IdentitySecret string `yaml:"identity_secret"`
}

// SensitiveDataConfig configures secret resolution and protection.
type SensitiveDataConfig struct {
	Secrets SecretsConfig `yaml:"secrets"`
}

// SecretsConfig configures secret resolution sources.
type SecretsConfig struct {
	// Local defines static secrets for development (name -> value)
	Local map[string]string `yaml:"local"`

	// Env defines environment variable mappings (secret_name -> env_var_name)
	Env map[string]string `yaml:"env"`

	// Files defines file path mappings (secret_name -> file_path)
	Files map[string]string `yaml:"files"`
}

// RedactionConfig configures how profile contents are censored in output.
type RedactionConfig struct {
	HashMode        HashModeConfig `yaml:"hash_mode"`
	Patterns        []string       `yaml:"patterns"`
	Paths           []string       `yaml:"paths"`
	DisableGitleaks bool           `yaml:"disable_gitleaks"`
}

// HashModeConfig controls hash-based redaction.
type HashModeConfig struct {
	Salt    string `yaml:"salt"`
	Enabled bool   `yaml:"enabled"`
}

// ConfigLoader loads system configuration from disk.
type ConfigLoader struct{}

// NewConfigLoader creates a new system config loader.
func NewConfigLoader() *ConfigLoader {
	return &ConfigLoader{}
}

// DefaultHome returns ~/.imperative, or a relative directory when the home
// directory cannot be determined.
func DefaultHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return DefaultDirName
	}
	return filepath.Join(home, DefaultDirName)
}

// DefaultConfigPath returns ~/.imperative/settings.yaml.
func DefaultConfigPath() string {
	return filepath.Join(DefaultHome(), "settings.yaml")
}

// DefaultConfig returns a Config with safe defaults for all fields.
// This is used when no settings file exists.
func DefaultConfig() *Config {
	home := DefaultHome()
	return &Config{
		Profiles: ProfilesConfig{
			RootDir:       filepath.Join(home, "profiles"),
			LoadAllPolicy: "fail-fast",
			Product:       "imperative",
		},
		Credentials: CredentialsConfig{
			Kind:           "vault",
			Name:           "imperative vault",
			VaultPath:      filepath.Join(home, "credentials.age"),
			IdentitySecret: "vault_identity",
		},
		SensitiveData: SensitiveDataConfig{
			Secrets: SecretsConfig{
				Local: make(map[string]string),
				Env:   map[string]string{"vault_identity": "IMPERATIVE_VAULT_IDENTITY"},
				Files: map[string]string{"vault_identity": filepath.Join(home, "vault.key")},
			},
		},
		Redaction: RedactionConfig{
			Patterns: []string{},
			Paths:    []string{"password", "token", "passphrase"},
		},
	}
}

// Load loads the system configuration from the specified path.
// If the file does not exist, returns DefaultConfig(). Fields absent from the
// file keep their defaults.
func (l *ConfigLoader) Load(path string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return config, nil
	}

	//nolint:gosec // G304: path is user-provided config file, validated to exist above
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read system config: %w", err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse system config: %w", err)
	}

	config.Profiles.RootDir = expandHome(config.Profiles.RootDir)
	config.Profiles.TypesFile = expandHome(config.Profiles.TypesFile)
	config.Credentials.VaultPath = expandHome(config.Credentials.VaultPath)
	return config, nil
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
