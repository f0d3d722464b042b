// Package credentials provides the credential managers that hold the values
// of secure profile fields.
package credentials

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/zowe/imperative-go/internal/application/ports"
)

// Manager kinds accepted by New.
const (
	KindVault  = "vault"
	KindMemory = "memory"
	KindNone   = "none"
)

// ErrNotInitialized is returned by managers that could not load their keys.
var ErrNotInitialized = errors.New("credential manager is not initialized")

// ErrEntryNotFound is returned when a required credential is missing.
var ErrEntryNotFound = errors.New("credential not found")

func missingEntryError(key string) error {
	return fmt.Errorf("%w: %q. Recreate the credentials in the vault for the affected profile", ErrEntryNotFound, key)
}

// Config selects and configures a credential manager.
type Config struct {
	Kind           string
	Name           string
	VaultPath      string
	IdentitySecret string
}

// New builds the credential manager described by cfg. Kind "none" returns
// nil: the profile service then rejects secure fields.
func New(cfg Config, secrets ports.SecretResolver, logger *slog.Logger) (ports.CredentialManager, error) {
	switch cfg.Kind {
	case "", KindVault:
		return NewVault(VaultOptions{
			Name:           cfg.Name,
			Path:           cfg.VaultPath,
			IdentitySecret: cfg.IdentitySecret,
			Secrets:        secrets,
			Logger:         logger,
		}), nil
	case KindMemory:
		return NewMemoryManager(cfg.Name), nil
	case KindNone:
		return nil, nil
	default:
		return nil, fmt.Errorf("unknown credential manager kind %q", cfg.Kind)
	}
}
