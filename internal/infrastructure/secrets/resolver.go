// Package secrets resolves named secrets, such as the credential vault
// identity, from local settings, environment variables and files.
package secrets

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/zowe/imperative-go/internal/application/ports"
	"github.com/zowe/imperative-go/internal/infrastructure/system"
)

// ErrSecretNotFound is returned when no source defines the secret.
var ErrSecretNotFound = errors.New("secret not found")

// source looks up a secret. ok is false when the source does not define it.
type source func(name string) (value string, ok bool, err error)

// Resolver implements ports.SecretResolver.
// Every resolved value is tracked by the sensitive value provider so it can
// be scrubbed from errors and output.
type Resolver struct {
	sources  []source
	provider ports.SensitiveValueProvider
	cache    map[string]string
	mu       sync.Mutex
}

var _ ports.SecretResolver = (*Resolver)(nil)

// NewResolver creates a resolver consulting local values, then environment
// variables, then files.
func NewResolver(config *system.SecretsConfig, provider ports.SensitiveValueProvider) *Resolver {
	r := &Resolver{provider: provider, cache: make(map[string]string)}
	if config != nil {
		r.sources = []source{
			localSource(config.Local),
			envSource(config.Env),
			fileSource(config.Files),
		}
	}
	return r
}

// Resolve returns the secret value by name.
func (r *Resolver) Resolve(name string) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if value, ok := r.cache[name]; ok {
		return value, nil
	}
	if len(r.sources) == 0 {
		return "", fmt.Errorf("secret %q: no secret sources configured", name)
	}

	for _, lookup := range r.sources {
		value, ok, err := lookup(name)
		if err != nil {
			return "", fmt.Errorf("secret %q: %w", name, err)
		}
		if !ok {
			continue
		}
		r.cache[name] = value
		if r.provider != nil {
			r.provider.Track(value)
		}
		return value, nil
	}
	return "", fmt.Errorf("%w: %q is not defined in local, env, or files", ErrSecretNotFound, name)
}

func localSource(values map[string]string) source {
	return func(name string) (string, bool, error) {
		value, ok := values[name]
		return value, ok, nil
	}
}

func envSource(mapping map[string]string) source {
	return func(name string) (string, bool, error) {
		envVar, ok := mapping[name]
		if !ok {
			return "", false, nil
		}
		value, set := os.LookupEnv(envVar)
		if !set || value == "" {
			// Fall through so a file mapping for the same secret can apply.
			return "", false, nil
		}
		return value, true, nil
	}
}

func fileSource(mapping map[string]string) source {
	return func(name string) (string, bool, error) {
		filePath, ok := mapping[name]
		if !ok {
			return "", false, nil
		}

		// os.OpenRoot keeps the read inside the configured directory.
		root, err := os.OpenRoot(filepath.Dir(filePath))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", false, nil
			}
			return "", false, fmt.Errorf("opening directory of %q: %w", filePath, err)
		}
		defer func() { _ = root.Close() }()

		f, err := root.Open(filepath.Base(filePath))
		if err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return "", false, nil
			}
			return "", false, fmt.Errorf("opening %q: %w", filePath, err)
		}
		defer func() { _ = f.Close() }()

		data, err := io.ReadAll(f)
		if err != nil {
			return "", false, fmt.Errorf("reading %q: %w", filePath, err)
		}
		return strings.TrimSpace(string(data)), true, nil
	}
}
