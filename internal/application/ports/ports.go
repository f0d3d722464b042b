// Package ports defines interfaces for infrastructure dependencies.
// These are the "ports" in hexagonal architecture - abstractions that
// the application layer depends on but doesn't implement.
package ports

import (
	"context"

	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/validation"
)

// ProfileIO persists profile documents and per-type meta files.
//
// Paths are full file paths; the adapter owns the encoding. Every error
// returned is an *apperrors.ProfileIOError.
type ProfileIO interface {
	// FileExtension returns the extension (with dot) of profile files.
	FileExtension() string

	// Exists reports whether a profile or meta file exists at path.
	Exists(path string) (bool, error)

	// WriteProfile writes a profile document, replacing any existing file.
	WriteProfile(path string, profile entities.Profile) error

	// ReadProfileFile reads a profile document.
	ReadProfileFile(path, profileType string) (entities.Profile, error)

	// DeleteProfile removes a profile file.
	DeleteProfile(name, path string) error

	// WriteMetaFile writes the meta file of a type.
	WriteMetaFile(meta *entities.MetaProfile, path string) error

	// ReadMetaFile reads the meta file of a type.
	ReadMetaFile(path string) (*entities.MetaProfile, error)

	// GetAllProfileDirectories lists the type directories under root.
	GetAllProfileDirectories(root string) ([]string, error)

	// GetAllProfileNames lists the profile names in dir, excluding the meta file.
	GetAllProfileNames(dir, ext, metaName string) ([]string, error)

	// CreateProfileDirs creates the directory tree for path.
	CreateProfileDirs(path string) error
}

// CredentialManager stores secure profile fields outside the profile files.
//
// A manager may be configured but not usable (for example, its vault key is
// unavailable); Initialized reports that. Keys are built with
// values.NewCredentialKey.
type CredentialManager interface {
	// Name identifies the manager; it appears in the on-disk sentinel.
	Name() string

	// Initialized reports whether the manager can serve requests.
	Initialized() bool

	// Save stores a value under key, replacing any existing value.
	Save(ctx context.Context, key, value string) error

	// Load returns the value under key. When optional is true a missing key
	// returns "" and a nil error.
	Load(ctx context.Context, key string, optional bool) (string, error)

	// Delete removes the value under key.
	Delete(ctx context.Context, key string) error
}

// SchemaValidator checks a profile document against its type schema and
// returns one description per violation.
type SchemaValidator interface {
	Validate(schema *entities.ProfileSchema, profile entities.Profile, strict bool, sentinel string) ([]string, error)
}

// ValueProvider supplies values for secure command options given as a
// prompt marker, typically by asking the user.
type ValueProvider interface {
	// IsInteractive reports whether the provider can ask the user.
	IsInteractive() bool

	// PromptSecret asks for a value without echoing it.
	PromptSecret(ctx context.Context, title string) (string, error)
}

// PlanProvider resolves the validationPlanModule of a profile type to a
// validation plan.
type PlanProvider interface {
	Plan(ctx context.Context, module string) (*validation.Plan, error)
}
