// Package services contains application use cases.
package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"

	apperrors "github.com/zowe/imperative-go/internal/application/errors"
	"github.com/zowe/imperative-go/internal/application/ports"
	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/services"
	"github.com/zowe/imperative-go/internal/domain/values"
)

// MetaFormatVersion is written to every meta file.
const MetaFormatVersion = "1.0.0"

// metaFormatConstraint accepts meta files this version can read.
var metaFormatConstraint = mustConstraint("^1.0.0")

func mustConstraint(c string) *semver.Constraints {
	constraint, err := semver.NewConstraint(c)
	if err != nil {
		panic(err)
	}
	return constraint
}

// LoadAllPolicy decides how LoadAll reacts to a profile that fails to load.
type LoadAllPolicy int

const (
	// LoadAllFailFast aborts on the first failure.
	LoadAllFailFast LoadAllPolicy = iota
	// LoadAllPartial logs and omits failed profiles.
	LoadAllPartial
)

// ParseLoadAllPolicy converts a configuration string to a policy.
func ParseLoadAllPolicy(s string) (LoadAllPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "fail-fast", "failfast":
		return LoadAllFailFast, nil
	case "partial":
		return LoadAllPartial, nil
	default:
		return LoadAllFailFast, fmt.Errorf("unknown load-all policy %q (want fail-fast or partial)", s)
	}
}

// ProfileServiceOptions configures a ProfileService.
type ProfileServiceOptions struct {
	// Type is the profile type the service manages.
	Type string
	// ProfileRootDir holds one directory per profile type.
	ProfileRootDir string
	// TypeConfigurations is the complete set of known types.
	TypeConfigurations entities.TypeConfigurations

	ProfileIO       ports.ProfileIO
	SchemaValidator ports.SchemaValidator
	// CredentialManager is optional. Without it secure fields cannot be saved.
	CredentialManager ports.CredentialManager
	// SensitiveValues is optional; loaded secure values are tracked in it.
	SensitiveValues ports.SensitiveValueProvider

	LoadAllPolicy LoadAllPolicy
	Logger        *slog.Logger
}

// ProfileService manages the profiles of one type: save, load, update,
// delete, validate, and the default profile pointer. Dependencies of other
// types are handled through services scoped to those types (see ForType).
type ProfileService struct {
	opts       ProfileServiceOptions
	typeConfig *entities.ProfileTypeConfiguration
	merger     *services.ProfileMerger
	resolver   *services.DependencyResolver
	secure     *services.SecureFieldWalker
	logger     *slog.Logger
}

// NewProfileService creates a profile service after checking the type
// configurations.
func NewProfileService(opts ProfileServiceOptions) (*ProfileService, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if strings.TrimSpace(opts.ProfileRootDir) == "" {
		return nil, apperrors.NewConfigurationError("profiles", "profile root directory is required", nil)
	}
	if opts.ProfileIO == nil {
		return nil, apperrors.NewConfigurationError("profiles", "a profile I/O adapter is required", nil)
	}
	if opts.SchemaValidator == nil {
		return nil, apperrors.NewConfigurationError("profiles", "a schema validator is required", nil)
	}
	if err := opts.TypeConfigurations.Validate(); err != nil {
		return nil, apperrors.NewConfigurationError("profiles", "invalid profile type configurations", err)
	}

	svc, err := newScopedService(opts)
	if err != nil {
		return nil, err
	}

	for _, cycle := range svc.resolver.TypeCycles(opts.TypeConfigurations) {
		svc.logger.Debug("profile types form a dependency cycle", "types", strings.Join(cycle, " -> "))
	}
	return svc, nil
}

func newScopedService(opts ProfileServiceOptions) (*ProfileService, error) {
	cfg, ok := opts.TypeConfigurations.Find(opts.Type)
	if !ok {
		return nil, apperrors.NewConfigurationError("profiles",
			fmt.Sprintf("profile type %q is not configured", opts.Type), nil)
	}
	return &ProfileService{
		opts:       opts,
		typeConfig: cfg,
		merger:     services.NewProfileMerger(),
		resolver:   services.NewDependencyResolver(),
		secure:     services.NewSecureFieldWalker(),
		logger:     opts.Logger.With("profile_type", opts.Type),
	}, nil
}

// ForType returns a service for another configured type sharing this
// service's adapters.
func (s *ProfileService) ForType(profileType string) (*ProfileService, error) {
	if profileType == s.opts.Type {
		return s, nil
	}
	opts := s.opts
	opts.Type = profileType
	return newScopedService(opts)
}

// Type returns the managed profile type.
func (s *ProfileService) Type() string {
	return s.opts.Type
}

// TypeConfiguration returns the configuration of the managed type.
func (s *ProfileService) TypeConfiguration() *entities.ProfileTypeConfiguration {
	return s.typeConfig
}

// Configurations returns all known type configurations.
func (s *ProfileService) Configurations() entities.TypeConfigurations {
	out := make(entities.TypeConfigurations, len(s.opts.TypeConfigurations))
	copy(out, s.opts.TypeConfigurations)
	return out
}

// MergeProfiles merges incoming onto existing. See services.ProfileMerger.
func (s *ProfileService) MergeProfiles(existing, incoming entities.Profile) entities.Profile {
	return s.merger.Merge(existing, incoming)
}

// SecurePaths lists the secure fields of the managed type.
func (s *ProfileService) SecurePaths() []services.SecurePath {
	return s.secure.SecurePaths(s.typeConfig.Schema)
}

// CredentialManagerName returns the configured manager's name or "".
func (s *ProfileService) CredentialManagerName() string {
	if s.opts.CredentialManager == nil {
		return ""
	}
	return s.opts.CredentialManager.Name()
}

// ===== PATHS =====

func (s *ProfileService) typeDir() string {
	return filepath.Join(s.opts.ProfileRootDir, s.opts.Type)
}

func (s *ProfileService) metaName() string {
	return entities.MetaProfileName(s.opts.Type)
}

// ProfilePath returns the file path of the named profile.
func (s *ProfileService) ProfilePath(name string) string {
	return filepath.Join(s.typeDir(), name+s.opts.ProfileIO.FileExtension())
}

func (s *ProfileService) metaPath() string {
	return filepath.Join(s.typeDir(), s.metaName()+s.opts.ProfileIO.FileExtension())
}

// ===== META / DEFAULT PROFILE =====

// readMeta returns the meta file or nil when the type has none yet.
func (s *ProfileService) readMeta() (*entities.MetaProfile, error) {
	path := s.metaPath()
	exists, err := s.opts.ProfileIO.Exists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, nil
	}
	meta, err := s.opts.ProfileIO.ReadMetaFile(path)
	if err != nil {
		return nil, err
	}
	if err := checkMetaFormat(meta); err != nil {
		return nil, err
	}
	return meta, nil
}

func checkMetaFormat(meta *entities.MetaProfile) error {
	if meta == nil || meta.FormatVersion == "" {
		return nil
	}
	v, err := semver.NewVersion(meta.FormatVersion)
	if err != nil {
		return apperrors.NewConfigurationError("meta", "invalid meta file format version", err)
	}
	if !metaFormatConstraint.Check(v) {
		return apperrors.NewConfigurationError("meta",
			fmt.Sprintf("meta file format %s is not supported (want %s)", v, metaFormatConstraint), nil)
	}
	return nil
}

func (s *ProfileService) writeMeta(meta *entities.MetaProfile) error {
	if err := s.opts.ProfileIO.CreateProfileDirs(s.typeDir()); err != nil {
		return err
	}
	out := *meta
	out.FormatVersion = MetaFormatVersion
	if out.Configuration == nil {
		cfg := *s.typeConfig
		out.Configuration = &cfg
	}
	return s.opts.ProfileIO.WriteMetaFile(&out, s.metaPath())
}

// GetDefaultProfileName returns the default profile of the type, or "" when
// none is set.
func (s *ProfileService) GetDefaultProfileName(_ context.Context) (string, error) {
	meta, err := s.readMeta()
	if err != nil {
		return "", err
	}
	if meta == nil {
		return "", nil
	}
	return meta.DefaultProfile, nil
}

// SetDefault makes an existing profile the default for the type.
func (s *ProfileService) SetDefault(_ context.Context, name string) (string, error) {
	exists, err := s.opts.ProfileIO.Exists(s.ProfilePath(name))
	if err != nil {
		return "", err
	}
	if !exists {
		return "", apperrors.NewNotFoundError(s.opts.Type, name)
	}
	if err := s.setDefaultPointer(name); err != nil {
		return "", err
	}
	s.logger.Debug("default profile set", "name", name)
	return fmt.Sprintf("Default profile for type %q set to %q.", s.opts.Type, name), nil
}

// ClearDefault removes the default profile pointer of the type.
func (s *ProfileService) ClearDefault(_ context.Context) (string, error) {
	if err := s.setDefaultPointer(""); err != nil {
		return "", err
	}
	return fmt.Sprintf("Default profile for type %q cleared.", s.opts.Type), nil
}

func (s *ProfileService) setDefaultPointer(name string) error {
	meta, err := s.readMeta()
	if err != nil {
		return err
	}
	if meta == nil {
		meta = &entities.MetaProfile{}
	}
	meta.DefaultProfile = name
	return s.writeMeta(meta)
}

// GetAllProfileNames lists the stored profiles of the type.
func (s *ProfileService) GetAllProfileNames(_ context.Context) ([]string, error) {
	return s.opts.ProfileIO.GetAllProfileNames(s.typeDir(), s.opts.ProfileIO.FileExtension(), s.metaName())
}

// ===== CREDENTIALS =====

func (s *ProfileService) credentialsReady() bool {
	return s.opts.CredentialManager != nil && s.opts.CredentialManager.Initialized()
}

// sentinel returns the on-disk placeholder for secure values, or "" when no
// credential manager is configured.
func (s *ProfileService) sentinel() string {
	if s.opts.CredentialManager == nil {
		return ""
	}
	return values.SecureValueSentinel(s.opts.CredentialManager.Name())
}

// documentSentinel returns the placeholder a document may hold for its secure
// fields. Without a credential manager, a placeholder written under an
// earlier configuration is accepted as found.
func (s *ProfileService) documentSentinel(profile entities.Profile) string {
	if sentinel := s.sentinel(); sentinel != "" {
		return sentinel
	}
	for _, sp := range s.secure.SecurePaths(s.typeConfig.Schema) {
		if v, ok := profile.Lookup(sp.Path); ok && values.LooksLikeSentinel(v) {
			return v.(string)
		}
	}
	return ""
}

// identify returns a copy of the document carrying the given name, and the
// managed type when the document has none. A conflicting type is kept so
// that validation reports it.
func (s *ProfileService) identify(profile entities.Profile, name string) entities.Profile {
	out := services.DeepCopyProfile(profile)
	if out == nil {
		out = entities.Profile{}
	}
	out[entities.KeyName] = name
	if _, ok := out[entities.KeyType]; !ok {
		out[entities.KeyType] = s.opts.Type
	}
	return out
}

func resolveName(name string, profile entities.Profile) string {
	if strings.TrimSpace(name) != "" {
		return name
	}
	return profile.Name()
}
