// Package container provides dependency injection for the application.
package container

import (
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/zowe/imperative-go/internal/application/ports"
	"github.com/zowe/imperative-go/internal/application/services"
	"github.com/zowe/imperative-go/internal/domain/entities"
	domainvalidation "github.com/zowe/imperative-go/internal/domain/validation"
	"github.com/zowe/imperative-go/internal/infrastructure/config"
	"github.com/zowe/imperative-go/internal/infrastructure/credentials"
	"github.com/zowe/imperative-go/internal/infrastructure/output"
	"github.com/zowe/imperative-go/internal/infrastructure/persistence/filesystem"
	"github.com/zowe/imperative-go/internal/infrastructure/prompt"
	"github.com/zowe/imperative-go/internal/infrastructure/redaction"
	"github.com/zowe/imperative-go/internal/infrastructure/secrets"
	"github.com/zowe/imperative-go/internal/infrastructure/sensitivedata"
	"github.com/zowe/imperative-go/internal/infrastructure/system"
	"github.com/zowe/imperative-go/internal/infrastructure/validation"
)

// Container holds all application dependencies.
type Container struct {
	systemCfg           *system.Config
	typeConfigs         entities.TypeConfigurations
	profileIO           ports.ProfileIO
	credentials         ports.CredentialManager
	sensitive           *sensitivedata.Provider
	redactor            *redaction.Redactor
	profiles            *services.ProfileService
	cliProfiles         *services.CLIProfileService
	plans               *validation.PlanRegistry
	checkProfileUseCase *services.CheckProfileUseCase
	formatters          *output.FormatterFactory
	logger              *slog.Logger
}

// Options configure the container. Non-empty fields override the settings
// file.
type Options struct {
	Logger           *slog.Logger
	SystemConfigPath string
	TypesFile        string
	ProfileRootDir   string
	CredentialKind   string
	// ValueProvider answers PROMPT* option values. Defaults to the terminal.
	ValueProvider ports.ValueProvider
}

// New creates a new dependency injection container.
func New(opts Options) (*Container, error) {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.SystemConfigPath == "" {
		opts.SystemConfigPath = system.DefaultConfigPath()
	}

	systemCfg, err := system.NewConfigLoader().Load(opts.SystemConfigPath)
	if err != nil {
		opts.Logger.Warn("failed to load system config, using defaults", "path", opts.SystemConfigPath, "error", err)
		systemCfg = system.DefaultConfig()
	}
	applyOverrides(systemCfg, opts)

	typeConfigs, err := LoadTypes(systemCfg.Profiles.TypesFile)
	if err != nil {
		return nil, err
	}

	// Values hydrated from the credential store are tracked so the redactor
	// and error scrubbing can hide them.
	sensitive := sensitivedata.NewProvider()
	resolver := secrets.NewResolver(&systemCfg.SensitiveData.Secrets, sensitive)

	redactor, err := redaction.New(redaction.Config{
		Patterns:        systemCfg.Redaction.Patterns,
		Paths:           systemCfg.Redaction.Paths,
		HashMode:        systemCfg.Redaction.HashMode.Enabled,
		Salt:            systemCfg.Redaction.HashMode.Salt,
		DisableGitleaks: systemCfg.Redaction.DisableGitleaks,
	}, sensitive)
	if err != nil {
		return nil, err
	}

	manager, err := credentials.New(credentials.Config{
		Kind:           systemCfg.Credentials.Kind,
		Name:           systemCfg.Credentials.Name,
		VaultPath:      systemCfg.Credentials.VaultPath,
		IdentitySecret: systemCfg.Credentials.IdentitySecret,
	}, resolver, opts.Logger)
	if err != nil {
		return nil, err
	}

	policy, err := services.ParseLoadAllPolicy(systemCfg.Profiles.LoadAllPolicy)
	if err != nil {
		return nil, err
	}

	profileIO := filesystem.NewProfileIO()
	profiles, err := services.NewProfileService(services.ProfileServiceOptions{
		Type:               typeConfigs[0].Type,
		ProfileRootDir:     systemCfg.Profiles.RootDir,
		TypeConfigurations: typeConfigs,
		ProfileIO:          profileIO,
		SchemaValidator:    validation.NewSchemaValidator(),
		CredentialManager:  manager,
		SensitiveValues:    sensitive,
		LoadAllPolicy:      policy,
		Logger:             opts.Logger,
	})
	if err != nil {
		return nil, err
	}

	values := opts.ValueProvider
	if values == nil {
		values = prompt.NewTerminalPrompter()
	}
	cliProfiles := services.NewCLIProfileService(profiles, nil, values, opts.Logger)

	plans, err := newPlanRegistry(systemCfg.Profiles.TypesFile, opts.Logger)
	if err != nil {
		return nil, err
	}
	runner := domainvalidation.NewRunner(systemCfg.Profiles.Product, opts.Logger)
	checkProfileUseCase := services.NewCheckProfileUseCase(profiles, plans, runner, opts.Logger)

	return &Container{
		systemCfg:           systemCfg,
		typeConfigs:         typeConfigs,
		profileIO:           profileIO,
		credentials:         manager,
		sensitive:           sensitive,
		redactor:            redactor,
		profiles:            profiles,
		cliProfiles:         cliProfiles,
		plans:               plans,
		checkProfileUseCase: checkProfileUseCase,
		formatters:          output.NewFormatterFactory(),
		logger:              opts.Logger,
	}, nil
}

func applyOverrides(cfg *system.Config, opts Options) {
	if opts.TypesFile != "" {
		cfg.Profiles.TypesFile = opts.TypesFile
	}
	if opts.ProfileRootDir != "" {
		cfg.Profiles.RootDir = opts.ProfileRootDir
	}
	if opts.CredentialKind != "" {
		cfg.Credentials.Kind = opts.CredentialKind
	}
}

// LoadTypes returns the profile types of typesFile, or the built-in types
// when typesFile is empty.
func LoadTypes(typesFile string) (entities.TypeConfigurations, error) {
	if typesFile == "" {
		return config.BuiltinTypes()
	}
	configs, err := config.NewTypesLoader().LoadTypes(typesFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile types: %w", err)
	}
	return configs, nil
}

// newPlanRegistry registers the built-in plans. Plan files named by a types
// file resolve relative to that file.
func newPlanRegistry(typesFile string, logger *slog.Logger) (*validation.PlanRegistry, error) {
	baseDir := "."
	if typesFile != "" {
		baseDir = filepath.Dir(typesFile)
	}
	registry := validation.NewPlanRegistry(baseDir, logger)

	builtin, err := config.BuiltinPlans()
	if err != nil {
		return nil, err
	}
	for module, data := range builtin {
		if err := registry.RegisterDeclarative(module, data); err != nil {
			return nil, err
		}
	}
	return registry, nil
}

// Close releases the credential manager.
func (c *Container) Close() {
	if closer, ok := c.credentials.(interface{ Close() }); ok {
		closer.Close()
	}
}

// Profiles returns the profile service for the first configured type. Use
// ForType for the others.
func (c *Container) Profiles() *services.ProfileService {
	return c.profiles
}

// CLIProfiles returns the service that builds profiles from arguments.
func (c *Container) CLIProfiles() *services.CLIProfileService {
	return c.cliProfiles
}

// CheckProfileUseCase returns the check profile use case.
func (c *Container) CheckProfileUseCase() *services.CheckProfileUseCase {
	return c.checkProfileUseCase
}

// ProfileIO returns the profile I/O adapter.
func (c *Container) ProfileIO() ports.ProfileIO {
	return c.profileIO
}

// TypeConfigurations returns the configured profile types.
func (c *Container) TypeConfigurations() entities.TypeConfigurations {
	return c.typeConfigs
}

// PlanRegistry returns the validation plan registry.
func (c *Container) PlanRegistry() *validation.PlanRegistry {
	return c.plans
}

// OutputOptions returns formatter options that censor the secure fields of
// svc's type.
func (c *Container) OutputOptions(svc *services.ProfileService, format string, color bool) output.Options {
	paths := make([]string, 0)
	for _, sp := range svc.SecurePaths() {
		paths = append(paths, sp.Path)
	}
	return output.Options{
		Product:     c.systemCfg.Profiles.Product,
		Indent:      format == "json",
		EnableColor: color,
		Censor:      c.redactor,
		SecurePaths: paths,
		Logger:      c.logger,
	}
}

// Formatters returns the output formatter factory.
func (c *Container) Formatters() *output.FormatterFactory {
	return c.formatters
}

// Redactor returns the redactor censoring displayed profiles.
func (c *Container) Redactor() *redaction.Redactor {
	return c.redactor
}

// SensitiveValues returns the values hydrated from the credential store.
func (c *Container) SensitiveValues() *sensitivedata.Provider {
	return c.sensitive
}

// SystemConfig returns the system configuration.
func (c *Container) SystemConfig() *system.Config {
	return c.systemCfg
}

// Logger returns the configured logger.
func (c *Container) Logger() *slog.Logger {
	return c.logger
}
