package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zowe/imperative-go/internal/application/dto"
	apperrors "github.com/zowe/imperative-go/internal/application/errors"
	"github.com/zowe/imperative-go/internal/application/ports"
	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/services"
	"github.com/zowe/imperative-go/internal/domain/values"
)

// PromptMarker given as an option value asks for the value interactively.
const PromptMarker = "PROMPT*"

// ArgumentHandler builds a profile document from command arguments for
// types that need more than the schema-driven mapping. For updates,
// existing holds the stored document (secure fields as sentinels).
type ArgumentHandler interface {
	ProfileFromArguments(ctx context.Context, args dto.Arguments, existing entities.Profile) (entities.Profile, error)
}

// ArgumentHandlerFunc adapts a function to ArgumentHandler.
type ArgumentHandlerFunc func(ctx context.Context, args dto.Arguments, existing entities.Profile) (entities.Profile, error)

// ProfileFromArguments calls f.
func (f ArgumentHandlerFunc) ProfileFromArguments(
	ctx context.Context,
	args dto.Arguments,
	existing entities.Profile,
) (entities.Profile, error) {
	return f(ctx, args, existing)
}

// CLIProfileService creates and updates profiles from parsed command
// arguments on top of a ProfileService.
type CLIProfileService struct {
	profiles *ProfileService
	handlers map[string]ArgumentHandler
	values   ports.ValueProvider
	logger   *slog.Logger
}

// NewCLIProfileService creates a CLI profile service. handlers are keyed by
// profile type; values may be nil when prompting is not possible.
func NewCLIProfileService(
	profiles *ProfileService,
	handlers map[string]ArgumentHandler,
	values ports.ValueProvider,
	logger *slog.Logger,
) *CLIProfileService {
	if logger == nil {
		logger = slog.Default()
	}
	return &CLIProfileService{
		profiles: profiles,
		handlers: handlers,
		values:   values,
		logger:   logger,
	}
}

// ForType returns a CLI service for another configured type.
func (c *CLIProfileService) ForType(profileType string) (*CLIProfileService, error) {
	svc, err := c.profiles.ForType(profileType)
	if err != nil {
		return nil, err
	}
	return &CLIProfileService{profiles: svc, handlers: c.handlers, values: c.values, logger: c.logger}, nil
}

// Profiles returns the underlying profile service.
func (c *CLIProfileService) Profiles() *ProfileService {
	return c.profiles
}

// SaveFromArguments builds a profile from args and saves it.
func (c *CLIProfileService) SaveFromArguments(
	ctx context.Context,
	name string,
	args dto.Arguments,
	overwrite bool,
	updateDefault bool,
) (*dto.SaveProfileResponse, error) {
	profile, err := c.ProfileFromArguments(ctx, name, args, nil)
	if err != nil {
		return nil, err
	}
	return c.profiles.Save(ctx, dto.SaveProfileRequest{
		Name:          name,
		Profile:       profile,
		Overwrite:     overwrite,
		UpdateDefault: updateDefault,
		Args:          args,
	})
}

// UpdateFromArguments builds a partial profile from args and merges it into
// the stored profile. A custom handler receives the stored document and
// returns the full replacement.
func (c *CLIProfileService) UpdateFromArguments(
	ctx context.Context,
	name string,
	args dto.Arguments,
) (*dto.UpdateProfileResponse, error) {
	handler, custom := c.handlers[c.profiles.Type()]
	if !custom {
		profile, err := c.ProfileFromArguments(ctx, name, args, nil)
		if err != nil {
			return nil, err
		}
		return c.profiles.Update(ctx, dto.UpdateProfileRequest{Name: name, Profile: profile, Merge: true, Args: args})
	}

	old, err := c.profiles.Load(ctx, dto.LoadProfileRequest{Name: name, SkipDependencies: true, NoSecure: true})
	if err != nil {
		return nil, err
	}
	profile, err := handler.ProfileFromArguments(ctx, args, old.Profile)
	if err != nil {
		return nil, fmt.Errorf("building profile %q of type %q from arguments: %w", name, c.profiles.Type(), err)
	}
	return c.profiles.Update(ctx, dto.UpdateProfileRequest{Name: name, Profile: profile, Args: args})
}

// ProfileFromArguments maps command arguments onto a profile document using
// the option definitions in the type's schema, plus one dependency per
// "{type}-profile" argument.
func (c *CLIProfileService) ProfileFromArguments(
	ctx context.Context,
	name string,
	args dto.Arguments,
	existing entities.Profile,
) (entities.Profile, error) {
	profileType := c.profiles.Type()
	if handler, ok := c.handlers[profileType]; ok {
		profile, err := handler.ProfileFromArguments(ctx, args, existing)
		if err != nil {
			return nil, fmt.Errorf("building profile %q of type %q from arguments: %w", name, profileType, err)
		}
		return c.withDependencies(services.DeepCopyProfile(profile), args), nil
	}

	profile := entities.NewProfile(profileType, name)
	cfg := c.profiles.TypeConfiguration()
	if err := c.fillProperties(ctx, profile, cfg.Schema.Properties, "", args); err != nil {
		return nil, err
	}
	return c.withDependencies(profile, args), nil
}

func (c *CLIProfileService) fillProperties(
	ctx context.Context,
	doc map[string]any,
	props map[string]*entities.ProfileProperty,
	prefix string,
	args dto.Arguments,
) error {
	for _, propName := range entities.SortedPropertyNames(props) {
		prop := props[propName]
		if prop == nil {
			continue
		}
		path := propName
		if prefix != "" {
			path = prefix + "." + propName
		}

		if prop.HasProperties() && prop.OptionDefinition == nil && len(prop.OptionDefinitions) == 0 {
			if err := c.fillProperties(ctx, doc, prop.Properties, path, args); err != nil {
				return err
			}
			continue
		}

		defs := prop.OptionDefinitions
		if prop.OptionDefinition != nil {
			defs = append([]entities.OptionDefinition{*prop.OptionDefinition}, defs...)
		}
		for _, def := range defs {
			v, ok := argumentValue(args, def)
			if !ok {
				continue
			}
			v, err := c.resolvePrompt(ctx, def, v)
			if err != nil {
				return err
			}
			services.SetPath(doc, path, v)
		}
	}
	return nil
}

// argumentValue looks an option up by name, then by camelCase name.
func argumentValue(args dto.Arguments, def entities.OptionDefinition) (any, bool) {
	if v, ok := args[def.Name]; ok && v != nil {
		return v, true
	}
	if v, ok := args[camelCase(def.Name)]; ok && v != nil {
		return v, true
	}
	return nil, false
}

func camelCase(s string) string {
	parts := strings.Split(s, "-")
	for i := 1; i < len(parts); i++ {
		if parts[i] != "" {
			parts[i] = strings.ToUpper(parts[i][:1]) + parts[i][1:]
		}
	}
	return strings.Join(parts, "")
}

func (c *CLIProfileService) resolvePrompt(
	ctx context.Context,
	def entities.OptionDefinition,
	v any,
) (any, error) {
	s, ok := v.(string)
	if !ok || s != PromptMarker {
		return v, nil
	}
	if c.values == nil || !c.values.IsInteractive() {
		return nil, apperrors.NewValidationError(def.Name,
			fmt.Sprintf("option %q asks for a prompt but the session is not interactive", def.Name))
	}
	title := def.Description
	if title == "" {
		title = def.Name
	}
	answer, err := c.values.PromptSecret(ctx, title)
	if err != nil {
		return nil, fmt.Errorf("prompting for %q: %w", def.Name, err)
	}
	c.logger.Debug("prompted for option value", "option", def.Name)
	return answer, nil
}

// withDependencies adds one dependency per "{type}-profile" argument of the
// declared dependency types.
func (c *CLIProfileService) withDependencies(profile entities.Profile, args dto.Arguments) entities.Profile {
	cfg := c.profiles.TypeConfiguration()
	existing, err := profile.Dependencies()
	if err != nil {
		return profile
	}
	deps := existing
	for _, decl := range cfg.Dependencies {
		v, ok := args[values.ProfileOptionName(decl.Type)]
		if !ok {
			continue
		}
		depName, ok := v.(string)
		if !ok || strings.TrimSpace(depName) == "" {
			continue
		}
		deps = replaceDependency(deps, entities.DependencyRef{Type: decl.Type, Name: depName})
	}
	if len(deps) == 0 {
		return profile
	}
	return profile.WithDependencies(deps)
}

func replaceDependency(deps []entities.DependencyRef, ref entities.DependencyRef) []entities.DependencyRef {
	for i, d := range deps {
		if d.Type == ref.Type {
			deps[i] = ref
			return deps
		}
	}
	return append(deps, ref)
}
