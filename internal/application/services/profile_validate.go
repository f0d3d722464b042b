package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/zowe/imperative-go/internal/application/dto"
	apperrors "github.com/zowe/imperative-go/internal/application/errors"
	"github.com/zowe/imperative-go/internal/domain/entities"
)

// Validate checks a profile document against the type's rules and schema
// without storing anything.
func (s *ProfileService) Validate(_ context.Context, req dto.ValidateProfileRequest) (*dto.ValidateProfileResponse, error) {
	name := resolveName(req.Name, req.Profile)
	profile := s.identify(req.Profile, name)

	if err := s.validateDocument(profile, name, req.Strict); err != nil {
		return nil, err
	}
	return &dto.ValidateProfileResponse{
		Message: fmt.Sprintf("Profile %q of type %q is valid.", name, s.opts.Type),
	}, nil
}

// validateDocument collects every violation into one ValidationError.
func (s *ProfileService) validateDocument(profile entities.Profile, name string, strict bool) error {
	var details []string

	if profile.Type() != s.opts.Type {
		details = append(details, fmt.Sprintf("profile type %q does not match the expected type %q",
			profile.Type(), s.opts.Type))
	}
	if strings.TrimSpace(name) == "" {
		details = append(details, "profile name must not be blank")
	}
	if name == s.metaName() {
		details = append(details, fmt.Sprintf("profile name %q is reserved", name))
	}
	if profile.IsEmpty() {
		details = append(details, "profile has no contents")
	}

	details = append(details, s.resolver.CheckDeclaredDependencies(s.typeConfig, profile)...)

	violations, err := s.opts.SchemaValidator.Validate(s.typeConfig.Schema, profile, strict, s.documentSentinel(profile))
	if err != nil {
		return apperrors.NewConfigurationError("schema",
			fmt.Sprintf("schema for profile type %q could not be used", s.opts.Type), err)
	}
	details = append(details, violations...)

	if len(details) == 0 {
		return nil
	}
	return apperrors.NewValidationError(
		name,
		fmt.Sprintf("Errors located in profile %q of type %q", name, s.opts.Type),
		details...,
	)
}
