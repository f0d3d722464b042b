package services

import (
	"context"
	"fmt"

	"github.com/zowe/imperative-go/internal/application/dto"
	apperrors "github.com/zowe/imperative-go/internal/application/errors"
	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/values"
)

// Delete removes a profile, clears the default pointer if it named the
// profile, and removes its stored secure fields.
//
// Secure fields are removed after the document. A failure there is returned
// but the document stays deleted.
func (s *ProfileService) Delete(ctx context.Context, req dto.DeleteProfileRequest) (*dto.DeleteProfileResponse, error) {
	name := req.Name
	path := s.ProfilePath(name)

	exists, err := s.opts.ProfileIO.Exists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFoundError(s.opts.Type, name)
	}

	if !req.SkipDependencyCheck {
		if err := s.rejectIfDependency(ctx, name); err != nil {
			return nil, err
		}
	}

	raw, err := s.opts.ProfileIO.ReadProfileFile(path, s.opts.Type)
	if err != nil {
		return nil, err
	}

	if err := s.opts.ProfileIO.DeleteProfile(name, path); err != nil {
		return nil, err
	}

	resp := &dto.DeleteProfileResponse{
		Message: fmt.Sprintf("Profile %q of type %q deleted successfully.", name, s.opts.Type),
		Path:    path,
	}

	def, err := s.GetDefaultProfileName(ctx)
	if err != nil {
		return nil, err
	}
	if def == name {
		if err := s.setDefaultPointer(""); err != nil {
			return nil, err
		}
		resp.DefaultCleared = true
		s.logger.Debug("default profile cleared", "name", name)
	}

	if s.credentialsReady() {
		paths := s.secure.SentinelPaths(s.typeConfig.Schema, raw, s.sentinel())
		if err := s.deleteSecureFields(ctx, name, paths); err != nil {
			return nil, fmt.Errorf("profile %q of type %q was deleted but its secure fields could not be removed: %w",
				name, s.opts.Type, err)
		}
	} else if s.holdsSentinels(raw) {
		s.logger.Warn("profile deleted without removing its secure fields; no credential manager is available",
			"name", name)
	}

	s.logger.Info("profile deleted", "name", name, "default_cleared", resp.DefaultCleared)
	return resp, nil
}

// rejectIfDependency fails when any stored profile requires this one.
func (s *ProfileService) rejectIfDependency(ctx context.Context, name string) error {
	all, err := s.LoadAll(ctx, dto.LoadAllProfilesRequest{NoSecure: true})
	if err != nil {
		return err
	}

	target := entities.DependencyRef{Type: s.opts.Type, Name: name}
	dependents := s.resolver.FindDependents(entities.FlattenLoaded(all), target, s.opts.TypeConfigurations)
	if len(dependents) == 0 {
		return nil
	}

	e := apperrors.NewDependencyIntegrityError(s.opts.Type, name,
		fmt.Sprintf("The profile specified for deletion (%q of type %q) is marked as a dependency for profiles:",
			name, s.opts.Type), nil)
	for _, d := range dependents {
		e.Dependents = append(e.Dependents, fmt.Sprintf("Name: %q Type: %q", d.Name, d.Type))
	}
	return e
}

func (s *ProfileService) holdsSentinels(raw entities.Profile) bool {
	for _, sp := range s.SecurePaths() {
		if v, ok := raw.Lookup(sp.Path); ok && values.LooksLikeSentinel(v) {
			return true
		}
	}
	return false
}
