package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/zowe/imperative-go/internal/application/dto"
	apperrors "github.com/zowe/imperative-go/internal/application/errors"
	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/services"
)

// Save validates and stores a new profile. Secure values go to the
// credential manager; the file holds sentinels in their place.
//
// The document is written before the secure values, so a credential failure
// leaves the document on disk with sentinels that cannot be resolved. The
// error names the field that failed.
func (s *ProfileService) Save(ctx context.Context, req dto.SaveProfileRequest) (*dto.SaveProfileResponse, error) {
	name := resolveName(req.Name, req.Profile)
	profile := s.identify(req.Profile, name)

	if err := s.validateDocument(profile, name, false); err != nil {
		return nil, err
	}

	path := s.ProfilePath(name)
	exists, err := s.opts.ProfileIO.Exists(path)
	if err != nil {
		return nil, err
	}
	if exists && !req.Overwrite {
		return nil, apperrors.NewConflictError(s.opts.Type, name)
	}

	if err := s.verifyDependencies(ctx, name, profile); err != nil {
		return nil, err
	}

	stored, fields, err := s.externalize(name, profile)
	if err != nil {
		return nil, err
	}

	var stale []services.SecurePath
	if exists {
		stale = s.staleSecurePaths(path, stored)
	}

	if err := s.opts.ProfileIO.CreateProfileDirs(s.typeDir()); err != nil {
		return nil, err
	}
	if err := s.opts.ProfileIO.WriteProfile(path, stored); err != nil {
		return nil, err
	}
	if err := s.storeSecureFields(ctx, name, fields); err != nil {
		return nil, err
	}
	if len(stale) > 0 {
		if err := s.deleteSecureFields(ctx, name, stale); err != nil {
			s.logger.Warn("could not remove secure fields dropped by overwrite", "name", name, "error", err)
		}
	}

	meta, err := s.readMeta()
	if err != nil {
		return nil, err
	}
	if meta == nil || meta.DefaultProfile == "" || req.UpdateDefault {
		if err := s.setDefaultPointer(name); err != nil {
			return nil, err
		}
		s.logger.Debug("default profile updated", "name", name)
	}

	s.logger.Info("profile saved", "name", name, "path", path, "overwritten", exists)

	return &dto.SaveProfileResponse{
		Message:     fmt.Sprintf("Profile (%q of type %q) successfully written: %s", name, s.opts.Type, path),
		Path:        path,
		Overwritten: exists,
		Profile:     profile,
	}, nil
}

// verifyDependencies loads every dependency the document names. A
// dependency that does not exist, is invalid, or leads back to this profile
// rejects the save.
func (s *ProfileService) verifyDependencies(ctx context.Context, name string, profile entities.Profile) error {
	deps, err := profile.Dependencies()
	if err != nil {
		return apperrors.NewValidationError(name, err.Error())
	}
	if len(deps) == 0 {
		return nil
	}

	chain, err := services.VisitChain{}.Enter(entities.DependencyRef{Type: s.opts.Type, Name: name})
	if err != nil {
		return err
	}

	for _, dep := range deps {
		depSvc, err := s.ForType(dep.Type)
		if err != nil {
			return err
		}
		if _, err := depSvc.load(ctx, dto.LoadProfileRequest{Name: dep.Name, NoSecure: true}, chain); err != nil {
			var integrity *apperrors.DependencyIntegrityError
			if errors.As(err, &integrity) {
				return err
			}
			return apperrors.NewDependencyIntegrityError(s.opts.Type, name,
				"Could not save the profile, because one or more dependencies is invalid or does not exist", err)
		}
	}
	return nil
}

// staleSecurePaths returns the secure fields held for the stored document
// that the new document no longer references.
func (s *ProfileService) staleSecurePaths(path string, stored entities.Profile) []services.SecurePath {
	if !s.credentialsReady() {
		return nil
	}
	old, err := s.opts.ProfileIO.ReadProfileFile(path, s.opts.Type)
	if err != nil {
		s.logger.Debug("could not read profile being overwritten", "path", path, "error", err)
		return nil
	}
	keep := make(map[string]bool)
	for _, sp := range s.secure.SentinelPaths(s.typeConfig.Schema, stored, s.sentinel()) {
		keep[sp.Path] = true
	}
	var stale []services.SecurePath
	for _, sp := range s.secure.SentinelPaths(s.typeConfig.Schema, old, s.sentinel()) {
		if !keep[sp.Path] {
			stale = append(stale, sp)
		}
	}
	return stale
}
