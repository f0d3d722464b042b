package services

import (
	"context"
	"fmt"

	"github.com/zowe/imperative-go/internal/application/dto"
	apperrors "github.com/zowe/imperative-go/internal/application/errors"
	"github.com/zowe/imperative-go/internal/domain/services"
)

// Update replaces or merges an existing profile.
//
// The stored document is read without resolving secure fields, except for
// secure boxes the update also sets, which are merged with their stored
// contents. A secure field still holding the sentinel after the merge is
// unchanged and its stored value is left alone. A field given a new value has
// its stored value deleted and the new one saved. A field that disappeared is
// deleted.
func (s *ProfileService) Update(ctx context.Context, req dto.UpdateProfileRequest) (*dto.UpdateProfileResponse, error) {
	name := resolveName(req.Name, req.Profile)
	path := s.ProfilePath(name)

	exists, err := s.opts.ProfileIO.Exists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, apperrors.NewNotFoundError(s.opts.Type, name)
	}

	old, err := s.load(ctx, dto.LoadProfileRequest{Name: name, SkipDependencies: true, NoSecure: true}, services.VisitChain{})
	if err != nil {
		return nil, err
	}

	next := s.identify(req.Profile, name)
	if req.Merge {
		base, err := s.hydrateBoxes(ctx, name, old.Profile, next)
		if err != nil {
			return nil, err
		}
		next = s.identify(s.merger.Merge(base, next), name)
	}

	if err := s.validateDocument(next, name, false); err != nil {
		return nil, err
	}
	if err := s.verifyDependencies(ctx, name, next); err != nil {
		return nil, err
	}

	stored, fields, err := s.externalize(name, next)
	if err != nil {
		return nil, err
	}

	var removed []services.SecurePath
	var previouslyStored map[string]bool
	if s.credentialsReady() {
		previouslyStored = make(map[string]bool)
		for _, sp := range s.secure.SentinelPaths(s.typeConfig.Schema, old.Profile, s.sentinel()) {
			previouslyStored[sp.Path] = true
			if v, ok := stored.Lookup(sp.Path); !ok || v == nil {
				removed = append(removed, sp)
			}
		}
	}

	if err := s.opts.ProfileIO.WriteProfile(path, stored); err != nil {
		return nil, err
	}

	if len(removed) > 0 {
		if err := s.deleteSecureFields(ctx, name, removed); err != nil {
			return nil, err
		}
	}
	for _, f := range fields {
		if previouslyStored[f.Path] {
			if err := s.replaceSecureField(ctx, name, f); err != nil {
				return nil, err
			}
			continue
		}
		if err := s.storeSecureFields(ctx, name, []services.SecureField{f}); err != nil {
			return nil, err
		}
	}

	s.logger.Info("profile updated", "name", name, "merge", req.Merge, "secure_fields", len(fields))

	return &dto.UpdateProfileResponse{
		Message: fmt.Sprintf("Profile %q of type %q updated successfully.", name, s.opts.Type),
		Path:    path,
		Profile: stored,
	}, nil
}
