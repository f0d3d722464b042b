package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/zowe/imperative-go/internal/application/dto"
	apperrors "github.com/zowe/imperative-go/internal/application/errors"
	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/services"
)

// Load reads a profile, resolves its secure fields, and recursively loads
// its dependencies.
func (s *ProfileService) Load(ctx context.Context, req dto.LoadProfileRequest) (*entities.Loaded, error) {
	return s.load(ctx, req, services.VisitChain{})
}

func (s *ProfileService) load(
	ctx context.Context,
	req dto.LoadProfileRequest,
	chain services.VisitChain,
) (*entities.Loaded, error) {
	name := req.Name
	if req.LoadDefault {
		def, err := s.GetDefaultProfileName(ctx)
		if err != nil {
			return nil, err
		}
		if def == "" {
			msg := fmt.Sprintf("No default profile set for type %q.", s.opts.Type)
			if req.IgnoreNotFound {
				return &entities.Loaded{Type: s.opts.Type, Message: msg}, nil
			}
			return nil, &apperrors.NotFoundError{Type: s.opts.Type, Message: msg}
		}
		name = def
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationError("name", "a profile name must be specified")
	}

	path := s.ProfilePath(name)
	exists, err := s.opts.ProfileIO.Exists(path)
	if err != nil {
		return nil, err
	}
	if !exists {
		if req.IgnoreNotFound {
			return &entities.Loaded{
				Type:    s.opts.Type,
				Name:    name,
				Message: entities.NotFoundMessage(s.opts.Type, name),
			}, nil
		}
		return nil, apperrors.NewNotFoundError(s.opts.Type, name)
	}

	ref := entities.DependencyRef{Type: s.opts.Type, Name: name}
	chain, err = chain.Enter(ref)
	if err != nil {
		return nil, apperrors.NewDependencyIntegrityError(s.opts.Type, name,
			fmt.Sprintf("Profile %q of type %q is part of a dependency cycle", name, s.opts.Type), err)
	}

	s.logger.Debug("loading profile", "name", name, "depth", chain.Depth())

	raw, err := s.opts.ProfileIO.ReadProfileFile(path, s.opts.Type)
	if err != nil {
		return nil, err
	}
	raw = s.identify(raw, name)

	if err := s.validateDocument(raw, name, false); err != nil {
		return nil, err
	}

	profile := raw
	if !req.NoSecure {
		profile, err = s.hydrate(ctx, name, raw)
		if err != nil {
			return nil, err
		}
	}

	loaded := &entities.Loaded{
		Message:      fmt.Sprintf("Profile %q of type %q loaded successfully.", name, s.opts.Type),
		Type:         s.opts.Type,
		Name:         name,
		FailNotFound: true,
		Profile:      profile,
	}

	if req.SkipDependencies {
		return loaded, nil
	}

	deps, err := raw.Dependencies()
	if err != nil {
		return nil, apperrors.NewValidationError(name, err.Error())
	}
	if len(deps) == 0 {
		return loaded, nil
	}

	responses, err := s.loadDependencies(ctx, name, deps, req.NoSecure, chain)
	if err != nil {
		return nil, err
	}
	loaded.DependenciesLoaded = true
	loaded.DependencyLoadResponses = responses
	return loaded, nil
}

// loadDependencies loads every dependency concurrently. Results keep the
// declaration order. Optional dependencies that fail are logged and left
// out; cycles always fail.
func (s *ProfileService) loadDependencies(
	ctx context.Context,
	name string,
	deps []entities.DependencyRef,
	noSecure bool,
	chain services.VisitChain,
) ([]*entities.Loaded, error) {
	results := make([]*entities.Loaded, len(deps))

	g, gctx := errgroup.WithContext(ctx)
	for i, dep := range deps {
		g.Go(func() error {
			depSvc, err := s.ForType(dep.Type)
			if err != nil {
				return err
			}
			loaded, err := depSvc.load(gctx, dto.LoadProfileRequest{Name: dep.Name, NoSecure: noSecure}, chain)
			if err == nil {
				results[i] = loaded
				return nil
			}

			var integrity *apperrors.DependencyIntegrityError
			if errors.As(err, &integrity) {
				return err
			}
			if !s.isRequiredDependency(dep.Type) {
				s.logger.Warn("optional dependency could not be loaded",
					"name", name, "dependency", dep.String(), "error", err)
				return nil
			}
			return apperrors.NewDependencyIntegrityError(s.opts.Type, name,
				fmt.Sprintf("Could not load the dependency %s of profile %q of type %q", dep, name, s.opts.Type), err)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*entities.Loaded, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}

// isRequiredDependency treats undeclared dependency types as required.
func (s *ProfileService) isRequiredDependency(depType string) bool {
	decl, ok := s.typeConfig.DependencyFor(depType)
	return !ok || decl.Required
}

// LoadAll loads every stored profile of every type (or only the managed type)
// without their dependencies.
func (s *ProfileService) LoadAll(ctx context.Context, req dto.LoadAllProfilesRequest) ([]*entities.Loaded, error) {
	types := s.opts.TypeConfigurations.Types()
	if req.TypeOnly {
		types = []string{s.opts.Type}
	}

	type target struct {
		svc  *ProfileService
		name string
	}
	var targets []target
	for _, t := range types {
		svc, err := s.ForType(t)
		if err != nil {
			return nil, err
		}
		names, err := svc.GetAllProfileNames(ctx)
		if err != nil {
			return nil, err
		}
		for _, n := range names {
			targets = append(targets, target{svc: svc, name: n})
		}
	}

	results := make([]*entities.Loaded, len(targets))
	g, gctx := errgroup.WithContext(ctx)
	for i, tg := range targets {
		g.Go(func() error {
			loaded, err := tg.svc.Load(gctx, dto.LoadProfileRequest{
				Name:             tg.name,
				SkipDependencies: true,
				NoSecure:         req.NoSecure,
			})
			if err == nil {
				results[i] = loaded
				return nil
			}
			if s.opts.LoadAllPolicy == LoadAllPartial {
				s.logger.Warn("skipping profile that failed to load",
					"type", tg.svc.Type(), "name", tg.name, "error", err)
				return nil
			}
			return fmt.Errorf("loading profile %q of type %q: %w", tg.name, tg.svc.Type(), err)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	out := make([]*entities.Loaded, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, r)
		}
	}
	return out, nil
}
