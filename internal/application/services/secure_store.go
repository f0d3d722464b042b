package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	apperrors "github.com/zowe/imperative-go/internal/application/errors"
	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/services"
	"github.com/zowe/imperative-go/internal/domain/values"
)

// Credential operation phases reported in CredentialManagerError.
const (
	phaseSave   = "save"
	phaseLoad   = "load"
	phaseDelete = "delete"
)

var errCredentialsUnavailable = errors.New("no initialized credential manager is configured")

// externalize lifts secure values out of the document. It fails when the
// document carries secure values and there is nowhere to store them.
func (s *ProfileService) externalize(
	name string,
	profile entities.Profile,
) (entities.Profile, []services.SecureField, error) {
	stored, fields := s.secure.Extract(s.typeConfig.Schema, profile, s.sentinel())
	if len(fields) > 0 && !s.credentialsReady() {
		return nil, nil, apperrors.NewCredentialManagerError(phaseSave, s.opts.Type, name, fields[0].Path,
			errCredentialsUnavailable)
	}
	return stored, fields, nil
}

func (s *ProfileService) credentialKey(name, path string) string {
	return values.NewCredentialKey(s.opts.Type, name, path).String()
}

// storeSecureFields saves each lifted value as JSON.
func (s *ProfileService) storeSecureFields(ctx context.Context, name string, fields []services.SecureField) error {
	for _, f := range fields {
		encoded, err := json.Marshal(f.Value)
		if err != nil {
			return apperrors.NewCredentialManagerError(phaseSave, s.opts.Type, name, f.Path, err)
		}
		if err := s.opts.CredentialManager.Save(ctx, s.credentialKey(name, f.Path), string(encoded)); err != nil {
			return apperrors.NewCredentialManagerError(phaseSave, s.opts.Type, name, f.Path, err)
		}
		s.track(f.Value)
	}
	return nil
}

// hydrate returns a copy of raw with sentinel values replaced by the stored
// secure values. Without an initialized manager the sentinels are left.
func (s *ProfileService) hydrate(ctx context.Context, name string, raw entities.Profile) (entities.Profile, error) {
	if !s.credentialsReady() {
		if s.opts.CredentialManager != nil {
			s.logger.Debug("credential manager not initialized; secure fields left unresolved", "name", name)
		}
		return raw, nil
	}

	paths := s.secure.SentinelPaths(s.typeConfig.Schema, raw, s.sentinel())
	if len(paths) == 0 {
		return raw, nil
	}

	fields := make([]services.SecureField, 0, len(paths))
	for _, sp := range paths {
		stored, err := s.opts.CredentialManager.Load(ctx, s.credentialKey(name, sp.Path), !sp.Required)
		if err != nil {
			return nil, apperrors.NewCredentialManagerError(phaseLoad, s.opts.Type, name, sp.Path, err)
		}
		if stored == "" {
			fields = append(fields, services.SecureField{SecurePath: sp})
			continue
		}
		v := decodeSecureValue(stored)
		s.track(v)
		fields = append(fields, services.SecureField{SecurePath: sp, Value: v})
	}
	return s.secure.Restore(raw, fields), nil
}

// hydrateBoxes returns a copy of old with each stored secure box that update
// also sets replaced by its stored contents. Other secure fields keep the
// sentinel.
func (s *ProfileService) hydrateBoxes(
	ctx context.Context,
	name string,
	old, update entities.Profile,
) (entities.Profile, error) {
	if !s.credentialsReady() {
		return old, nil
	}

	var fields []services.SecureField
	for _, sp := range s.secure.SentinelPaths(s.typeConfig.Schema, old, s.sentinel()) {
		if !sp.Box {
			continue
		}
		v, ok := update.Lookup(sp.Path)
		if !ok {
			continue
		}
		if _, isMap := entities.AsMap(v); !isMap {
			continue
		}
		stored, err := s.opts.CredentialManager.Load(ctx, s.credentialKey(name, sp.Path), true)
		if err != nil {
			return nil, apperrors.NewCredentialManagerError(phaseLoad, s.opts.Type, name, sp.Path, err)
		}
		field := services.SecureField{SecurePath: sp}
		if stored != "" {
			field.Value = decodeSecureValue(stored)
			s.track(field.Value)
		}
		fields = append(fields, field)
	}
	if len(fields) == 0 {
		return old, nil
	}
	return s.secure.Restore(old, fields), nil
}

// decodeSecureValue parses the stored JSON. Values written by other tools
// as bare strings are returned unchanged.
func decodeSecureValue(stored string) any {
	var v any
	if err := json.Unmarshal([]byte(stored), &v); err != nil {
		return stored
	}
	return v
}

// deleteSecureFields removes every listed field, continuing past failures.
func (s *ProfileService) deleteSecureFields(ctx context.Context, name string, paths []services.SecurePath) error {
	var errs []error
	for _, sp := range paths {
		if err := s.opts.CredentialManager.Delete(ctx, s.credentialKey(name, sp.Path)); err != nil {
			errs = append(errs, apperrors.NewCredentialManagerError(phaseDelete, s.opts.Type, name, sp.Path, err))
		}
	}
	return errors.Join(errs...)
}

// replaceSecureField deletes the stored value of a field and saves the new
// one. If the save fails the previous value is written back.
func (s *ProfileService) replaceSecureField(ctx context.Context, name string, f services.SecureField) error {
	key := s.credentialKey(name, f.Path)

	previous, err := s.opts.CredentialManager.Load(ctx, key, true)
	if err != nil {
		return apperrors.NewCredentialManagerError(phaseDelete, s.opts.Type, name, f.Path, err)
	}
	if previous != "" {
		if err := s.opts.CredentialManager.Delete(ctx, key); err != nil {
			return apperrors.NewCredentialManagerError(phaseDelete, s.opts.Type, name, f.Path, err)
		}
	}

	saveErr := s.storeSecureFields(ctx, name, []services.SecureField{f})
	if saveErr == nil {
		return nil
	}
	if previous != "" {
		if err := s.opts.CredentialManager.Save(ctx, key, previous); err != nil {
			s.logger.Warn("could not restore previous secure value", "field", f.Path, "error", err)
			return fmt.Errorf("%w (previous value could not be restored: %v)", saveErr, err)
		}
	}
	return saveErr
}

// track registers string leaves of a secure value for redaction.
func (s *ProfileService) track(v any) {
	if s.opts.SensitiveValues == nil {
		return
	}
	switch val := v.(type) {
	case string:
		if val != "" {
			s.opts.SensitiveValues.Track(val)
		}
	case map[string]any:
		for _, item := range val {
			s.track(item)
		}
	case []any:
		for _, item := range val {
			s.track(item)
		}
	}
}
