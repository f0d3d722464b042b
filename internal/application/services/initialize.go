package services

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"

	"github.com/zowe/imperative-go/internal/application/dto"
	apperrors "github.com/zowe/imperative-go/internal/application/errors"
	"github.com/zowe/imperative-go/internal/application/ports"
	"github.com/zowe/imperative-go/internal/domain/entities"
)

// InitializeProfileEnvironment creates a directory and meta file for every
// configured type under root. Existing meta files are left alone unless
// reinitialize is set, in which case their configuration is replaced and
// their default pointer kept.
func InitializeProfileEnvironment(
	_ context.Context,
	io ports.ProfileIO,
	root string,
	configs entities.TypeConfigurations,
	reinitialize bool,
	logger *slog.Logger,
) ([]dto.InitializeResponse, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := configs.Validate(); err != nil {
		return nil, apperrors.NewConfigurationError("profiles", "invalid profile type configurations", err)
	}

	responses := make([]dto.InitializeResponse, 0, len(configs))
	for i := range configs {
		cfg := configs[i]
		dir := filepath.Join(root, cfg.Type)
		metaPath := filepath.Join(dir, entities.MetaProfileName(cfg.Type)+io.FileExtension())

		if err := io.CreateProfileDirs(dir); err != nil {
			return nil, err
		}

		exists, err := io.Exists(metaPath)
		if err != nil {
			return nil, err
		}

		meta := &entities.MetaProfile{}
		if exists {
			if !reinitialize {
				logger.Debug("profile type already initialized", "type", cfg.Type)
				responses = append(responses, dto.InitializeResponse{
					Type:    cfg.Type,
					Path:    metaPath,
					Message: fmt.Sprintf("Profile type %q was already initialized.", cfg.Type),
				})
				continue
			}
			meta, err = io.ReadMetaFile(metaPath)
			if err != nil {
				return nil, err
			}
		}

		meta.FormatVersion = MetaFormatVersion
		meta.Configuration = &cfg
		if err := io.WriteMetaFile(meta, metaPath); err != nil {
			return nil, err
		}

		logger.Info("profile type initialized", "type", cfg.Type, "path", metaPath)
		responses = append(responses, dto.InitializeResponse{
			Type:    cfg.Type,
			Path:    metaPath,
			Message: fmt.Sprintf("Profile type %q initialized in %s.", cfg.Type, dir),
		})
	}
	return responses, nil
}
