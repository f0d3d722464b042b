package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/zowe/imperative-go/internal/application/dto"
	apperrors "github.com/zowe/imperative-go/internal/application/errors"
	"github.com/zowe/imperative-go/internal/application/ports"
	"github.com/zowe/imperative-go/internal/domain/validation"
)

// CheckProfileUseCase runs a stored profile through the validation plan of
// its type.
type CheckProfileUseCase struct {
	profiles *ProfileService
	plans    ports.PlanProvider
	runner   *validation.Runner
	logger   *slog.Logger
}

// NewCheckProfileUseCase creates a new check profile use case.
func NewCheckProfileUseCase(
	profiles *ProfileService,
	plans ports.PlanProvider,
	runner *validation.Runner,
	logger *slog.Logger,
) *CheckProfileUseCase {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckProfileUseCase{
		profiles: profiles,
		plans:    plans,
		runner:   runner,
		logger:   logger,
	}
}

// Execute loads the profile with its secure values and dependencies, resolves
// the plan, and runs it unless only the plan was requested. onProgress may be
// nil.
func (uc *CheckProfileUseCase) Execute(
	ctx context.Context,
	req dto.CheckProfileRequest,
	onProgress func(validation.Progress),
) (*dto.CheckProfileResponse, error) {
	svc, err := uc.profiles.ForType(req.Type)
	if err != nil {
		return nil, err
	}

	module := svc.TypeConfiguration().ValidationPlanModule
	if module == "" {
		return nil, apperrors.NewConfigurationError("validation",
			fmt.Sprintf("profile type %q does not declare a validation plan", req.Type), nil)
	}
	plan, err := uc.plans.Plan(ctx, module)
	if err != nil {
		return nil, apperrors.NewConfigurationError("validation",
			fmt.Sprintf("failed to load the validation plan for profile type %q", req.Type), err)
	}

	loaded, err := svc.Load(ctx, dto.LoadProfileRequest{Name: req.Name, LoadDefault: req.Name == ""})
	if err != nil {
		return nil, err
	}

	resp := &dto.CheckProfileResponse{
		ProfileType: req.Type,
		ProfileName: loaded.Name,
		Profile:     loaded.Profile,
		Plan:        plan,
	}
	if req.PrintPlanOnly {
		return resp, nil
	}

	uc.logger.Info("validating profile", "type", req.Type, "name", loaded.Name, "tasks", plan.CountTasks())
	report, err := uc.runner.Validate(ctx, loaded.Profile, plan, onProgress)
	if err != nil {
		return nil, err
	}
	resp.Report = report
	return resp, nil
}
