package services

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zowe/imperative-go/internal/application/dto"
	apperrors "github.com/zowe/imperative-go/internal/application/errors"
	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/validation"
	"github.com/zowe/imperative-go/internal/domain/values"
)

type planMap map[string]*validation.Plan

func (p planMap) Plan(_ context.Context, module string) (*validation.Plan, error) {
	plan, ok := p[module]
	if !ok {
		return nil, errors.New("unknown module")
	}
	return plan, nil
}

func passwordPlan() *validation.Plan {
	return &validation.Plan{Tasks: []*validation.Task{{
		Name: "Password is available",
		Check: func(_ context.Context, p entities.Profile) (validation.TaskResult, error) {
			auth, _ := p["auth"].(map[string]any)
			if auth["password"] == "hunter2" {
				return validation.TaskResult{Outcome: values.OutcomeOK, ResultDescription: "hydrated"}, nil
			}
			return validation.TaskResult{Outcome: values.OutcomeFailed, ResultDescription: "not hydrated"}, nil
		},
	}}}
}

func newCheckUseCase(t *testing.T, f *fixture) *CheckProfileUseCase {
	t.Helper()
	f.opts.TypeConfigurations[1].ValidationPlanModule = "zosmf"
	return NewCheckProfileUseCase(f.service(t, "base"), planMap{"zosmf": passwordPlan()},
		validation.NewRunner("Imperative", nil), nil)
}

func TestCheckProfileUseCase_RunsPlanOnHydratedProfile(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	uc := newCheckUseCase(t, f)

	_, err := f.service(t, "zosmf").Save(ctx, dto.SaveProfileRequest{Name: "lpar1", Profile: lpar1()})
	require.NoError(t, err)

	var progress []validation.Progress
	resp, err := uc.Execute(ctx, dto.CheckProfileRequest{Type: "zosmf"}, func(p validation.Progress) {
		progress = append(progress, p)
	})
	require.NoError(t, err)

	assert.Equal(t, "lpar1", resp.ProfileName, "the default profile is used")
	require.NotNil(t, resp.Report)
	assert.Equal(t, values.OutcomeOK, resp.Report.OverallResult)
	assert.NotEmpty(t, progress)
}

func TestCheckProfileUseCase_PrintPlanOnly(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	uc := newCheckUseCase(t, f)

	_, err := f.service(t, "zosmf").Save(ctx, dto.SaveProfileRequest{Name: "lpar1", Profile: lpar1()})
	require.NoError(t, err)

	resp, err := uc.Execute(ctx, dto.CheckProfileRequest{Type: "zosmf", Name: "lpar1", PrintPlanOnly: true}, nil)
	require.NoError(t, err)
	assert.Nil(t, resp.Report)
	require.NotNil(t, resp.Plan)
	assert.Equal(t, 1, resp.Plan.CountTasks())
}

func TestCheckProfileUseCase_Errors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()
	f := newFixture(t)
	uc := newCheckUseCase(t, f)

	var cfgErr *apperrors.ConfigurationError
	_, err := uc.Execute(ctx, dto.CheckProfileRequest{Type: "tso", Name: "t1"}, nil)
	require.True(t, errors.As(err, &cfgErr))
	assert.Contains(t, err.Error(), "does not declare a validation plan")

	_, err = uc.Execute(ctx, dto.CheckProfileRequest{Type: "zosmf", Name: "ghost"}, nil)
	var notFound *apperrors.NotFoundError
	assert.True(t, errors.As(err, &notFound))

	_, err = uc.Execute(ctx, dto.CheckProfileRequest{Type: "nope"}, nil)
	assert.Error(t, err)

	broken := NewCheckProfileUseCase(f.service(t, "base"), planMap{}, validation.NewRunner("Imperative", nil), nil)
	_, err = broken.Execute(ctx, dto.CheckProfileRequest{Type: "zosmf", Name: "lpar1"}, nil)
	require.True(t, errors.As(err, &cfgErr))
}
