package validation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/services"
	"github.com/zowe/imperative-go/internal/domain/values"
)

// ErrEmptyPlan is returned when a plan has no tasks to run.
var ErrEmptyPlan = errors.New("validation plan has no tasks: a plan needs at least one task to validate a profile")

// Runner executes validation plans one task at a time.
type Runner struct {
	product string
	logger  *slog.Logger
}

// NewRunner creates a runner. product names the CLI in report messages.
func NewRunner(product string, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{product: product, logger: logger}
}

// Validate runs plan against profile and returns the report.
//
// Tasks run sequentially starting from the top-level tasks. The dependents
// of a task run next, ahead of the remaining queue, but only when the task
// is OK; otherwise every descendant is recorded as a skipped Warning. A task
// that errors or panics is recorded as Failed. onProgress may be nil.
func (r *Runner) Validate(
	ctx context.Context,
	profile entities.Profile,
	plan *Plan,
	onProgress func(Progress),
) (*Report, error) {
	if plan == nil {
		return nil, ErrEmptyPlan
	}
	total := plan.CountTasks()
	if total == 0 {
		return nil, ErrEmptyPlan
	}

	report := &Report{
		ID:            values.NewReportID(),
		ProfileName:   profile.Name(),
		ProfileType:   profile.Type(),
		OverallResult: values.OutcomeOK,
		Profile:       profile,
	}
	r.logger.Debug("validating profile", "name", report.ProfileName, "type", report.ProfileType, "tasks", total)

	completed := 0
	emit := func(msg string) {
		if onProgress == nil {
			return
		}
		onProgress(Progress{
			Completed:       completed,
			Total:           total,
			PercentComplete: float64(completed) / float64(total) * 100,
			Message:         msg,
		})
	}

	var skip func(task *Task, cause string, outcome values.Outcome)
	skip = func(task *Task, cause string, outcome values.Outcome) {
		report.TaskResults = append(report.TaskResults, TaskResult{
			TaskName:            task.Name,
			Outcome:             values.OutcomeWarning,
			ResultDescription:   fmt.Sprintf("Skipped due to '%s' getting a result of %s", cause, outcome.Display()),
			AssociatedEndpoints: task.AssociatedEndpoints,
		})
		completed++
		for _, d := range task.DependentTasks {
			skip(d, cause, outcome)
		}
	}

	queue := append([]*Task(nil), plan.Tasks...)
	for len(queue) > 0 {
		if err := ctx.Err(); err != nil {
			return nil, fmt.Errorf("profile validation interrupted: %w", err)
		}
		current := queue[0]
		queue = queue[1:]

		emit(fmt.Sprintf("Checking '%s' (%d of %d)", current.Name, completed+1, total))

		result := r.runTask(ctx, current, profile)
		completed++
		report.TaskResults = append(report.TaskResults, result)
		report.OverallResult = values.WorstOutcome(report.OverallResult, result.Outcome)
		r.logger.Debug("validation task finished",
			"task", result.TaskName,
			"outcome", result.Outcome.Display(),
			"endpoints", strings.Join(result.AssociatedEndpoints, ", "))

		if len(current.DependentTasks) == 0 {
			continue
		}
		if result.Outcome.IsOK() {
			queue = append(append([]*Task(nil), current.DependentTasks...), queue...)
			continue
		}
		r.logger.Warn("validation task did not succeed; skipping dependent tasks", "task", current.Name)
		for _, d := range current.DependentTasks {
			skip(d, current.Name, result.Outcome)
		}
	}

	report.OverallMessage = r.overallMessage(report.OverallResult)
	emit("Profile validation complete")
	r.logger.Info("profile validation complete", "name", report.ProfileName, "result", report.OverallResult.Display())
	return report, nil
}

// runTask runs one task, converting errors, panics, and invalid outcomes
// into a Failed result.
func (r *Runner) runTask(ctx context.Context, task *Task, profile entities.Profile) (result TaskResult) {
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("validation task panicked", "task", task.Name, "panic", rec)
			result = failedResult(task, fmt.Errorf("%v", rec))
		}
	}()

	if task.Check == nil {
		return failedResult(task, fmt.Errorf("task %q has no check", task.Name))
	}

	res, err := task.Check(ctx, services.DeepCopyProfile(profile))
	if err != nil {
		r.logger.Error("validation task failed with an error", "task", task.Name, "error", err)
		return failedResult(task, err)
	}
	if err := res.Outcome.Validate(); err != nil {
		return failedResult(task, err)
	}
	res.TaskName = task.Name
	res.AssociatedEndpoints = task.AssociatedEndpoints
	return res
}

func failedResult(task *Task, err error) TaskResult {
	return TaskResult{
		TaskName:            task.Name,
		Outcome:             values.OutcomeFailed,
		ResultDescription:   "Encountered an unexpected exception: " + err.Error(),
		AssociatedEndpoints: task.AssociatedEndpoints,
	}
}

func (r *Runner) overallMessage(outcome values.Outcome) string {
	switch outcome {
	case values.OutcomeFailed:
		return "Your profile will not function fully with " + r.product
	case values.OutcomeWarning:
		return "Your profile might not function properly with " + r.product
	default:
		return "Your profile is valid and ready for use with " + r.product
	}
}
