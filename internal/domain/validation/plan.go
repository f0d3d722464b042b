// Package validation models profile validation plans and runs them.
package validation

import (
	"context"

	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/values"
)

// TaskFunc checks one aspect of a profile. A returned error is recorded as
// a Failed result for the task.
type TaskFunc func(ctx context.Context, profile entities.Profile) (TaskResult, error)

// Task is one node of a validation plan. DependentTasks run only when the
// task succeeds.
type Task struct {
	Name                string   `json:"name" yaml:"name"`
	Description         string   `json:"description" yaml:"description"`
	AssociatedEndpoints []string `json:"associatedEndpoints,omitempty" yaml:"associatedEndpoints,omitempty"`
	DependentTasks      []*Task  `json:"dependentTasks,omitempty" yaml:"dependentTasks,omitempty"`

	Check TaskFunc `json:"-" yaml:"-"`
}

// Plan is the tree of tasks used to validate profiles of one type.
type Plan struct {
	Tasks []*Task `json:"tasks" yaml:"tasks"`

	// FailureSuggestions is shown when the overall result is not OK.
	FailureSuggestions string `json:"failureSuggestions,omitempty" yaml:"failureSuggestions,omitempty"`
}

// Flatten returns every task, each followed by its dependents.
func (p *Plan) Flatten() []*Task {
	var out []*Task
	var add func(t *Task)
	add = func(t *Task) {
		out = append(out, t)
		for _, d := range t.DependentTasks {
			add(d)
		}
	}
	for _, t := range p.Tasks {
		add(t)
	}
	return out
}

// CountTasks returns the number of tasks in the plan, dependents included.
func (p *Plan) CountTasks() int {
	return len(p.Flatten())
}

// TaskResult is the outcome of one task.
type TaskResult struct {
	TaskName            string         `json:"taskName" yaml:"taskName"`
	Outcome             values.Outcome `json:"outcome" yaml:"outcome"`
	ResultDescription   string         `json:"resultDescription" yaml:"resultDescription"`
	AssociatedEndpoints []string       `json:"associatedEndpoints,omitempty" yaml:"associatedEndpoints,omitempty"`
}

// Report is the result of validating one profile.
type Report struct {
	ID             values.ReportID  `json:"id" yaml:"id"`
	ProfileName    string           `json:"profileName" yaml:"profileName"`
	ProfileType    string           `json:"profileType" yaml:"profileType"`
	OverallResult  values.Outcome   `json:"overallResult" yaml:"overallResult"`
	OverallMessage string           `json:"overallMessage" yaml:"overallMessage"`
	TaskResults    []TaskResult     `json:"taskResults" yaml:"taskResults"`
	Profile        entities.Profile `json:"profile" yaml:"profile"`
}

// Counts tallies task results by outcome.
type Counts struct {
	Succeeded int
	Failed    int
	Warnings  int
}

// Counts returns the number of results per outcome.
func (r *Report) Counts() Counts {
	var c Counts
	for _, res := range r.TaskResults {
		switch res.Outcome {
		case values.OutcomeOK:
			c.Succeeded++
		case values.OutcomeFailed:
			c.Failed++
		case values.OutcomeWarning:
			c.Warnings++
		}
	}
	return c
}

// Progress describes how far a run has got.
type Progress struct {
	Completed       int
	Total           int
	PercentComplete float64
	Message         string
}
