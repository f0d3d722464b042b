package validation

import (
	"context"
	"fmt"
	"net"
	"os"
	"strings"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
	"github.com/goccy/go-yaml"

	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/validation"
	"github.com/zowe/imperative-go/internal/domain/values"
)

// Expression limits for declarative checks.
const (
	maxExpressionLength = 1000
	maxASTNodes         = 100
)

// planDocument is the on-disk form of a declarative validation plan.
//
//	failureSuggestions: Check the host name and port.
//	tasks:
//	  - name: Host is set
//	    check: profile.host != nil && profile.host != ""
//	    dependentTasks:
//	      - name: Port is in range
//	        check: profile.port == nil || (profile.port > 0 && profile.port < 65536)
//	        onFailure: Warning
type planDocument struct {
	FailureSuggestions string         `yaml:"failureSuggestions"`
	Tasks              []taskDocument `yaml:"tasks"`
}

type taskDocument struct {
	Name           string         `yaml:"name"`
	Description    string         `yaml:"description"`
	Endpoints      []string       `yaml:"endpoints"`
	Check          string         `yaml:"check"`
	OnFailure      string         `yaml:"onFailure"`
	Success        string         `yaml:"success"`
	Failure        string         `yaml:"failure"`
	DependentTasks []taskDocument `yaml:"dependentTasks"`
}

// LoadPlanFile reads a declarative plan from a YAML file.
func LoadPlanFile(path string) (*validation.Plan, error) {
	//nolint:gosec // G304: plan paths come from the profile type configuration
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read validation plan %s: %w", path, err)
	}
	plan, err := ParsePlan(data)
	if err != nil {
		return nil, fmt.Errorf("validation plan %s: %w", path, err)
	}
	return plan, nil
}

// ParsePlan parses a declarative plan and compiles every check. Checks are
// expr expressions evaluated with the profile bound to "profile".
func ParsePlan(data []byte) (*validation.Plan, error) {
	var doc planDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse validation plan: %w", err)
	}
	if len(doc.Tasks) == 0 {
		return nil, validation.ErrEmptyPlan
	}

	plan := &validation.Plan{FailureSuggestions: strings.TrimSpace(doc.FailureSuggestions)}
	for i := range doc.Tasks {
		task, err := compileTask(&doc.Tasks[i])
		if err != nil {
			return nil, err
		}
		plan.Tasks = append(plan.Tasks, task)
	}
	return plan, nil
}

func compileTask(doc *taskDocument) (*validation.Task, error) {
	if strings.TrimSpace(doc.Name) == "" {
		return nil, fmt.Errorf("validation task is missing a name")
	}
	if strings.TrimSpace(doc.Check) == "" {
		return nil, fmt.Errorf("validation task %q is missing a check", doc.Name)
	}
	if len(doc.Check) > maxExpressionLength {
		return nil, fmt.Errorf("validation task %q: check too long (max %d chars): %d chars",
			doc.Name, maxExpressionLength, len(doc.Check))
	}

	onFailure := values.OutcomeFailed
	if doc.OnFailure != "" {
		o, err := values.ParseOutcome(doc.OnFailure)
		if err != nil {
			return nil, fmt.Errorf("validation task %q: %w", doc.Name, err)
		}
		onFailure = o
	}

	program, err := expr.Compile(doc.Check, exprOptions()...)
	if err != nil {
		return nil, fmt.Errorf("validation task %q: invalid check: %w", doc.Name, err)
	}

	task := &validation.Task{
		Name:                doc.Name,
		Description:         doc.Description,
		AssociatedEndpoints: doc.Endpoints,
		Check:               checkFunc(doc, program, onFailure),
	}
	if task.Description == "" {
		task.Description = "Checks that " + doc.Check
	}
	for i := range doc.DependentTasks {
		dep, err := compileTask(&doc.DependentTasks[i])
		if err != nil {
			return nil, err
		}
		task.DependentTasks = append(task.DependentTasks, dep)
	}
	return task, nil
}

func checkFunc(doc *taskDocument, program *vm.Program, onFailure values.Outcome) validation.TaskFunc {
	success := doc.Success
	if success == "" {
		success = doc.Name + " passed."
	}
	failure := doc.Failure
	if failure == "" {
		failure = fmt.Sprintf("%s did not pass: %s", doc.Name, doc.Check)
	}

	return func(_ context.Context, profile entities.Profile) (validation.TaskResult, error) {
		out, err := expr.Run(program, map[string]any{"profile": map[string]any(profile)})
		if err != nil {
			return validation.TaskResult{}, err
		}
		passed, ok := out.(bool)
		if !ok {
			return validation.TaskResult{}, fmt.Errorf("check returned %T, not a boolean", out)
		}
		if passed {
			return validation.TaskResult{Outcome: values.OutcomeOK, ResultDescription: success}, nil
		}
		return validation.TaskResult{Outcome: onFailure, ResultDescription: failure}, nil
	}
}

func exprOptions() []expr.Option {
	return []expr.Option{
		expr.Env(map[string]any{"profile": map[string]any{}}),
		expr.AsBool(),
		expr.MaxNodes(maxASTNodes),
		expr.Function("isIPv4", func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("isIPv4 expects 1 argument")
			}
			s, ok := params[0].(string)
			if !ok {
				return false, nil
			}
			ip := net.ParseIP(s)
			return ip != nil && ip.To4() != nil, nil
		}),
		expr.Function("isHost", func(params ...any) (any, error) {
			if len(params) != 1 {
				return nil, fmt.Errorf("isHost expects 1 argument")
			}
			s, ok := params[0].(string)
			if !ok || s == "" || len(s) > 253 {
				return false, nil
			}
			if net.ParseIP(s) != nil {
				return true, nil
			}
			for _, label := range strings.Split(s, ".") {
				if !validLabel(label) {
					return false, nil
				}
			}
			return true, nil
		}),
	}
}

func validLabel(label string) bool {
	if label == "" || len(label) > 63 || label[0] == '-' || label[len(label)-1] == '-' {
		return false
	}
	for _, r := range label {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-':
		default:
			return false
		}
	}
	return true
}
