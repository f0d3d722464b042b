package output

import (
	"fmt"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/zowe/imperative-go/internal/domain/validation"
	"github.com/zowe/imperative-go/internal/domain/values"
)

type sarifMapper struct {
	report *validation.Report
	plan   *validation.Plan
	// descriptions of tasks by name, used for rules when there is no plan
	rules map[string]string
}

func newSARIFMapper(report *validation.Report, plan *validation.Plan) *sarifMapper {
	return &sarifMapper{report: report, plan: plan, rules: make(map[string]string)}
}

// mapToRun populates the run with rules, results, an invocation and the
// profile.
func (m *sarifMapper) mapToRun(run *sarif.Run) {
	m.addRules(run)
	m.addResults(run)
	m.addInvocation(run)
	m.addProperties(run)
}

// addRules declares one rule per distinct task name. Plan order wins; tasks
// only known from results follow.
func (m *sarifMapper) addRules(run *sarif.Run) {
	var order []string
	if m.plan != nil {
		for _, task := range m.plan.Flatten() {
			if _, seen := m.rules[task.Name]; !seen {
				order = append(order, task.Name)
			}
			m.rules[task.Name] = task.Description
		}
	}
	if m.report != nil {
		for _, res := range m.report.TaskResults {
			if _, seen := m.rules[res.TaskName]; !seen {
				order = append(order, res.TaskName)
				m.rules[res.TaskName] = ""
			}
		}
	}

	for _, name := range order {
		name := name
		rule := sarif.NewReportingDescriptor().WithID(name)
		rule.WithName(name)
		rule.WithShortDescription(&sarif.MultiformatMessageString{Text: &name})

		desc := m.rules[name]
		if desc == "" {
			desc = name
		}
		rule.WithFullDescription(&sarif.MultiformatMessageString{Text: &desc})
		rule.WithDefaultConfiguration(&sarif.ReportingConfiguration{Level: "error"})
		run.Tool.Driver.AddRule(rule)
	}
}

func (m *sarifMapper) addResults(run *sarif.Run) {
	for _, res := range m.report.TaskResults {
		result := sarif.NewRuleResult(res.TaskName)
		result.Level = mapOutcomeToLevel(res.Outcome)
		result.Kind = mapOutcomeToKind(res.Outcome)

		msg := res.ResultDescription
		if msg == "" {
			msg = fmt.Sprintf("Task %s completed with result %s", res.TaskName, res.Outcome.Display())
		}
		result.Message = sarif.NewTextMessage(msg)

		props := sarif.NewPropertyBag()
		props.Add("outcome", string(res.Outcome))
		if len(res.AssociatedEndpoints) > 0 {
			props.Add("endpoints", res.AssociatedEndpoints)
		}
		result.WithProperties(props)

		run.AddResult(result)
	}
}

func (m *sarifMapper) addInvocation(run *sarif.Run) {
	invocation := sarif.NewInvocation()
	invocation.ExecutionSuccessful = ptrBool(m.report.OverallResult != values.OutcomeFailed)

	props := sarif.NewPropertyBag()
	props.Add("reportId", m.report.ID.String())
	props.Add("profileName", m.report.ProfileName)
	props.Add("profileType", m.report.ProfileType)
	props.Add("overallResult", string(m.report.OverallResult))
	props.Add("overallMessage", m.report.OverallMessage)
	invocation.WithProperties(props)

	run.AddInvocation(invocation)
}

func (m *sarifMapper) addProperties(run *sarif.Run) {
	counts := m.report.Counts()
	props := sarif.NewPropertyBag()
	props.Add("profile", m.report.Profile)
	props.Add("succeeded", counts.Succeeded)
	props.Add("failed", counts.Failed)
	props.Add("warnings", counts.Warnings)
	if m.plan != nil && m.plan.FailureSuggestions != "" && !m.report.OverallResult.IsOK() {
		props.Add("failureSuggestions", m.plan.FailureSuggestions)
	}
	run.WithProperties(props)
}

func mapOutcomeToLevel(o values.Outcome) string {
	switch o {
	case values.OutcomeOK:
		return "note"
	case values.OutcomeWarning:
		return "warning"
	default:
		return "error"
	}
}

func mapOutcomeToKind(o values.Outcome) string {
	switch o {
	case values.OutcomeOK:
		return "pass"
	case values.OutcomeWarning:
		return "review"
	default:
		return "fail"
	}
}

func ptrBool(b bool) *bool {
	return &b
}
