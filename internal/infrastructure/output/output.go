// Package output renders profile validation reports and plans.
package output

import (
	"errors"
	"log/slog"

	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/validation"
)

// ErrPlanNotSupported is returned by formats that can only render reports.
var ErrPlanNotSupported = errors.New("format cannot display a validation plan")

// Formatter renders validation output.
type Formatter interface {
	// FormatReport writes the result of a validation run. plan may be nil.
	FormatReport(report *validation.Report, plan *validation.Plan) error
	// FormatPlan writes the tasks that would run against profile.
	FormatPlan(profile entities.Profile, plan *validation.Plan) error
}

// Censor hides secrets before anything reaches the writer.
type Censor interface {
	RedactProfile(profile entities.Profile, securePaths []string) entities.Profile
	ScrubString(input string) string
}

// Options configures formatters.
type Options struct {
	// Product names the tool the profile is used with.
	Product     string
	Version     string
	Indent      bool
	EnableColor bool
	// Censor may be nil, in which case output is written as is.
	Censor      Censor
	SecurePaths []string
	Logger      *slog.Logger
}

func (o Options) logger() *slog.Logger {
	if o.Logger == nil {
		return slog.Default()
	}
	return o.Logger
}

func (o Options) censorProfile(profile entities.Profile) entities.Profile {
	if o.Censor == nil {
		return profile
	}
	return o.Censor.RedactProfile(profile, o.SecurePaths)
}

func (o Options) scrub(s string) string {
	if o.Censor == nil {
		return s
	}
	return o.Censor.ScrubString(s)
}

// censorReport returns a copy of report with the profile and result text
// censored.
func (o Options) censorReport(report *validation.Report) *validation.Report {
	out := *report
	out.Profile = o.censorProfile(report.Profile)
	out.TaskResults = make([]validation.TaskResult, len(report.TaskResults))
	for i, r := range report.TaskResults {
		r.ResultDescription = o.scrub(r.ResultDescription)
		out.TaskResults[i] = r
	}
	return &out
}

// planView is the serialisable form of a plan shown with its profile.
type planView struct {
	Profile entities.Profile `json:"profile" yaml:"profile"`
	Plan    *validation.Plan `json:"plan" yaml:"plan"`
}

// reportView is the serialisable form of a report and its suggestions.
type reportView struct {
	ID                 string                  `json:"id" yaml:"id"`
	ProfileName        string                  `json:"profileName" yaml:"profileName"`
	ProfileType        string                  `json:"profileType" yaml:"profileType"`
	OverallResult      string                  `json:"overallResult" yaml:"overallResult"`
	OverallMessage     string                  `json:"overallMessage" yaml:"overallMessage"`
	TaskResults        []validation.TaskResult `json:"taskResults" yaml:"taskResults"`
	FailureSuggestions string                  `json:"failureSuggestions,omitempty" yaml:"failureSuggestions,omitempty"`
	Profile            entities.Profile        `json:"profile" yaml:"profile"`
}

func newReportView(report *validation.Report, plan *validation.Plan) reportView {
	view := reportView{
		ID:             report.ID.String(),
		ProfileName:    report.ProfileName,
		ProfileType:    report.ProfileType,
		OverallResult:  string(report.OverallResult),
		OverallMessage: report.OverallMessage,
		TaskResults:    report.TaskResults,
		Profile:        report.Profile,
	}
	if plan != nil && !report.OverallResult.IsOK() {
		view.FailureSuggestions = plan.FailureSuggestions
	}
	return view
}
