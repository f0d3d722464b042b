package output

import (
	"io"

	"github.com/goccy/go-yaml"

	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/validation"
)

// YAMLFormatter renders reports and plans as YAML.
type YAMLFormatter struct {
	writer io.Writer
	opts   Options
}

// NewYAMLFormatter creates a new YAML formatter.
func NewYAMLFormatter(w io.Writer, opts Options) *YAMLFormatter {
	return &YAMLFormatter{writer: w, opts: opts}
}

// FormatReport writes the censored report.
func (f *YAMLFormatter) FormatReport(report *validation.Report, plan *validation.Plan) error {
	return f.encode(newReportView(f.opts.censorReport(report), plan))
}

// FormatPlan writes the censored profile and the plan.
func (f *YAMLFormatter) FormatPlan(profile entities.Profile, plan *validation.Plan) error {
	return f.encode(planView{Profile: f.opts.censorProfile(profile), Plan: plan})
}

func (f *YAMLFormatter) encode(v any) error {
	encoder := yaml.NewEncoder(f.writer, yaml.Indent(2))
	if err := encoder.Encode(v); err != nil {
		return err
	}
	return encoder.Close()
}
