package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/validation"
)

// JSONFormatter renders reports and plans as JSON.
type JSONFormatter struct {
	writer io.Writer
	opts   Options
}

// NewJSONFormatter creates a new JSON formatter.
func NewJSONFormatter(w io.Writer, opts Options) *JSONFormatter {
	return &JSONFormatter{writer: w, opts: opts}
}

// FormatReport writes the censored report.
func (f *JSONFormatter) FormatReport(report *validation.Report, plan *validation.Plan) error {
	return f.encode(newReportView(f.opts.censorReport(report), plan))
}

// FormatPlan writes the censored profile and the plan.
func (f *JSONFormatter) FormatPlan(profile entities.Profile, plan *validation.Plan) error {
	return f.encode(planView{Profile: f.opts.censorProfile(profile), Plan: plan})
}

func (f *JSONFormatter) encode(v any) error {
	encoder := json.NewEncoder(f.writer)
	if f.opts.Indent {
		encoder.SetIndent("", "  ")
	}
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}
