package output

import (
	"fmt"
	"io"

	"github.com/owenrumney/go-sarif/v3/pkg/report/v210/sarif"

	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/validation"
)

const informationURI = "https://github.com/zowe/imperative-go"

// SARIFFormatter renders reports as SARIF 2.1.0 JSON. Tasks become rules and
// task results become results, so code scanning tools can show a profile
// check next to other findings.
type SARIFFormatter struct {
	writer io.Writer
	opts   Options
}

// NewSARIFFormatter creates a new SARIF formatter.
func NewSARIFFormatter(writer io.Writer, opts Options) *SARIFFormatter {
	return &SARIFFormatter{writer: writer, opts: opts}
}

// FormatReport writes the report as a single SARIF run.
func (f *SARIFFormatter) FormatReport(report *validation.Report, plan *validation.Plan) error {
	run := f.newRun()
	mapper := newSARIFMapper(f.opts.censorReport(report), plan)
	mapper.mapToRun(run)
	return f.write(run)
}

// FormatPlan writes a run that declares the plan's tasks as rules and has
// no results.
func (f *SARIFFormatter) FormatPlan(_ entities.Profile, plan *validation.Plan) error {
	run := f.newRun()
	newSARIFMapper(nil, plan).addRules(run)
	return f.write(run)
}

func (f *SARIFFormatter) newRun() *sarif.Run {
	product := f.opts.Product
	if product == "" {
		product = defaultProduct
	}
	run := sarif.NewRunWithInformationURI(product, informationURI)
	if f.opts.Version != "" {
		run.Tool.Driver.Version = ptrString(f.opts.Version)
	}
	return run
}

func (f *SARIFFormatter) write(run *sarif.Run) error {
	report := sarif.NewReport()
	report.AddRun(run)
	if err := report.Write(f.writer); err != nil {
		return fmt.Errorf("failed to write SARIF output: %w", err)
	}
	_, err := f.writer.Write([]byte("\n"))
	return err
}

func ptrString(s string) *string {
	return &s
}
