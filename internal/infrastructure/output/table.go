package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/validation"
	"github.com/zowe/imperative-go/internal/domain/values"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// Descriptions longer than this are cut in the table and logged in full.
const maxDescriptionLength = 500

const truncatedSuffix = "...(more info in log)"

// TableFormatter renders reports and plans for a terminal.
type TableFormatter struct {
	writer io.Writer
	opts   Options
}

// NewTableFormatter creates a new table formatter.
func NewTableFormatter(w io.Writer, opts Options) *TableFormatter {
	return &TableFormatter{writer: w, opts: opts}
}

func (f *TableFormatter) colorize(text, code string) string {
	if !f.opts.EnableColor {
		return text
	}
	return code + text + colorReset
}

func (f *TableFormatter) rule() string {
	return f.colorize(strings.Repeat("─", 80), colorGray)
}

// FormatReport writes the profile summary, one row per task, the tally and
// the overall verdict.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) FormatReport(report *validation.Report, plan *validation.Plan) error {
	if err := f.writeSummary(report.Profile); err != nil {
		return err
	}

	fmt.Fprintln(f.writer, f.colorize("Profile Validation Results:", colorBold))
	fmt.Fprintln(f.writer, f.rule())
	tw := tabwriter.NewWriter(f.writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tSTATUS\tDESCRIPTION\tENDPOINTS")
	for _, res := range report.TaskResults {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n",
			res.TaskName,
			f.status(res.Outcome),
			f.description(res.TaskName, res.ResultDescription),
			strings.Join(res.AssociatedEndpoints, ", "))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write validation results: %w", err)
	}
	fmt.Fprintln(f.writer, f.rule())
	fmt.Fprintln(f.writer)

	counts := report.Counts()
	fmt.Fprintf(f.writer, "Of %d tests, %d succeeded, %d failed, and %d had warnings or undetermined results.\n",
		len(report.TaskResults), counts.Succeeded, counts.Failed, counts.Warnings)
	if report.OverallResult.IsOK() {
		fmt.Fprintln(f.writer, f.colorize("   *~~ Perfect score! Wow! ~~*   ", colorGreen))
	}
	fmt.Fprintln(f.writer)

	fmt.Fprintln(f.writer, f.colorize(verdict(report, f.opts.Product), f.outcomeColor(report.OverallResult)))
	if plan != nil && plan.FailureSuggestions != "" && !report.OverallResult.IsOK() {
		fmt.Fprintln(f.writer)
		fmt.Fprintln(f.writer, f.colorize("Suggestions:", colorBold))
		for _, line := range strings.Split(plan.FailureSuggestions, "\n") {
			fmt.Fprintf(f.writer, "  %s\n", line)
		}
	}
	return nil
}

// FormatPlan writes the profile summary and the flattened task list.
//
//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) FormatPlan(profile entities.Profile, plan *validation.Plan) error {
	if err := f.writeSummary(profile); err != nil {
		return err
	}

	fmt.Fprintln(f.writer, f.colorize("Profile Validation Plan:", colorBold))
	fmt.Fprintln(f.writer, f.rule())
	tw := tabwriter.NewWriter(f.writer, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "TASK\tDESCRIPTION\tENDPOINTS")
	for _, task := range plan.Flatten() {
		fmt.Fprintf(tw, "%s\t%s\t%s\n", task.Name, task.Description, strings.Join(task.AssociatedEndpoints, ", "))
	}
	if err := tw.Flush(); err != nil {
		return fmt.Errorf("failed to write validation plan: %w", err)
	}
	fmt.Fprintln(f.writer, f.rule())
	return nil
}

//nolint:errcheck // Best-effort terminal output
func (f *TableFormatter) writeSummary(profile entities.Profile) error {
	data, err := json.MarshalIndent(f.opts.censorProfile(profile), "", "  ")
	if err != nil {
		return fmt.Errorf("failed to render profile summary: %w", err)
	}
	fmt.Fprintln(f.writer, f.colorize("Profile Summary:", colorBold))
	fmt.Fprintln(f.writer, string(data))
	fmt.Fprintln(f.writer)
	return nil
}

func (f *TableFormatter) status(o values.Outcome) string {
	return f.colorize(string(o), f.outcomeColor(o))
}

func (f *TableFormatter) outcomeColor(o values.Outcome) string {
	switch o {
	case values.OutcomeOK:
		return colorGreen
	case values.OutcomeWarning:
		return colorYellow
	default:
		return colorRed
	}
}

func (f *TableFormatter) description(task, desc string) string {
	desc = strings.ReplaceAll(f.opts.scrub(desc), "\n", " ")
	if len(desc) <= maxDescriptionLength {
		return desc
	}
	f.opts.logger().Info("validation task description", "task", task, "description", desc)
	return desc[:maxDescriptionLength-len(truncatedSuffix)] + truncatedSuffix
}

func verdict(report *validation.Report, product string) string {
	var state string
	switch report.OverallResult {
	case values.OutcomeOK:
		state = "is valid and ready for use with " + product
	case values.OutcomeWarning:
		state = "might not function properly with " + product
	default:
		state = "will not function fully with " + product
	}
	return fmt.Sprintf("The %s profile named %q %s.", report.ProfileType, report.ProfileName, state)
}
