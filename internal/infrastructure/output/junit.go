package output

import (
	"encoding/xml"
	"fmt"
	"io"
	"strings"

	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/validation"
	"github.com/zowe/imperative-go/internal/domain/values"
)

// JUnitFormatter renders reports as JUnit XML, one test case per task.
type JUnitFormatter struct {
	writer io.Writer
	opts   Options
}

// NewJUnitFormatter creates a new JUnit formatter.
func NewJUnitFormatter(w io.Writer, opts Options) *JUnitFormatter {
	return &JUnitFormatter{writer: w, opts: opts}
}

// JUnitTestSuites JUnit XML structures
type JUnitTestSuites struct {
	XMLName    xml.Name         `xml:"testsuites"`
	Name       string           `xml:"name,attr"`
	Tests      int              `xml:"tests,attr"`
	Failures   int              `xml:"failures,attr"`
	Errors     int              `xml:"errors,attr"`
	TestSuites []JUnitTestSuite `xml:"testsuite"`
}

type JUnitTestSuite struct {
	XMLName   xml.Name        `xml:"testsuite"`
	Name      string          `xml:"name,attr"`
	Tests     int             `xml:"tests,attr"`
	Failures  int             `xml:"failures,attr"`
	Errors    int             `xml:"errors,attr"`
	Skipped   int             `xml:"skipped,attr"`
	TestCases []JUnitTestCase `xml:"testcase"`
}

type JUnitTestCase struct {
	XMLName   xml.Name      `xml:"testcase"`
	Name      string        `xml:"name,attr"`
	ClassName string        `xml:"classname,attr"`
	Failure   *JUnitFailure `xml:"failure,omitempty"`
	Error     *JUnitError   `xml:"error,omitempty"`
	Skipped   *JUnitSkipped `xml:"skipped,omitempty"`
}

type JUnitFailure struct {
	Message string `xml:"message,attr"`
	Content string `xml:",chardata"`
}

type JUnitError struct {
	Message string `xml:"message,attr"`
	Content string `xml:",chardata"`
}

type JUnitSkipped struct {
	Message string `xml:"message,attr,omitempty"`
}

// FormatReport writes the report as a test suite named after the profile.
// Failed tasks are failures and tasks with warnings are skipped.
func (f *JUnitFormatter) FormatReport(report *validation.Report, _ *validation.Plan) error {
	report = f.opts.censorReport(report)
	counts := report.Counts()

	suite := JUnitTestSuite{
		Name:     fmt.Sprintf("%s profile %s", report.ProfileType, report.ProfileName),
		Tests:    len(report.TaskResults),
		Failures: counts.Failed,
		Skipped:  counts.Warnings,
	}
	for _, res := range report.TaskResults {
		c := JUnitTestCase{
			Name:      res.TaskName,
			ClassName: report.ProfileType,
		}
		switch res.Outcome {
		case values.OutcomeOK:
		case values.OutcomeWarning:
			c.Skipped = &JUnitSkipped{Message: res.ResultDescription}
		case values.OutcomeFailed:
			c.Failure = &JUnitFailure{Message: res.ResultDescription, Content: endpoints(res)}
		default:
			c.Error = &JUnitError{Message: res.ResultDescription, Content: endpoints(res)}
		}
		suite.TestCases = append(suite.TestCases, c)
	}

	suites := JUnitTestSuites{
		Name:       report.OverallMessage,
		Tests:      suite.Tests,
		Failures:   suite.Failures,
		TestSuites: []JUnitTestSuite{suite},
	}

	if _, err := f.writer.Write([]byte(xml.Header)); err != nil {
		return err
	}
	encoder := xml.NewEncoder(f.writer)
	encoder.Indent("", "  ")
	if err := encoder.Encode(suites); err != nil {
		return err
	}
	_, err := f.writer.Write([]byte("\n"))
	return err
}

// FormatPlan is not supported; JUnit only describes executed tests.
func (f *JUnitFormatter) FormatPlan(entities.Profile, *validation.Plan) error {
	return ErrPlanNotSupported
}

func endpoints(res validation.TaskResult) string {
	if len(res.AssociatedEndpoints) == 0 {
		return ""
	}
	return "Endpoints: " + strings.Join(res.AssociatedEndpoints, ", ")
}
