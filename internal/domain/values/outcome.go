package values

import (
	"fmt"
)

// Outcome is the result of a single validation task or of a whole plan.
type Outcome string

const (
	// OutcomeOK indicates the task succeeded
	OutcomeOK Outcome = "OK"
	// OutcomeWarning indicates the task could not be fully checked or was skipped
	OutcomeWarning Outcome = "Warning"
	// OutcomeFailed indicates the task failed
	OutcomeFailed Outcome = "Failed"
)

// Precedence returns the numeric precedence of this outcome.
// Higher values win when aggregating task outcomes.
//
// Precedence: Failed (2) > Warning (1) > OK (0)
func (o Outcome) Precedence() int {
	switch o {
	case OutcomeFailed:
		return 2
	case OutcomeWarning:
		return 1
	case OutcomeOK:
		return 0
	default:
		return -1
	}
}

// IsOK returns true if this outcome lets dependent tasks run
func (o Outcome) IsOK() bool {
	return o == OutcomeOK
}

// Validate returns an error if the outcome value is invalid
func (o Outcome) Validate() error {
	switch o {
	case OutcomeOK, OutcomeWarning, OutcomeFailed:
		return nil
	default:
		return fmt.Errorf("invalid outcome: %s", o)
	}
}

// Display returns the user facing label of the outcome.
func (o Outcome) Display() string {
	switch o {
	case OutcomeOK:
		return "Succeeded"
	case OutcomeWarning:
		return "Warning"
	case OutcomeFailed:
		return "Failed"
	default:
		return "Unknown"
	}
}

// WorstOutcome returns the outcome with the highest precedence, OK for none.
func WorstOutcome(outcomes ...Outcome) Outcome {
	worst := OutcomeOK
	for _, o := range outcomes {
		if o.Precedence() > worst.Precedence() {
			worst = o
		}
	}
	return worst
}

// ParseOutcome converts a string such as "warning" into an Outcome.
func ParseOutcome(s string) (Outcome, error) {
	switch s {
	case "OK", "ok", "Ok":
		return OutcomeOK, nil
	case "Warning", "warning", "WARNING":
		return OutcomeWarning, nil
	case "Failed", "failed", "FAILED":
		return OutcomeFailed, nil
	default:
		return "", fmt.Errorf("invalid outcome: %s", s)
	}
}
