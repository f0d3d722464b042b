// Package values contains domain value objects that encapsulate
// primitive types with validation and such.
package values

import (
	"fmt"

	"github.com/google/uuid"
)

// ReportID identifies one profile validation report.
type ReportID struct {
	value uuid.UUID
}

// NewReportID creates a new random report ID
func NewReportID() ReportID {
	return ReportID{value: uuid.New()}
}

// ParseReportID parses a string into a ReportID
func ParseReportID(s string) (ReportID, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return ReportID{}, fmt.Errorf("invalid report ID: %w", err)
	}
	return ReportID{value: id}, nil
}

// String returns the string representation
func (r ReportID) String() string {
	return r.value.String()
}

// IsZero returns true if this is the zero value
func (r ReportID) IsZero() bool {
	return r.value == uuid.Nil
}

// MarshalText implements encoding.TextMarshaler so the ID renders as a
// plain string in JSON and YAML.
func (r ReportID) MarshalText() ([]byte, error) {
	return []byte(r.value.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (r *ReportID) UnmarshalText(data []byte) error {
	id, err := ParseReportID(string(data))
	if err != nil {
		return err
	}
	*r = id
	return nil
}
