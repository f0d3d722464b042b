package dto

import (
	"github.com/zowe/imperative-go/internal/domain/entities"
	"github.com/zowe/imperative-go/internal/domain/validation"
)

// SaveProfileResponse contains the result of a save.
type SaveProfileResponse struct {
	Message     string
	Path        string
	Overwritten bool
	// Profile is the document as given, secure values included.
	Profile entities.Profile
}

// UpdateProfileResponse contains the result of an update.
type UpdateProfileResponse struct {
	Message string
	Path    string
	// Profile is the updated document as written (secure values as sentinels).
	Profile entities.Profile
}

// DeleteProfileResponse contains the result of a delete.
type DeleteProfileResponse struct {
	Message        string
	Path           string
	DefaultCleared bool
}

// ValidateProfileResponse contains the result of a validation.
type ValidateProfileResponse struct {
	Message string
}

// InitializeResponse reports one type initialized in a profile root.
type InitializeResponse struct {
	Message string
	Type    string
	Path    string
}

// CheckProfileResponse carries the plan and, unless only the plan was
// requested, the validation report.
type CheckProfileResponse struct {
	ProfileType string
	ProfileName string
	Profile     entities.Profile
	Plan        *validation.Plan
	Report      *validation.Report
}
