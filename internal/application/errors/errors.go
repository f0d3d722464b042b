// Package apperrors defines application-level error types.
package apperrors

import (
	"fmt"
	"strings"
)

// ValidationError indicates a profile failed structural or schema validation.
type ValidationError struct {
	Field   string   // Field (or profile) that failed validation
	Message string   // Error message
	Details []string // Individual violations
}

func (e *ValidationError) Error() string {
	if len(e.Details) == 0 {
		return fmt.Sprintf("validation failed: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation failed: %s: %s\n  - %s", e.Field, e.Message, strings.Join(e.Details, "\n  - "))
}

// NewValidationError creates a new validation error.
func NewValidationError(field, message string, details ...string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
		Details: details,
	}
}

// ConfigurationError indicates a profile type configuration or system setup issue.
type ConfigurationError struct {
	Cause   error
	Aspect  string
	Message string
}

func (e *ConfigurationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("configuration error (%s): %s: %v", e.Aspect, e.Message, e.Cause)
	}
	return fmt.Sprintf("configuration error (%s): %s", e.Aspect, e.Message)
}

func (e *ConfigurationError) Unwrap() error {
	return e.Cause
}

// NewConfigurationError creates a new configuration error.
func NewConfigurationError(aspect, message string, cause error) *ConfigurationError {
	return &ConfigurationError{
		Aspect:  aspect,
		Message: message,
		Cause:   cause,
	}
}

// NotFoundError indicates a profile (or default profile) does not exist.
type NotFoundError struct {
	Type    string
	Name    string
	Message string
}

func (e *NotFoundError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return fmt.Sprintf("profile %q of type %q does not exist", e.Name, e.Type)
}

// NewNotFoundError creates a new not found error.
func NewNotFoundError(profileType, name string) *NotFoundError {
	return &NotFoundError{Type: profileType, Name: name}
}

// ConflictError indicates a save would overwrite an existing profile.
type ConflictError struct {
	Type string
	Name string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("profile %q of type %q already exists and overwrite was not specified", e.Name, e.Type)
}

// NewConflictError creates a new conflict error.
func NewConflictError(profileType, name string) *ConflictError {
	return &ConflictError{Type: profileType, Name: name}
}

// CredentialManagerError indicates the credential store failed to save,
// load, or delete a secure field. Phase names the step of a multi-step
// operation that failed ("save", "delete", "load").
type CredentialManagerError struct {
	Cause       error
	Phase       string
	Field       string
	Type        string
	Name        string
	Instruction string
}

func (e *CredentialManagerError) Error() string {
	msg := fmt.Sprintf("Unable to %s the secure field %q associated with the profile %q of type %q.",
		e.Phase, e.Field, e.Name, e.Type)
	if e.Cause != nil {
		msg += " " + e.Cause.Error()
	}
	if e.Instruction != "" {
		msg += "\n" + e.Instruction
	}
	return msg
}

func (e *CredentialManagerError) Unwrap() error {
	return e.Cause
}

// NewCredentialManagerError creates a new credential manager error.
func NewCredentialManagerError(phase, profileType, name, field string, cause error) *CredentialManagerError {
	return &CredentialManagerError{
		Phase: phase,
		Type:  profileType,
		Name:  name,
		Field: field,
		Cause: cause,
	}
}

// DependencyIntegrityError indicates an operation would violate the
// dependency graph: a profile is still required by others, a dependency
// cannot be loaded, or a cycle was found.
type DependencyIntegrityError struct {
	Cause      error
	Type       string
	Name       string
	Message    string
	Dependents []string
}

func (e *DependencyIntegrityError) Error() string {
	var b strings.Builder
	b.WriteString(e.Message)
	for _, d := range e.Dependents {
		b.WriteString("\n")
		b.WriteString(d)
	}
	if e.Cause != nil {
		b.WriteString(": ")
		b.WriteString(e.Cause.Error())
	}
	return b.String()
}

func (e *DependencyIntegrityError) Unwrap() error {
	return e.Cause
}

// NewDependencyIntegrityError creates a new dependency integrity error.
func NewDependencyIntegrityError(profileType, name, message string, cause error) *DependencyIntegrityError {
	return &DependencyIntegrityError{
		Type:    profileType,
		Name:    name,
		Message: message,
		Cause:   cause,
	}
}

// ProfileIOError indicates the profile storage adapter failed.
type ProfileIOError struct {
	Cause error
	Op    string
	Path  string
}

func (e *ProfileIOError) Error() string {
	return fmt.Sprintf("profile I/O error (%s %s): %v", e.Op, e.Path, e.Cause)
}

func (e *ProfileIOError) Unwrap() error {
	return e.Cause
}

// NewProfileIOError creates a new profile I/O error.
func NewProfileIOError(op, path string, cause error) *ProfileIOError {
	return &ProfileIOError{Op: op, Path: path, Cause: cause}
}
