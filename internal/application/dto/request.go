// Package dto contains data transfer objects for application layer use cases.
package dto

import (
	"github.com/zowe/imperative-go/internal/domain/entities"
)

// Arguments are parsed command arguments keyed by option name. Values are
// strings, bools, numbers, or []string as produced by the command layer.
type Arguments map[string]any

// SaveProfileRequest encapsulates inputs for saving a new profile.
type SaveProfileRequest struct {
	Name    string
	Profile entities.Profile

	// Overwrite allows replacing an existing profile of the same name.
	Overwrite bool

	// UpdateDefault makes this profile the default for its type.
	UpdateDefault bool

	// Args are the parsed command arguments, when the request came from the
	// command line.
	Args Arguments
}

// LoadProfileRequest encapsulates inputs for loading a profile.
//
// Zero values select the usual behavior: a missing profile is an error and
// dependencies are loaded.
type LoadProfileRequest struct {
	Name string

	// LoadDefault loads the type's default profile instead of Name.
	LoadDefault bool

	// IgnoreNotFound returns an empty response marked FailNotFound=false
	// instead of an error when the profile is absent.
	IgnoreNotFound bool

	// SkipDependencies loads only the requested profile.
	SkipDependencies bool

	// NoSecure leaves secure fields as stored (sentinel values).
	NoSecure bool
}

// LoadAllProfilesRequest encapsulates inputs for loading every profile.
type LoadAllProfilesRequest struct {
	// TypeOnly restricts loading to the service's own type.
	TypeOnly bool

	// NoSecure leaves secure fields as stored.
	NoSecure bool
}

// UpdateProfileRequest encapsulates inputs for updating a profile.
type UpdateProfileRequest struct {
	Name    string
	Profile entities.Profile

	// Merge merges Profile into the stored document instead of replacing it.
	Merge bool

	Args Arguments
}

// DeleteProfileRequest encapsulates inputs for deleting a profile.
type DeleteProfileRequest struct {
	Name string

	// SkipDependencyCheck deletes even when other profiles require this one.
	SkipDependencyCheck bool
}

// ValidateProfileRequest encapsulates inputs for validating a profile.
type ValidateProfileRequest struct {
	Name    string
	Profile entities.Profile

	// Strict rejects properties the schema does not declare.
	Strict bool
}

// CheckProfileRequest asks for a stored profile to be run through its
// type's validation plan.
type CheckProfileRequest struct {
	Type string
	// Name is the profile to check; empty selects the type's default.
	Name string

	// PrintPlanOnly returns the plan without running it.
	PrintPlanOnly bool
}
