// Package values contains value objects for the profile domain.
package values

import "strings"

// CredentialKey is the identifier a secure field is stored under in the
// credential store: "{type}_{name}_{dotted.path}".
type CredentialKey string

// NewCredentialKey builds the key for a secure field of a profile.
func NewCredentialKey(profileType, profileName, path string) CredentialKey {
	return CredentialKey(profileType + "_" + profileName + "_" + path)
}

// String returns the raw key.
func (k CredentialKey) String() string {
	return string(k)
}

// SecureValueSentinel is the placeholder written to disk in place of a secure
// value. Its presence tells the loader to fetch the value from the named
// credential manager.
func SecureValueSentinel(managerName string) string {
	return "managed by " + managerName
}

// IsSecureValueSentinel reports whether v is the placeholder for the named
// credential manager.
func IsSecureValueSentinel(v any, managerName string) bool {
	s, ok := v.(string)
	return ok && s == SecureValueSentinel(managerName)
}

// LooksLikeSentinel reports whether v is a placeholder written by any
// credential manager.
func LooksLikeSentinel(v any) bool {
	s, ok := v.(string)
	return ok && strings.HasPrefix(s, "managed by ")
}

// ProfileOptionName is the command option through which a dependency of the
// given type is named, e.g. "zosmf-profile".
func ProfileOptionName(profileType string) string {
	return profileType + "-profile"
}

// ProfileOptionAlias is the short alias of ProfileOptionName, e.g. "zosmf-p".
func ProfileOptionAlias(profileType string) string {
	return profileType + "-p"
}
