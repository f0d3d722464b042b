package ports

// SensitiveValueProvider collects the secret values seen while serving a
// command (hydrated secure fields, the vault identity) so output and errors
// can be scrubbed of them.
type SensitiveValueProvider interface {
	Track(value string)

	// AllValues returns the tracked values, longest first.
	AllValues() []string
}

// SecretResolver looks up named secrets from the settings file, the
// environment, or files. Resolved values are tracked.
type SecretResolver interface {
	Resolve(name string) (string, error)
}
