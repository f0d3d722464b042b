package sensitivedata

import (
	"strings"

	"github.com/zowe/imperative-go/internal/application/ports"
)

const redacted = "[REDACTED]"

// redactedError carries a scrubbed message while keeping the original error
// reachable for errors.Is and errors.As.
type redactedError struct {
	msg string
	err error
}

func (e *redactedError) Error() string { return e.msg }

func (e *redactedError) Unwrap() error { return e.err }

// SafeError replaces tracked values in err's message. err is returned as is
// when nothing needed replacing.
func SafeError(err error, provider ports.SensitiveValueProvider) error {
	if err == nil || provider == nil {
		return err
	}

	msg := err.Error()
	scrubbed := msg
	for _, secret := range provider.AllValues() {
		scrubbed = strings.ReplaceAll(scrubbed, secret, redacted)
	}
	if scrubbed == msg {
		return err
	}
	return &redactedError{msg: scrubbed, err: err}
}
