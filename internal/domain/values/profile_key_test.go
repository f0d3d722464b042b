package values

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_NewCredentialKey(t *testing.T) {
	t.Parallel()
	key := NewCredentialKey("zosmf", "lpar1", "auth.password")
	assert.Equal(t, "zosmf_lpar1_auth.password", key.String())
}

func Test_SecureValueSentinel(t *testing.T) {
	t.Parallel()
	s := SecureValueSentinel("vault")
	assert.Equal(t, "managed by vault", s)
	assert.True(t, IsSecureValueSentinel(s, "vault"))
	assert.False(t, IsSecureValueSentinel(s, "memory"))
	assert.False(t, IsSecureValueSentinel(42, "vault"))
	assert.True(t, LooksLikeSentinel("managed by memory"))
	assert.False(t, LooksLikeSentinel("hunter2"))
}

func Test_ProfileOptionName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "tso-profile", ProfileOptionName("tso"))
	assert.Equal(t, "tso-p", ProfileOptionAlias("tso"))
}
