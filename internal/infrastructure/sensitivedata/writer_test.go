package sensitivedata_test

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zowe/imperative-go/internal/infrastructure/sensitivedata"
)

type replacer struct{ r *strings.Replacer }

func (r replacer) ScrubString(s string) string { return r.r.Replace(s) }

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("closed pipe") }

func TestWriter_ScrubsProfileListing(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	w := sensitivedata.NewWriter(&buf, replacer{strings.NewReplacer("Pa55w0rd", "[REDACTED]")})

	lines := []string{
		"lpar1 (default)\n",
		"host: mvs.example.com\n",
		"password: Pa55w0rd\n",
	}
	for _, line := range lines {
		n, err := w.Write([]byte(line))
		require.NoError(t, err)
		assert.Equal(t, len(line), n, "the caller's length is reported")
	}

	assert.Equal(t, "lpar1 (default)\nhost: mvs.example.com\npassword: [REDACTED]\n", buf.String())
}

func TestWriter_NilScrubberPassesThrough(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	w := sensitivedata.NewWriter(&buf, nil)

	_, err := w.Write([]byte("user: ibmuser\n"))
	require.NoError(t, err)
	assert.Equal(t, "user: ibmuser\n", buf.String())
}

func TestWriter_PropagatesErrors(t *testing.T) {
	t.Parallel()
	w := sensitivedata.NewWriter(failingWriter{}, nil)

	n, err := w.Write([]byte("x"))
	assert.Zero(t, n)
	assert.EqualError(t, err, "closed pipe")
}
