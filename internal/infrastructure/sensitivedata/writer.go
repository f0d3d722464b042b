package sensitivedata

import (
	"io"
	"sync"
)

// Scrubber removes sensitive content from text.
type Scrubber interface {
	ScrubString(input string) string
}

// Writer wraps an io.Writer and scrubs all data before writing.
// Safe for concurrent use.
type Writer struct {
	underlying io.Writer
	scrubber   Scrubber
	mu         sync.Mutex
}

// NewWriter creates a writer that scrubs with s. A nil scrubber passes data
// through unchanged.
func NewWriter(w io.Writer, s Scrubber) *Writer {
	return &Writer{
		underlying: w,
		scrubber:   s,
	}
}

// Write implements io.Writer. It reports len(p) on success even when the
// scrubbed text has a different length.
func (w *Writer) Write(p []byte) (int, error) {
	out := p
	if w.scrubber != nil {
		out = []byte(w.scrubber.ScrubString(string(p)))
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if _, err := w.underlying.Write(out); err != nil {
		return 0, err
	}
	return len(p), nil
}
