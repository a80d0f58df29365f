package executor

import "bytes"

// tailBuffer is an io.Writer that retains at most limit trailing bytes.
// A limit of zero or less retains everything.
type tailBuffer struct {
	buf   bytes.Buffer
	limit int
	// dropped counts bytes discarded from the front.
	dropped int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	n := len(p)
	if t.limit > 0 && len(p) >= t.limit {
		t.dropped += t.buf.Len() + len(p) - t.limit
		t.buf.Reset()
		t.buf.Write(p[len(p)-t.limit:])
		return n, nil
	}

	t.buf.Write(p)
	if t.limit > 0 && t.buf.Len() > t.limit {
		excess := t.buf.Len() - t.limit
		t.dropped += excess
		t.buf.Next(excess)
	}
	return n, nil
}

func (t *tailBuffer) String() string {
	return t.buf.String()
}

// Truncated reports whether output was discarded.
func (t *tailBuffer) Truncated() bool {
	return t.dropped > 0
}
