package executor

import (
	"strings"
	"testing"
)

func TestTailBuffer(t *testing.T) {
	tests := []struct {
		name      string
		limit     int
		writes    []string
		want      string
		truncated bool
	}{
		{name: "unlimited", limit: 0, writes: []string{"abc", "def"}, want: "abcdef"},
		{name: "under limit", limit: 10, writes: []string{"abc", "def"}, want: "abcdef"},
		{name: "spills over", limit: 4, writes: []string{"abc", "def"}, want: "cdef", truncated: true},
		{name: "single large write", limit: 3, writes: []string{"abcdefgh"}, want: "fgh", truncated: true},
		{name: "exact limit", limit: 6, writes: []string{"abcdef"}, want: "abcdef"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &tailBuffer{limit: tt.limit}
			for _, w := range tt.writes {
				n, err := b.Write([]byte(w))
				if err != nil || n != len(w) {
					t.Fatalf("Write(%q) = %d, %v", w, n, err)
				}
			}
			if got := b.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
			if b.Truncated() != tt.truncated {
				t.Errorf("Truncated() = %v, want %v", b.Truncated(), tt.truncated)
			}
		})
	}
}

func TestTailBuffer_ManySmallWrites(t *testing.T) {
	b := &tailBuffer{limit: 5}
	for i := 0; i < 1000; i++ {
		_, _ = b.Write([]byte("x"))
	}
	_, _ = b.Write([]byte("END"))
	if got := b.String(); got != "xxEND" {
		t.Errorf("String() = %q, want %q", got, "xxEND")
	}
	if !strings.HasSuffix(b.String(), "END") {
		t.Errorf("expected tail to be kept")
	}
}
