package converter

import (
	"strings"
	"sync"
	"unicode/utf8"
)

// captureLimit bounds how much child output is kept in memory
const captureLimit = 64 << 10

// cappedBuffer keeps the first limit bytes written to it and silently drops the rest.
// It is shared by the child's stdout and stderr copiers, hence the mutex.
type cappedBuffer struct {
	mu        sync.Mutex
	buf       []byte
	limit     int
	truncated bool
}

func newCappedBuffer(limit int) *cappedBuffer {
	return &cappedBuffer{limit: limit}
}

func (b *cappedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	room := b.limit - len(b.buf)
	if room <= 0 {
		b.truncated = b.truncated || len(p) > 0
		return len(p), nil
	}
	if len(p) > room {
		b.buf = append(b.buf, p[:room]...)
		b.truncated = true
		return len(p), nil
	}
	b.buf = append(b.buf, p...)
	return len(p), nil
}

func (b *cappedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return string(b.buf)
}

// TruncateOutput returns at most maxChars runes of s, with invalid UTF-8 replaced.
// A non-positive maxChars yields an empty string.
func TruncateOutput(s string, maxChars int) string {
	if maxChars <= 0 {
		return ""
	}
	s = strings.ToValidUTF8(s, "�")
	if utf8.RuneCountInString(s) <= maxChars {
		return s
	}
	n := 0
	for i := range s {
		if n == maxChars {
			return s[:i]
		}
		n++
	}
	return s
}
