package scan

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type flushRecorder struct {
	mu      sync.Mutex
	flushes []string
}

func (f *flushRecorder) record(text string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.flushes = append(f.flushes, text)
}

func (f *flushRecorder) all() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.flushes...)
}

func typeString(b *KeyboardBuffer, s string) {
	for _, r := range s {
		b.Append(r)
	}
}

func TestKeyboardBuffer_FlushOnEnter(t *testing.T) {
	rec := &flushRecorder{}
	buf := NewKeyboardBuffer(50*time.Millisecond, 4, rec.record)
	defer buf.Close()

	typeString(buf, "9780441013593")
	buf.Enter()

	require.Equal(t, []string{"9780441013593"}, rec.all())
	assert.Equal(t, 0, buf.Len())
}

func TestKeyboardBuffer_FlushOnIdleTimeout(t *testing.T) {
	rec := &flushRecorder{}
	buf := NewKeyboardBuffer(30*time.Millisecond, 4, rec.record)
	defer buf.Close()

	typeString(buf, "LIB-BOOK-000123")
	time.Sleep(80 * time.Millisecond)

	assert.Equal(t, []string{"LIB-BOOK-000123"}, rec.all())
}

func TestKeyboardBuffer_ShortInputTimesOutSilently(t *testing.T) {
	rec := &flushRecorder{}
	buf := NewKeyboardBuffer(30*time.Millisecond, 4, rec.record)
	defer buf.Close()

	typeString(buf, "ab")
	time.Sleep(80 * time.Millisecond)

	assert.Empty(t, rec.all())
	assert.Equal(t, 0, buf.Len())
}

func TestKeyboardBuffer_ShortEnterClearsWithoutFlush(t *testing.T) {
	rec := &flushRecorder{}
	buf := NewKeyboardBuffer(50*time.Millisecond, 4, rec.record)
	defer buf.Close()

	typeString(buf, "ok")
	buf.Enter()

	assert.Empty(t, rec.all())
	assert.Equal(t, 0, buf.Len())
}

func TestKeyboardBuffer_ControlRunesIgnored(t *testing.T) {
	rec := &flushRecorder{}
	buf := NewKeyboardBuffer(50*time.Millisecond, 4, rec.record)
	defer buf.Close()

	buf.Append('\t')
	buf.Append('\n')
	typeString(buf, "CODE")
	buf.Enter()

	require.Equal(t, []string{"CODE"}, rec.all())
}

func TestKeyboardBuffer_NoFlushAfterClose(t *testing.T) {
	rec := &flushRecorder{}
	buf := NewKeyboardBuffer(30*time.Millisecond, 4, rec.record)

	typeString(buf, "9780441013593")
	buf.Close()
	time.Sleep(80 * time.Millisecond)

	assert.Empty(t, rec.all())
}
