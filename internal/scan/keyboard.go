package scan

import (
	"sync"
	"time"
	"unicode"
)

// Keyboard-wedge scanners transmit a whole code as a burst of keystrokes
// terminated by Enter. The buffer separates those bursts from ordinary
// typing by timing: the idle timeout is shorter than human inter-key
// delay but longer than a scanner's burst gaps.
const (
	DefaultWedgeIdleTimeout = 100 * time.Millisecond
	DefaultWedgeMinLength   = 4
)

// KeyboardBuffer accumulates keystrokes between flushes. It is owned by
// one Arbiter for the lifetime of an open scan dialog and never outlives
// it. A buffer that times out below the minimum length emits nothing.
type KeyboardBuffer struct {
	mu      sync.Mutex
	runes   []rune
	timer   *time.Timer
	idle    time.Duration
	min     int
	onFlush func(string)
	closed  bool
}

// NewKeyboardBuffer creates an empty buffer. onFlush is invoked with the
// accumulated text whenever a flush condition is met; it runs without the
// buffer lock held.
func NewKeyboardBuffer(idle time.Duration, minLength int, onFlush func(string)) *KeyboardBuffer {
	if idle <= 0 {
		idle = DefaultWedgeIdleTimeout
	}
	if minLength <= 0 {
		minLength = DefaultWedgeMinLength
	}
	return &KeyboardBuffer{
		idle:    idle,
		min:     minLength,
		onFlush: onFlush,
	}
}

// Append records one qualifying keystroke and restarts the idle timer.
// Control runes are ignored.
func (b *KeyboardBuffer) Append(r rune) {
	if unicode.IsControl(r) {
		return
	}

	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}

	b.runes = append(b.runes, r)

	if b.timer != nil {
		b.timer.Stop()
	}
	b.timer = time.AfterFunc(b.idle, b.expire)
}

// Enter handles the terminator a hardware scanner sends after a burst.
// The buffer flushes if it holds at least the minimum length, otherwise
// clears silently (a bare Enter from ordinary typing).
func (b *KeyboardBuffer) Enter() {
	b.flush()
}

// Len reports the number of buffered runes.
func (b *KeyboardBuffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.runes)
}

// Close clears the buffer and stops the idle timer. No flush fires after
// Close returns.
func (b *KeyboardBuffer) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.closed = true
	b.runes = nil
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
}

// expire fires on idle timeout: a burst followed by silence flushes, a
// short fragment of ordinary typing is dropped.
func (b *KeyboardBuffer) expire() {
	b.flush()
}

func (b *KeyboardBuffer) flush() {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return
	}
	if b.timer != nil {
		b.timer.Stop()
		b.timer = nil
	}
	text := string(b.runes)
	b.runes = nil
	b.mu.Unlock()

	if len(text) < b.min {
		return
	}
	if b.onFlush != nil {
		b.onFlush(text)
	}
}
