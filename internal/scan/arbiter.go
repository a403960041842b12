package scan

import (
	"context"
	"sync"
	"time"
)

// State of the arbiter as observed by the hosting dialog.
type State string

const (
	StateIdle              State = "idle"
	StateCameraActive      State = "camera-active"
	StateBufferingKeyboard State = "buffering-keyboard"
	StateProcessing        State = "processing"
)

// DefaultCooldown guards against the same physical scan event firing
// through two channels back to back.
const DefaultCooldown = time.Second

// DefaultFrameInterval is how often the camera loop asks for a decode.
const DefaultFrameInterval = 200 * time.Millisecond

// FrameSource is the external camera decode capability. DecodeFrame
// returns the decoded text of the current frame, or an empty string when
// the frame holds no code. Frames without a code are routine, not errors.
type FrameSource interface {
	DecodeFrame(ctx context.Context) (string, error)
}

// ArbiterConfig carries the expected mode, timing knobs and the two
// workflow callbacks. Zero timing values take the package defaults.
type ArbiterConfig struct {
	Mode             Mode
	WedgeIdleTimeout time.Duration
	WedgeMinLength   int
	Cooldown         time.Duration
	FrameInterval    time.Duration

	// OnAccept receives the guarded record; OnReject receives the
	// operator-visible rejection reason. Neither fires after Close.
	OnAccept func(Record)
	OnReject func(reason string)
}

// Arbiter funnels the three concurrent input channels (camera loop,
// keyboard-wedge listener, manual submission) into at most one
// classification per physical scan. The processing flag and the keyboard
// buffer are its only mutable state; both live exactly as long as the
// hosting scan dialog.
type Arbiter struct {
	cfg ArbiterConfig

	mu         sync.Mutex
	processing bool
	cameraOn   bool
	closed     bool
	lastResult time.Time

	buf          *KeyboardBuffer
	cancelCamera context.CancelFunc
	wg           sync.WaitGroup
}

// NewArbiter creates an arbiter in the Idle state.
func NewArbiter(cfg ArbiterConfig) *Arbiter {
	if cfg.Mode == "" {
		cfg.Mode = ModeEither
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = DefaultCooldown
	}
	if cfg.FrameInterval <= 0 {
		cfg.FrameInterval = DefaultFrameInterval
	}

	a := &Arbiter{cfg: cfg}
	a.buf = NewKeyboardBuffer(cfg.WedgeIdleTimeout, cfg.WedgeMinLength, func(text string) {
		a.accept(Payload{Text: text, Channel: ChannelKeyboardWedge, CapturedAt: time.Now()})
	})
	return a
}

// State reports the current arbiter state.
func (a *Arbiter) State() State {
	a.mu.Lock()
	defer a.mu.Unlock()
	switch {
	case a.processing:
		return StateProcessing
	case a.buf.Len() > 0:
		return StateBufferingKeyboard
	case a.cameraOn:
		return StateCameraActive
	default:
		return StateIdle
	}
}

// StartCamera launches the camera decode loop. Decode results are
// discarded while a scan is already being processed.
func (a *Arbiter) StartCamera(src FrameSource) {
	a.mu.Lock()
	if a.closed || a.cameraOn {
		a.mu.Unlock()
		return
	}
	a.cameraOn = true
	ctx, cancel := context.WithCancel(context.Background())
	a.cancelCamera = cancel
	a.mu.Unlock()

	a.wg.Add(1)
	go a.cameraLoop(ctx, src)
}

func (a *Arbiter) cameraLoop(ctx context.Context, src FrameSource) {
	defer a.wg.Done()

	ticker := time.NewTicker(a.cfg.FrameInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			text, err := src.DecodeFrame(ctx)
			if err != nil || text == "" {
				continue
			}
			a.accept(Payload{Text: text, Channel: ChannelCamera, CapturedAt: time.Now()})
		}
	}
}

// HandleKey feeds one ambient keystroke into the wedge buffer. Keystrokes
// are ignored while focus sits inside a text input, and while a scan is
// being processed.
func (a *Arbiter) HandleKey(r rune, inputFocused bool) {
	if inputFocused {
		return
	}
	a.mu.Lock()
	busy := a.closed || a.processing
	a.mu.Unlock()
	if busy {
		return
	}
	a.buf.Append(r)
}

// HandleEnter feeds the burst terminator into the wedge buffer.
func (a *Arbiter) HandleEnter(inputFocused bool) {
	if inputFocused {
		return
	}
	a.buf.Enter()
}

// Submit is the manual entry channel: user-triggered, gated exactly like
// the ambient channels. It reports whether the payload was taken.
func (a *Arbiter) Submit(text string) bool {
	return a.accept(Payload{Text: text, Channel: ChannelManual, CapturedAt: time.Now()})
}

// SubmitDecoded feeds a single-shot decode result (an uploaded image)
// through the same gate.
func (a *Arbiter) SubmitDecoded(text string) bool {
	return a.accept(Payload{Text: text, Channel: ChannelFileDecode, CapturedAt: time.Now()})
}

// accept is the single serialization point. The Idle→Processing flip is
// atomic under the mutex, so at most one payload per physical scan event
// reaches classification regardless of which channels fire.
func (a *Arbiter) accept(p Payload) bool {
	a.mu.Lock()
	if a.closed || a.processing || time.Since(a.lastResult) < a.cfg.Cooldown {
		a.mu.Unlock()
		return false
	}
	a.processing = true
	a.mu.Unlock()

	decision := Guard(Classify(p.Text), a.cfg.Mode)

	a.mu.Lock()
	if a.closed {
		// Dialog closed mid-processing: drop the result, no callback.
		a.mu.Unlock()
		return false
	}
	a.processing = false
	a.lastResult = time.Now()
	a.mu.Unlock()

	if decision.Accepted {
		if a.cfg.OnAccept != nil {
			a.cfg.OnAccept(decision.Record)
		}
	} else {
		if a.cfg.OnReject != nil {
			a.cfg.OnReject(decision.Reason)
		}
	}
	return true
}

// Close tears the arbiter down: the camera loop stops, the keyboard
// buffer is cleared, and any in-flight processing result is discarded.
// No callback fires after Close returns.
func (a *Arbiter) Close() {
	a.mu.Lock()
	if a.closed {
		a.mu.Unlock()
		return
	}
	a.closed = true
	cancel := a.cancelCamera
	a.cancelCamera = nil
	a.cameraOn = false
	a.mu.Unlock()

	if cancel != nil {
		cancel()
	}
	a.buf.Close()
	a.wg.Wait()
}
