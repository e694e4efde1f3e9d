package vm

import "time"

// DisplayBackend presents a rendered frame to the host (§6). The VM calls
// Present after every opcode that can change the framebuffer (00E0,
// Dxyn), never more often than that.
type DisplayBackend interface {
	Present(frame *Display)
}

// KeypadBackend reports the live state of the 16-key hex keypad and
// surfaces discrete events the VM must observe once per tick (§5, §6).
type KeypadBackend interface {
	IsDown(key int) bool
	// PollRelease returns the next queued released key, if any, removing
	// it from the queue. Fx0A resolves on key-release, not key-press.
	PollRelease() (key int, ok bool)
	PollQuit() bool
}

// AudioBackend gates a continuous tone on or off; the interpreter never
// touches sample generation, only the gate (§5, §6).
type AudioBackend interface {
	SetGated(on bool)
}

// Clock abstracts the wall clock the main loop paces itself against
// (§5), so the 500Hz/60Hz cadence is testable without real sleeps: a
// fake clock lets tests advance time deterministically instead of
// sleeping in wall-clock time.
type Clock interface {
	Now() time.Time
	Sleep(d time.Duration)
}
