package vm_test

import (
	"time"

	"chip8emu/vm"
)

// fakeClock advances only when Sleep is called, so tests drive the
// 500Hz/60Hz cadence deterministically instead of sleeping in real time.
type fakeClock struct {
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Unix(0, 0)}
}

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
}

// fakeDisplay records every presented frame for assertions.
type fakeDisplay struct {
	presents int
	last     [vm.DisplayHeight][vm.DisplayWidth]bool
}

func (d *fakeDisplay) Present(frame *vm.Display) {
	d.presents++
	for y := 0; y < vm.DisplayHeight; y++ {
		for x := 0; x < vm.DisplayWidth; x++ {
			d.last[y][x] = frame.At(x, y)
		}
	}
}

// fakeKeypad lets tests script key-down state and release events.
type fakeKeypad struct {
	down     [vm.NumKeys]bool
	releases []int
	quit     bool
}

func (k *fakeKeypad) IsDown(key int) bool { return k.down[key] }
func (k *fakeKeypad) PollRelease() (int, bool) {
	if len(k.releases) == 0 {
		return 0, false
	}
	key := k.releases[0]
	k.releases = k.releases[1:]
	return key, true
}
func (k *fakeKeypad) PollQuit() bool { return k.quit }

type fakeAudio struct {
	gated bool
	calls int
}

func (a *fakeAudio) SetGated(on bool) {
	a.gated = on
	a.calls++
}
