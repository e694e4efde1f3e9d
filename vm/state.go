package vm

import (
	"fmt"
	"math/rand"
	"time"

	"chip8emu/config"
)

// Quirks fixes the two configurable behaviors §9 calls out, set once at
// construction and never toggled mid-run (§4.8).
type Quirks struct {
	Fx55IncrementsI    bool
	ShiftCopyThenShift bool
}

// NoKeyWaiting is WaitingForKey's value when Fx0A has not suspended
// execution.
const NoKeyWaiting = -1

// VM holds the complete interpreter state (§3) plus the host
// collaborators it drives side effects through (§6).
type VM struct {
	RAM   [MemorySize]byte
	V     [NumRegisters]byte
	I     uint16
	PC    uint16
	Stack [StackSize]uint16
	SP    int

	DT uint8
	ST uint8

	Disp Display

	WaitingForKey int
	Running       bool

	Quirks Quirks
	Rand   *rand.Rand

	DisplayBackend DisplayBackend
	KeypadBackend  KeypadBackend
	AudioBackend   AudioBackend
	Clock          Clock

	instructionPeriod time.Duration
	timerPeriod       time.Duration
	lastTimerTick     time.Time
	audioGated        bool
}

// New constructs a VM with rom loaded at LoadAddress and the built-in
// font packed at FontBase, per §3/§6. Returns an error if rom exceeds
// MaxROMSize.
func New(rom []byte, cfg *config.Config, display DisplayBackend, keypad KeypadBackend, audio AudioBackend, clock Clock) (*VM, error) {
	if len(rom) > MaxROMSize {
		return nil, fmt.Errorf("rom too large: %d bytes exceeds max %d", len(rom), MaxROMSize)
	}

	v := &VM{
		PC:            LoadAddress,
		WaitingForKey: NoKeyWaiting,
		Running:       true,
		Rand:          rand.New(rand.NewSource(time.Now().UnixNano())),

		DisplayBackend: display,
		KeypadBackend:  keypad,
		AudioBackend:   audio,
		Clock:          clock,
	}

	v.Quirks.Fx55IncrementsI = cfg.Quirks.Fx55IncrementsI
	v.Quirks.ShiftCopyThenShift = cfg.Quirks.ShiftCopyThenShift

	instrHz := cfg.Clock.InstructionHz
	if instrHz <= 0 {
		instrHz = InstructionHz
	}
	timerHz := cfg.Clock.TimerHz
	if timerHz <= 0 {
		timerHz = TimerHz
	}
	v.instructionPeriod = time.Second / time.Duration(instrHz)
	v.timerPeriod = time.Second / time.Duration(timerHz)

	copy(v.RAM[FontBase:], Font[:])
	copy(v.RAM[LoadAddress:], rom)

	return v, nil
}
