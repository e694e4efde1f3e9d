// Package vm implements §3-§5: the CHIP-8 interpreter core — memory,
// registers, fetch-decode-execute, sprite drawing, and the dual-clock
// timing loop — decoupled from any concrete display/keypad/audio backend
// via the collaborator interfaces in backend.go.
package vm

const (
	// MemorySize is the total addressable RAM (§3).
	MemorySize = 4096
	// LoadAddress is where ROM bytes are placed at boot (§3, §6).
	LoadAddress = 0x200
	// MaxROMSize is the largest ROM that fits below MemorySize once
	// LoadAddress is reserved (§6).
	MaxROMSize = MemorySize - LoadAddress

	// DisplayWidth and DisplayHeight size the 64x32 boolean pixel grid
	// (§3, §4.9).
	DisplayWidth  = 64
	DisplayHeight = 32

	// NumRegisters is the count of general-purpose V0..VF registers.
	NumRegisters = 16
	// FlagRegister is VF, doubling as the carry/collision/borrow flag.
	FlagRegister = 0xF

	// StackSize is the number of 16-bit return-address stack slots (§3).
	StackSize = 16

	// NumKeys is the size of the hexadecimal keypad (§6).
	NumKeys = 16

	// FontGlyphBytes is the height in bytes of each built-in font glyph.
	FontGlyphBytes = 5
	// FontBase is where the built-in font is packed in RAM (§6).
	FontBase = 0x000
)

// Font is the canonical built-in 4x5 hex font (0..F), packed at
// ram[0x000..0x050] (§6).
var Font = [16 * FontGlyphBytes]byte{
	0xF0, 0x90, 0x90, 0x90, 0xF0, // 0
	0x20, 0x60, 0x20, 0x20, 0x70, // 1
	0xF0, 0x10, 0xF0, 0x80, 0xF0, // 2
	0xF0, 0x10, 0xF0, 0x10, 0xF0, // 3
	0x90, 0x90, 0xF0, 0x10, 0x10, // 4
	0xF0, 0x80, 0xF0, 0x10, 0xF0, // 5
	0xF0, 0x80, 0xF0, 0x90, 0xF0, // 6
	0xF0, 0x10, 0x20, 0x40, 0x40, // 7
	0xF0, 0x90, 0xF0, 0x90, 0xF0, // 8
	0xF0, 0x90, 0xF0, 0x10, 0xF0, // 9
	0xF0, 0x90, 0xF0, 0x90, 0x90, // A
	0xE0, 0x90, 0xE0, 0x90, 0xE0, // B
	0xF0, 0x80, 0x80, 0x80, 0xF0, // C
	0xE0, 0x90, 0x90, 0x90, 0xE0, // D
	0xF0, 0x80, 0xF0, 0x80, 0xF0, // E
	0xF0, 0x80, 0xF0, 0x80, 0x80, // F
}

// InstructionHz and TimerHz are the default dual-clock cadences (§5),
// overridden at construction time from config.Config.Clock.
const (
	InstructionHz = 500
	TimerHz       = 60
)
