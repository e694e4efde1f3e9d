package vm_test

import (
	"testing"

	"chip8emu/config"
	"chip8emu/vm"
)

func TestNew_PacksFontAndROM(t *testing.T) {
	rom := []byte{0xAA, 0xBB}
	v, _, _, _ := newTestVM(t, rom)

	if v.RAM[vm.FontBase] != vm.Font[0] {
		t.Errorf("font not packed at FontBase")
	}
	if v.RAM[vm.LoadAddress] != 0xAA || v.RAM[vm.LoadAddress+1] != 0xBB {
		t.Errorf("rom not packed at LoadAddress")
	}
	if v.PC != vm.LoadAddress {
		t.Errorf("PC = 0x%04X, want 0x%04X", v.PC, vm.LoadAddress)
	}
	if v.WaitingForKey != vm.NoKeyWaiting {
		t.Errorf("WaitingForKey = %d, want NoKeyWaiting", v.WaitingForKey)
	}
	if !v.Running {
		t.Error("Running should start true")
	}
}

func TestNew_RejectsOversizedROM(t *testing.T) {
	rom := make([]byte, vm.MaxROMSize+1)
	_, err := vm.New(rom, config.DefaultConfig(), &fakeDisplay{}, &fakeKeypad{}, &fakeAudio{}, newFakeClock())
	if err == nil {
		t.Fatal("expected an error for a ROM exceeding MaxROMSize")
	}
}

func TestNew_QuirksFollowConfig(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.Quirks.Fx55IncrementsI = false
	cfg.Quirks.ShiftCopyThenShift = false

	v, err := vm.New(nil, cfg, &fakeDisplay{}, &fakeKeypad{}, &fakeAudio{}, newFakeClock())
	if err != nil {
		t.Fatalf("vm.New: %v", err)
	}
	if v.Quirks.Fx55IncrementsI {
		t.Error("Fx55IncrementsI should follow cfg (false)")
	}
	if v.Quirks.ShiftCopyThenShift {
		t.Error("ShiftCopyThenShift should follow cfg (false)")
	}
}
