package config_test

import (
	"path/filepath"
	"testing"

	"chip8emu/config"
)

func TestDefaultConfig_MatchesSpecDefaults(t *testing.T) {
	cfg := config.DefaultConfig()
	if !cfg.Quirks.Fx55IncrementsI {
		t.Error("Fx55IncrementsI default should be true")
	}
	if !cfg.Quirks.ShiftCopyThenShift {
		t.Error("ShiftCopyThenShift default should be true")
	}
	if cfg.Clock.InstructionHz != 500 {
		t.Errorf("InstructionHz = %d, want 500", cfg.Clock.InstructionHz)
	}
	if cfg.Clock.TimerHz != 60 {
		t.Errorf("TimerHz = %d, want 60", cfg.Clock.TimerHz)
	}
}

func TestLoadFrom_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := config.LoadFrom(filepath.Join(t.TempDir(), "nonexistent.toml"))
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if cfg.Clock.InstructionHz != config.DefaultConfig().Clock.InstructionHz {
		t.Error("expected defaults when the config file is missing")
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := config.DefaultConfig()
	cfg.Display.Scale = 3
	cfg.Quirks.ShiftCopyThenShift = false

	if err := cfg.SaveTo(path); err != nil {
		t.Fatalf("SaveTo: %v", err)
	}

	loaded, err := config.LoadFrom(path)
	if err != nil {
		t.Fatalf("LoadFrom: %v", err)
	}
	if loaded.Display.Scale != 3 {
		t.Errorf("Display.Scale = %d, want 3", loaded.Display.Scale)
	}
	if loaded.Quirks.ShiftCopyThenShift {
		t.Error("ShiftCopyThenShift should have round-tripped as false")
	}
}
