// Package config loads and saves toolchain configuration: interpreter
// quirks, clock rates, and display colors. It follows a TOML-backed
// pattern of default values, a platform-specific config path, and
// lenient load-missing-as-defaults behavior.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/BurntSushi/toml"
)

// Config holds every ambient knob the interpreter and assembler read at
// startup. It is never mutated mid-run (§4.8).
type Config struct {
	Quirks struct {
		// Fx55IncrementsI selects the Fx55/Fx65 I-advance variant (§9);
		// true matches this spec's default ("I advances by x+1").
		Fx55IncrementsI bool `toml:"fx55_increments_i"`
		// ShiftCopyThenShift selects the 8xy6/8xyE source-of-shift variant
		// (§9); true is the "modern" copy-Vy-then-shift behavior this
		// spec documents as its default.
		ShiftCopyThenShift bool `toml:"shift_copy_then_shift"`
	} `toml:"quirks"`

	Clock struct {
		InstructionHz int `toml:"instruction_hz"` // target fetch/execute cadence (§5)
		TimerHz       int `toml:"timer_hz"`       // DT/ST decrement + audio-gate cadence (§5)
	} `toml:"clock"`

	Display struct {
		OnColor  string `toml:"on_color"`  // terminal color name for set pixels
		OffColor string `toml:"off_color"` // terminal color name for clear pixels
		Scale    int    `toml:"scale"`     // terminal cells per logical pixel
	} `toml:"display"`

	Audio struct {
		FrequencyHz float64 `toml:"frequency_hz"`
		Amplitude   float64 `toml:"amplitude"`
	} `toml:"audio"`
}

// DefaultConfig returns the configuration this spec's semantics assume
// (§4.8, §5, §6) when no config file is present.
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Quirks.Fx55IncrementsI = true
	cfg.Quirks.ShiftCopyThenShift = true

	cfg.Clock.InstructionHz = 500
	cfg.Clock.TimerHz = 60

	cfg.Display.OnColor = "white"
	cfg.Display.OffColor = "black"
	cfg.Display.Scale = 1

	cfg.Audio.FrequencyHz = 440.0
	cfg.Audio.Amplitude = 0.1

	return cfg
}

// GetConfigPath returns the platform-specific config file path, using an
// XDG-ish layout: ~/.config/chip8emu/config.toml on Linux/macOS, %APPDATA%
// on Windows.
func GetConfigPath() string {
	var configDir string

	switch runtime.GOOS {
	case "windows":
		configDir = os.Getenv("APPDATA")
		if configDir == "" {
			configDir = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		configDir = filepath.Join(configDir, "chip8emu")

	case "darwin", "linux":
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.toml"
		}
		configDir = filepath.Join(homeDir, ".config", "chip8emu")

	default:
		return "config.toml"
	}

	if err := os.MkdirAll(configDir, 0750); err != nil {
		return "config.toml"
	}

	return filepath.Join(configDir, "config.toml")
}

// Load loads configuration from the default config file. A missing file
// is not an error: Load returns defaults, since a config file is optional.
func Load() (*Config, error) {
	return LoadFrom(GetConfigPath())
}

// LoadFrom loads configuration from path, falling back to defaults for
// any field the file doesn't set.
func LoadFrom(path string) (*Config, error) {
	cfg := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to the default config file.
func (c *Config) Save() error {
	return c.SaveTo(GetConfigPath())
}

// SaveTo writes the configuration to path in TOML form.
func (c *Config) SaveTo(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	f, err := os.Create(path) // #nosec G304 -- user config file path
	if err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	defer f.Close()

	enc := toml.NewEncoder(f)
	if err := enc.Encode(c); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	return nil
}
