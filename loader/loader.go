// Package loader reads CHIP-8 ROM files from disk for the interpreter
// (§6): raw bytes, loaded at vm.LoadAddress, capped at vm.MaxROMSize.
package loader

import (
	"fmt"
	"os"

	"chip8emu/vm"
)

// Load reads path and validates it fits in RAM below vm.MaxROMSize.
func Load(path string) ([]byte, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- user-provided ROM path
	if err != nil {
		return nil, fmt.Errorf("failed to read ROM %q: %w", path, err)
	}
	if len(data) > vm.MaxROMSize {
		return nil, fmt.Errorf("ROM %q is %d bytes, exceeds maximum of %d", path, len(data), vm.MaxROMSize)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("ROM %q is empty", path)
	}
	return data, nil
}
