package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"chip8emu/loader"
	"chip8emu/vm"
)

func TestLoad_ReadsFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rom.ch8")
	want := []byte{0x00, 0xE0, 0x12, 0x00}
	if err := os.WriteFile(path, want, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, err := loader.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if string(got) != string(want) {
		t.Errorf("Load = % X, want % X", got, want)
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := loader.Load(filepath.Join(t.TempDir(), "missing.ch8")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

func TestLoad_EmptyFileRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "empty.ch8")
	if err := os.WriteFile(path, nil, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := loader.Load(path); err == nil {
		t.Fatal("expected an error for an empty ROM")
	}
}

func TestLoad_OversizedFileRejected(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "big.ch8")
	data := make([]byte, vm.MaxROMSize+1)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, err := loader.Load(path); err == nil {
		t.Fatal("expected an error for a ROM exceeding MaxROMSize")
	}
}
