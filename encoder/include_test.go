package encoder_test

import (
	"os"
	"path/filepath"
	"testing"

	"chip8emu/encoder"
)

func TestAssemble_IncludeConcatenatesBytes(t *testing.T) {
	dir := t.TempDir()
	includedPath := filepath.Join(dir, "data.inc")
	if err := os.WriteFile(includedPath, []byte(".byte 0xAB\n"), 0644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	src := "CLS\n.include \"data.inc\"\nRET\n"
	rom, _, err := encoder.Assemble(src, "main.asm", dir)
	if err != nil {
		t.Fatalf("Assemble: %v", err)
	}
	want := []byte{0x00, 0xE0, 0xAB, 0x00, 0xEE}
	if string(rom) != string(want) {
		t.Errorf("rom = % X, want % X", rom, want)
	}
}

func TestAssemble_IncludeCycleDetected(t *testing.T) {
	dir := t.TempDir()
	aPath := filepath.Join(dir, "a.inc")
	bPath := filepath.Join(dir, "b.inc")
	if err := os.WriteFile(aPath, []byte(".include \"b.inc\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile a: %v", err)
	}
	if err := os.WriteFile(bPath, []byte(".include \"a.inc\"\n"), 0644); err != nil {
		t.Fatalf("WriteFile b: %v", err)
	}

	src := ".include \"a.inc\"\n"
	_, _, err := encoder.Assemble(src, "main.asm", dir)
	if err == nil {
		t.Fatal("expected a cyclic-include error")
	}
}

func TestAssemble_MissingIncludeFileErrors(t *testing.T) {
	dir := t.TempDir()
	src := ".include \"nope.inc\"\n"
	_, _, err := encoder.Assemble(src, "main.asm", dir)
	if err == nil {
		t.Fatal("expected an error for a missing include target")
	}
}
