// Command asm8 assembles CHIP-8 source text into a raw ROM image (§6).
//
// Exit codes:
//
//	0  success
//	1  usage error (wrong argument count)
//	2  assembly failure (input unreadable, syntax error, unknown instruction,
//	   overflow, ...)
//	3  output write failure
package main

import (
	"fmt"
	"os"

	"chip8emu/encoder"
	"chip8emu/parser"
)

func main() {
	if len(os.Args) != 3 {
		fmt.Fprintln(os.Stderr, "usage: asm8 <input.asm> <output.ch8>")
		os.Exit(1)
	}

	inputPath, outputPath := os.Args[1], os.Args[2]

	rom, warnings, asmErr := encoder.AssembleFile(inputPath)
	if warnings != nil {
		fmt.Fprint(os.Stderr, warnings.PrintWarnings())
	}
	if asmErr != nil {
		if asmErr.Kind == parser.ErrReadError {
			fmt.Fprintf(os.Stderr, "%v\n", asmErr)
			os.Exit(2)
		}
		fmt.Fprint(os.Stderr, asmErr.Diagnostic())
		os.Exit(2)
	}

	if err := os.WriteFile(outputPath, rom, 0644); err != nil { // #nosec G306 -- ROM output is not sensitive
		fmt.Fprintf(os.Stderr, "failed to write %q: %v\n", outputPath, err)
		os.Exit(3)
	}

	fmt.Printf("assembled %d bytes -> %s\n", len(rom), outputPath)
}
