// Command dis8 disassembles a CHIP-8 ROM image into assembly text (§4.10).
//
// Exit codes:
//
//	0  success
//	1  usage error (wrong argument count)
//	2  read or write error
package main

import (
	"flag"
	"fmt"
	"os"

	"chip8emu/disasm"
	"chip8emu/loader"
	"chip8emu/vm"
)

func main() {
	listing := flag.Bool("listing", false, "annotate output with address/byte gutter (not reassemblable)")
	flag.Parse()

	if flag.NArg() != 2 {
		fmt.Fprintln(os.Stderr, "usage: dis8 [-listing] <input.ch8> <output.asm>")
		os.Exit(1)
	}

	inputPath, outputPath := flag.Arg(0), flag.Arg(1)

	rom, err := loader.Load(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	var text string
	if *listing {
		text = disasm.Listing(rom, vm.LoadAddress)
	} else {
		text = disasm.Disassemble(rom)
	}

	if err := os.WriteFile(outputPath, []byte(text), 0644); err != nil { // #nosec G306 -- disassembly output is not sensitive
		fmt.Fprintf(os.Stderr, "failed to write %q: %v\n", outputPath, err)
		os.Exit(2)
	}

	fmt.Printf("disassembled %d bytes -> %s\n", len(rom), outputPath)
}
