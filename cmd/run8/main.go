// Command run8 runs a CHIP-8 ROM in a terminal window (§5, §6).
//
// Exit codes:
//
//	0  clean exit (quit key or natural end of Run)
//	1  usage error
//	2  setup or runtime error (bad ROM, terminal init failure, fatal fault)
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"chip8emu/config"
	"chip8emu/loader"
	"chip8emu/term"
	"chip8emu/vm"
)

func main() {
	dumpStatePath := flag.String("dump-state", "", "write a JSON snapshot of VM state to this path on exit (diagnostic only, not a save/resume format)")
	configPath := flag.String("config", "", "path to a config.toml (default: platform config directory)")
	flag.Parse()

	if flag.NArg() != 1 {
		fmt.Fprintln(os.Stderr, "usage: run8 [-config path] [-dump-state path.json] <rom>")
		os.Exit(1)
	}
	romPath := flag.Arg(0)

	var cfg *config.Config
	var err error
	if *configPath != "" {
		cfg, err = config.LoadFrom(*configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(2)
	}

	rom, err := loader.Load(romPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%v\n", err)
		os.Exit(2)
	}

	backend, err := term.NewBackend(cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize terminal: %v\n", err)
		os.Exit(2)
	}
	defer backend.Close()

	machine, err := vm.New(rom, cfg, backend, backend, backend, &vm.RealClock{})
	if err != nil {
		backend.Close()
		fmt.Fprintf(os.Stderr, "failed to initialize VM: %v\n", err)
		os.Exit(2)
	}

	runErr := machine.Run()

	if *dumpStatePath != "" {
		if err := dumpState(machine, *dumpStatePath); err != nil {
			backend.Close()
			fmt.Fprintf(os.Stderr, "failed to write state dump: %v\n", err)
			os.Exit(2)
		}
	}

	backend.Close()

	if runErr != nil {
		fmt.Fprintf(os.Stderr, "runtime error: %v\n", runErr)
		os.Exit(2)
	}
}

// stateDump is a write-only diagnostic snapshot of VM state: it exists
// for post-mortem inspection, not for resuming execution, so it
// deliberately omits RAM contents and stack depth beyond what's useful
// to read by eye.
type stateDump struct {
	PC            uint16    `json:"pc"`
	I             uint16    `json:"i"`
	V             [16]byte  `json:"v"`
	DT            uint8     `json:"delay_timer"`
	ST            uint8     `json:"sound_timer"`
	SP            int       `json:"stack_pointer"`
	Stack         []uint16  `json:"stack"`
	WaitingForKey int       `json:"waiting_for_key"`
}

func dumpState(v *vm.VM, path string) error {
	d := stateDump{
		PC:            v.PC,
		I:             v.I,
		V:             v.V,
		DT:            v.DT,
		ST:            v.ST,
		SP:            v.SP,
		Stack:         v.Stack[:v.SP],
		WaitingForKey: v.WaitingForKey,
	}

	f, err := os.Create(path) // #nosec G304 -- user-specified diagnostic output path
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(d)
}
