package vm

import "fmt"

// Tick implements one iteration of §5's ordering guarantee: event polling
// -> timer tick (if due) -> suspension check -> fetch -> execute -> sleep.
func (v *VM) Tick() error {
	if v.KeypadBackend.PollQuit() {
		v.Running = false
		return nil
	}
	if v.WaitingForKey != NoKeyWaiting {
		if key, ok := v.KeypadBackend.PollRelease(); ok {
			v.V[v.WaitingForKey] = byte(key)
			v.WaitingForKey = NoKeyWaiting
		}
	}

	now := v.Clock.Now()
	if v.lastTimerTick.IsZero() {
		v.lastTimerTick = now
	}
	if now.Sub(v.lastTimerTick) >= v.timerPeriod {
		// The gate reflects ST as of this tick, before it decays, so a
		// freshly-set ST=1 is audible for this tick rather than decaying
		// to silence before ever sounding.
		gated := v.ST > 0
		if gated != v.audioGated {
			v.AudioBackend.SetGated(gated)
			v.audioGated = gated
		}
		if v.DT > 0 {
			v.DT--
		}
		if v.ST > 0 {
			v.ST--
		}
		v.lastTimerTick = now
	}

	if v.WaitingForKey != NoKeyWaiting {
		v.Clock.Sleep(v.instructionPeriod)
		return nil
	}

	if err := v.Step(); err != nil {
		return err
	}

	v.Clock.Sleep(v.instructionPeriod)
	return nil
}

// Run drives Tick in a cooperative loop until Running clears, either from
// a quit event or a fatal fault (§5).
func (v *VM) Run() error {
	for v.Running {
		if err := v.Tick(); err != nil {
			v.Running = false
			return err
		}
	}
	return nil
}

// Step fetches, decodes, and executes exactly one opcode at PC (§4.8). It
// is the only entry point Tick calls when the VM isn't suspended on Fx0A.
func (v *VM) Step() error {
	if int(v.PC)+1 >= MemorySize {
		return fmt.Errorf("program counter out of bounds: 0x%04X", v.PC)
	}
	word := uint16(v.RAM[v.PC])<<8 | uint16(v.RAM[v.PC+1])
	v.PC += 2
	return v.execute(word)
}

func (v *VM) push(addr uint16) error {
	if v.SP >= StackSize {
		return fmt.Errorf("stack overflow at PC=0x%04X", v.PC)
	}
	v.Stack[v.SP] = addr
	v.SP++
	return nil
}

func (v *VM) pop() (uint16, error) {
	if v.SP <= 0 {
		return 0, fmt.Errorf("stack underflow at PC=0x%04X", v.PC)
	}
	v.SP--
	return v.Stack[v.SP], nil
}

// execute implements §4.8 for all 35 opcodes plus the documented quirks.
func (v *VM) execute(word uint16) error {
	nnn := word & 0x0FFF
	n := int(word & 0x000F)
	x := int((word >> 8) & 0x000F)
	y := int((word >> 4) & 0x000F)
	kk := byte(word & 0x00FF)

	switch word >> 12 {
	case 0x0:
		switch word {
		case 0x00E0:
			v.Disp.Clear()
			v.DisplayBackend.Present(&v.Disp)
			return nil
		case 0x00EE:
			addr, err := v.pop()
			if err != nil {
				return err
			}
			v.PC = addr
			return nil
		default:
			return fmt.Errorf("unsupported native routine call 0x%03X at PC=0x%04X", nnn, v.PC-2)
		}

	case 0x1:
		v.PC = nnn
		return nil

	case 0x2:
		if err := v.push(v.PC); err != nil {
			return err
		}
		v.PC = nnn
		return nil

	case 0x3:
		if v.V[x] == kk {
			v.PC += 2
		}
		return nil
	case 0x4:
		if v.V[x] != kk {
			v.PC += 2
		}
		return nil
	case 0x5:
		if n == 0 && v.V[x] == v.V[y] {
			v.PC += 2
		}
		return nil
	case 0x9:
		if n == 0 && v.V[x] != v.V[y] {
			v.PC += 2
		}
		return nil

	case 0x6:
		v.V[x] = kk
		return nil
	case 0x7:
		v.V[x] = v.V[x] + kk
		return nil

	case 0x8:
		return v.executeArithmetic(x, y, n)

	case 0xA:
		v.I = nnn
		return nil
	case 0xB:
		v.PC = nnn + uint16(v.V[0])
		return nil
	case 0xC:
		v.V[x] = byte(v.Rand.Intn(256)) & kk
		return nil
	case 0xD:
		addr := int(v.I)
		if addr+n > MemorySize {
			return fmt.Errorf("sprite read out of bounds at I=0x%04X, n=%d", v.I, n)
		}
		v.V[FlagRegister] = v.Disp.DrawSprite(v.RAM[:], addr, int(v.V[x]), int(v.V[y]), n)
		v.DisplayBackend.Present(&v.Disp)
		return nil

	case 0xE:
		key := int(v.V[x] & 0x0F)
		switch kk {
		case 0x9E:
			if v.KeypadBackend.IsDown(key) {
				v.PC += 2
			}
			return nil
		case 0xA1:
			if !v.KeypadBackend.IsDown(key) {
				v.PC += 2
			}
			return nil
		}
		return fmt.Errorf("unknown opcode 0x%04X at PC=0x%04X", word, v.PC-2)

	case 0xF:
		return v.executeMisc(x, kk)
	}

	return fmt.Errorf("unknown opcode 0x%04X at PC=0x%04X", word, v.PC-2)
}

// executeArithmetic implements the 8xyN family (§4.8), including the
// VF-clear-after-logical-op and shift-source quirks.
func (v *VM) executeArithmetic(x, y, n int) error {
	switch n {
	case 0x0:
		v.V[x] = v.V[y]
		return nil
	case 0x1:
		v.V[x] = v.V[x] | v.V[y]
		v.V[FlagRegister] = 0
		return nil
	case 0x2:
		v.V[x] = v.V[x] & v.V[y]
		v.V[FlagRegister] = 0
		return nil
	case 0x3:
		v.V[x] = v.V[x] ^ v.V[y]
		v.V[FlagRegister] = 0
		return nil
	case 0x4:
		sum := uint16(v.V[x]) + uint16(v.V[y])
		v.V[x] = byte(sum)
		v.V[FlagRegister] = boolByte(sum >= 256)
		return nil
	case 0x5:
		borrow := v.V[x] >= v.V[y]
		result := v.V[x] - v.V[y]
		v.V[x] = result
		v.V[FlagRegister] = boolByte(borrow)
		return nil
	case 0x6:
		src := v.V[x]
		if v.Quirks.ShiftCopyThenShift {
			src = v.V[y]
		}
		v.V[x] = src
		if x == FlagRegister {
			v.V[x] = src & 1
		} else {
			v.V[FlagRegister] = src & 1
			v.V[x] = src >> 1
		}
		return nil
	case 0x7:
		borrow := v.V[y] >= v.V[x]
		result := v.V[y] - v.V[x]
		v.V[x] = result
		v.V[FlagRegister] = boolByte(borrow)
		return nil
	case 0xE:
		src := v.V[x]
		if v.Quirks.ShiftCopyThenShift {
			src = v.V[y]
		}
		v.V[x] = src
		flag := (src >> 7) & 1
		v.V[FlagRegister] = flag
		if x != FlagRegister {
			v.V[x] = src << 1
		}
		return nil
	}
	return fmt.Errorf("unknown opcode 0x8%X%X%X at PC=0x%04X", x, y, n, v.PC-2)
}

// executeMisc implements the FxNN family (§4.8).
func (v *VM) executeMisc(x int, kk byte) error {
	switch kk {
	case 0x07:
		v.V[x] = v.DT
		return nil
	case 0x0A:
		v.WaitingForKey = x
		return nil
	case 0x15:
		v.DT = v.V[x]
		return nil
	case 0x18:
		v.ST = v.V[x]
		return nil
	case 0x1E:
		v.I = v.I + uint16(v.V[x])
		return nil
	case 0x29:
		v.I = uint16(v.V[x]) * FontGlyphBytes
		return nil
	case 0x33:
		if int(v.I)+2 >= MemorySize {
			return fmt.Errorf("BCD write out of bounds at I=0x%04X", v.I)
		}
		value := v.V[x]
		v.RAM[v.I] = value / 100
		v.RAM[v.I+1] = (value / 10) % 10
		v.RAM[v.I+2] = value % 10
		return nil
	case 0x55:
		if int(v.I)+x >= MemorySize {
			return fmt.Errorf("register dump out of bounds at I=0x%04X", v.I)
		}
		base := v.I
		for i := 0; i <= x; i++ {
			v.RAM[int(base)+i] = v.V[i]
		}
		if v.Quirks.Fx55IncrementsI {
			v.I = base + uint16(x) + 1
		}
		return nil
	case 0x65:
		if int(v.I)+x >= MemorySize {
			return fmt.Errorf("register load out of bounds at I=0x%04X", v.I)
		}
		base := v.I
		for i := 0; i <= x; i++ {
			v.V[i] = v.RAM[int(base)+i]
		}
		if v.Quirks.Fx55IncrementsI {
			v.I = base + uint16(x) + 1
		}
		return nil
	}
	return fmt.Errorf("unknown opcode 0xF%X%02X at PC=0x%04X", x, kk, v.PC-2)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
