package encoder

import (
	"strings"

	"chip8emu/parser"
)

// EncodeInstruction dispatches a non-directive Statement to its
// opcode-specific emitter (§4.6), validating argument count and field
// widths before returning the 2 big-endian bytes.
func EncodeInstruction(stmt *parser.Statement, table *parser.SymbolTable) ([]byte, *parser.Error) {
	fn, ok := instructionEmitters[stmt.Mnemonic]
	if !ok {
		return nil, &parser.Error{
			Kind: parser.ErrUnknownInstruction, Pos: stmt.Pos(), Line: stmt.RawLine,
			Span: stmt.MnemonicSpan, HasSpan: true, Mnemonic: stmt.Mnemonic,
		}
	}
	return fn(stmt, table)
}

type emitterFunc func(stmt *parser.Statement, table *parser.SymbolTable) ([]byte, *parser.Error)

var instructionEmitters = map[string]emitterFunc{
	"CLS":  emitCLS,
	"RET":  emitRET,
	"SYS":  emitSYS,
	"JP":   emitJP,
	"CALL": emitCALL,
	"SE":   emitSE,
	"SNE":  emitSNE,
	"LD":   emitLD,
	"ADD":  emitADD,
	"OR":   emitOR,
	"AND":  emitAND,
	"XOR":  emitXOR,
	"SUB":  emitSUB,
	"SHR":  emitSHR,
	"SUBN": emitSUBN,
	"SHL":  emitSHL,
	"RND":  emitRND,
	"DRW":  emitDRW,
	"SKP":  emitSKP,
	"SKNP": emitSKNP,
}

func argCountError(stmt *parser.Statement, expected ...int) *parser.Error {
	return &parser.Error{
		Kind: parser.ErrInvalidArgumentCount, Pos: stmt.Pos(), Line: stmt.RawLine,
		Mnemonic: stmt.Mnemonic, Got: len(stmt.Args), Expected: expected,
	}
}

func word(hi, lo byte) []byte { return []byte{hi, lo} }

func emitCLS(stmt *parser.Statement, _ *parser.SymbolTable) ([]byte, *parser.Error) {
	if len(stmt.Args) != 0 {
		return nil, argCountError(stmt, 0)
	}
	return word(0x00, 0xE0), nil
}

func emitRET(stmt *parser.Statement, _ *parser.SymbolTable) ([]byte, *parser.Error) {
	if len(stmt.Args) != 0 {
		return nil, argCountError(stmt, 0)
	}
	return word(0x00, 0xEE), nil
}

func emitSYS(stmt *parser.Statement, table *parser.SymbolTable) ([]byte, *parser.Error) {
	if len(stmt.Args) != 1 {
		return nil, argCountError(stmt, 1)
	}
	nnn, err := parser.ParseAddrOrLabel(stmt.ArgToken(0), table, stmt.Pos(), stmt.RawLine)
	if err != nil {
		return nil, err
	}
	return word(byte(nnn>>8)&0x0F, byte(nnn)), nil
}

func emitJP(stmt *parser.Statement, table *parser.SymbolTable) ([]byte, *parser.Error) {
	switch len(stmt.Args) {
	case 1:
		nnn, err := parser.ParseAddrOrLabel(stmt.ArgToken(0), table, stmt.Pos(), stmt.RawLine)
		if err != nil {
			return nil, err
		}
		return word(0x10|byte(nnn>>8)&0x0F, byte(nnn)), nil
	case 2:
		reg, rerr := parser.ParseRegister(stmt.ArgToken(0), stmt.Pos(), stmt.RawLine)
		if rerr != nil {
			return nil, rerr
		}
		if reg != 0 {
			return nil, &parser.Error{
				Kind: parser.ErrInvalidArgument, Pos: stmt.Pos(), Line: stmt.RawLine,
				Span: stmt.ArgSpans[0], HasSpan: true, Arg: stmt.Args[0],
				Message: "JP V0, addr requires register V0",
			}
		}
		nnn, err := parser.ParseAddrOrLabel(stmt.ArgToken(1), table, stmt.Pos(), stmt.RawLine)
		if err != nil {
			return nil, err
		}
		return word(0xB0|byte(nnn>>8)&0x0F, byte(nnn)), nil
	default:
		return nil, argCountError(stmt, 1, 2)
	}
}

func emitCALL(stmt *parser.Statement, table *parser.SymbolTable) ([]byte, *parser.Error) {
	if len(stmt.Args) != 1 {
		return nil, argCountError(stmt, 1)
	}
	nnn, err := parser.ParseAddrOrLabel(stmt.ArgToken(0), table, stmt.Pos(), stmt.RawLine)
	if err != nil {
		return nil, err
	}
	return word(0x20|byte(nnn>>8)&0x0F, byte(nnn)), nil
}

// isRegisterToken reports whether arg looks like a Vx register operand,
// used to disambiguate SE/SNE Vx,kk from SE/SNE Vx,Vy.
func isRegisterToken(s string) bool {
	if len(s) != 2 {
		return false
	}
	c0 := s[0]
	return c0 == 'V' || c0 == 'v'
}

func emitSE(stmt *parser.Statement, table *parser.SymbolTable) ([]byte, *parser.Error) {
	if len(stmt.Args) != 2 {
		return nil, argCountError(stmt, 2)
	}
	x, err := parser.ParseRegister(stmt.ArgToken(0), stmt.Pos(), stmt.RawLine)
	if err != nil {
		return nil, err
	}
	if isRegisterToken(stmt.Args[1]) {
		y, yerr := parser.ParseRegister(stmt.ArgToken(1), stmt.Pos(), stmt.RawLine)
		if yerr != nil {
			return nil, yerr
		}
		return word(0x50|byte(x), byte(y)<<4), nil
	}
	kk, kerr := parser.ParseNumber(stmt.ArgToken(1), 8, stmt.Pos(), stmt.RawLine)
	if kerr != nil {
		return nil, kerr
	}
	return word(0x30|byte(x), byte(kk)), nil
}

func emitSNE(stmt *parser.Statement, table *parser.SymbolTable) ([]byte, *parser.Error) {
	if len(stmt.Args) != 2 {
		return nil, argCountError(stmt, 2)
	}
	x, err := parser.ParseRegister(stmt.ArgToken(0), stmt.Pos(), stmt.RawLine)
	if err != nil {
		return nil, err
	}
	if isRegisterToken(stmt.Args[1]) {
		y, yerr := parser.ParseRegister(stmt.ArgToken(1), stmt.Pos(), stmt.RawLine)
		if yerr != nil {
			return nil, yerr
		}
		return word(0x90|byte(x), byte(y)<<4), nil
	}
	kk, kerr := parser.ParseNumber(stmt.ArgToken(1), 8, stmt.Pos(), stmt.RawLine)
	if kerr != nil {
		return nil, kerr
	}
	return word(0x40|byte(x), byte(kk)), nil
}

// ldKeyword identifies the special first-argument keywords LD/ADD dispatch
// on before falling through to register/immediate forms (§4.6).
func ldKeyword(s string) string {
	return strings.ToUpper(s)
}

func emitLD(stmt *parser.Statement, table *parser.SymbolTable) ([]byte, *parser.Error) {
	if len(stmt.Args) != 2 {
		return nil, argCountError(stmt, 2)
	}
	pos, line := stmt.Pos(), stmt.RawLine

	switch ldKeyword(stmt.Args[0]) {
	case "I":
		nnn, err := parser.ParseAddrOrLabel(stmt.ArgToken(1), table, pos, line)
		if err != nil {
			return nil, err
		}
		return word(0xA0|byte(nnn>>8)&0x0F, byte(nnn)), nil
	case "DT":
		x, err := parser.ParseRegister(stmt.ArgToken(1), pos, line)
		if err != nil {
			return nil, err
		}
		return word(0xF0|byte(x), 0x15), nil
	case "ST":
		x, err := parser.ParseRegister(stmt.ArgToken(1), pos, line)
		if err != nil {
			return nil, err
		}
		return word(0xF0|byte(x), 0x18), nil
	case "F":
		x, err := parser.ParseRegister(stmt.ArgToken(1), pos, line)
		if err != nil {
			return nil, err
		}
		return word(0xF0|byte(x), 0x29), nil
	case "B":
		x, err := parser.ParseRegister(stmt.ArgToken(1), pos, line)
		if err != nil {
			return nil, err
		}
		return word(0xF0|byte(x), 0x33), nil
	case "[I]":
		x, err := parser.ParseRegister(stmt.ArgToken(1), pos, line)
		if err != nil {
			return nil, err
		}
		return word(0xF0|byte(x), 0x55), nil
	}

	switch ldKeyword(stmt.Args[1]) {
	case "DT":
		x, err := parser.ParseRegister(stmt.ArgToken(0), pos, line)
		if err != nil {
			return nil, err
		}
		return word(0xF0|byte(x), 0x07), nil
	case "K":
		x, err := parser.ParseRegister(stmt.ArgToken(0), pos, line)
		if err != nil {
			return nil, err
		}
		return word(0xF0|byte(x), 0x0A), nil
	case "[I]":
		x, err := parser.ParseRegister(stmt.ArgToken(0), pos, line)
		if err != nil {
			return nil, err
		}
		return word(0xF0|byte(x), 0x65), nil
	}

	x, err := parser.ParseRegister(stmt.ArgToken(0), pos, line)
	if err != nil {
		return nil, err
	}
	if isRegisterToken(stmt.Args[1]) {
		y, yerr := parser.ParseRegister(stmt.ArgToken(1), pos, line)
		if yerr != nil {
			return nil, yerr
		}
		return word(0x80|byte(x), byte(y)<<4), nil
	}
	kk, kerr := parser.ParseNumber(stmt.ArgToken(1), 8, pos, line)
	if kerr != nil {
		return nil, kerr
	}
	return word(0x60|byte(x), byte(kk)), nil
}

func emitADD(stmt *parser.Statement, table *parser.SymbolTable) ([]byte, *parser.Error) {
	if len(stmt.Args) != 2 {
		return nil, argCountError(stmt, 2)
	}
	pos, line := stmt.Pos(), stmt.RawLine

	if ldKeyword(stmt.Args[0]) == "I" {
		x, err := parser.ParseRegister(stmt.ArgToken(1), pos, line)
		if err != nil {
			return nil, err
		}
		return word(0xF0|byte(x), 0x1E), nil
	}

	x, err := parser.ParseRegister(stmt.ArgToken(0), pos, line)
	if err != nil {
		return nil, err
	}
	if isRegisterToken(stmt.Args[1]) {
		y, yerr := parser.ParseRegister(stmt.ArgToken(1), pos, line)
		if yerr != nil {
			return nil, yerr
		}
		return word(0x80|byte(x), byte(y)<<4|0x04), nil
	}
	kk, kerr := parser.ParseNumber(stmt.ArgToken(1), 8, pos, line)
	if kerr != nil {
		return nil, kerr
	}
	return word(0x70|byte(x), byte(kk)), nil
}

// emitArithmeticXY builds the common "LD Vx, Vy" shaped 8xyN instructions.
func emitArithmeticXY(stmt *parser.Statement, opNibble byte) ([]byte, *parser.Error) {
	if len(stmt.Args) != 2 {
		return nil, argCountError(stmt, 2)
	}
	pos, line := stmt.Pos(), stmt.RawLine
	x, err := parser.ParseRegister(stmt.ArgToken(0), pos, line)
	if err != nil {
		return nil, err
	}
	y, yerr := parser.ParseRegister(stmt.ArgToken(1), pos, line)
	if yerr != nil {
		return nil, yerr
	}
	return word(0x80|byte(x), byte(y)<<4|opNibble), nil
}

func emitOR(stmt *parser.Statement, _ *parser.SymbolTable) ([]byte, *parser.Error) {
	return emitArithmeticXY(stmt, 0x1)
}

func emitAND(stmt *parser.Statement, _ *parser.SymbolTable) ([]byte, *parser.Error) {
	return emitArithmeticXY(stmt, 0x2)
}

func emitXOR(stmt *parser.Statement, _ *parser.SymbolTable) ([]byte, *parser.Error) {
	return emitArithmeticXY(stmt, 0x3)
}

func emitSUB(stmt *parser.Statement, _ *parser.SymbolTable) ([]byte, *parser.Error) {
	return emitArithmeticXY(stmt, 0x5)
}

func emitSHR(stmt *parser.Statement, _ *parser.SymbolTable) ([]byte, *parser.Error) {
	return emitArithmeticXY(stmt, 0x6)
}

func emitSUBN(stmt *parser.Statement, _ *parser.SymbolTable) ([]byte, *parser.Error) {
	return emitArithmeticXY(stmt, 0x7)
}

func emitSHL(stmt *parser.Statement, _ *parser.SymbolTable) ([]byte, *parser.Error) {
	return emitArithmeticXY(stmt, 0xE)
}

func emitRND(stmt *parser.Statement, _ *parser.SymbolTable) ([]byte, *parser.Error) {
	if len(stmt.Args) != 2 {
		return nil, argCountError(stmt, 2)
	}
	pos, line := stmt.Pos(), stmt.RawLine
	x, err := parser.ParseRegister(stmt.ArgToken(0), pos, line)
	if err != nil {
		return nil, err
	}
	kk, kerr := parser.ParseNumber(stmt.ArgToken(1), 8, pos, line)
	if kerr != nil {
		return nil, kerr
	}
	return word(0xC0|byte(x), byte(kk)), nil
}

func emitDRW(stmt *parser.Statement, _ *parser.SymbolTable) ([]byte, *parser.Error) {
	if len(stmt.Args) != 3 {
		return nil, argCountError(stmt, 3)
	}
	pos, line := stmt.Pos(), stmt.RawLine
	x, err := parser.ParseRegister(stmt.ArgToken(0), pos, line)
	if err != nil {
		return nil, err
	}
	y, yerr := parser.ParseRegister(stmt.ArgToken(1), pos, line)
	if yerr != nil {
		return nil, yerr
	}
	n, nerr := parser.ParseNumber(stmt.ArgToken(2), 4, pos, line)
	if nerr != nil {
		return nil, nerr
	}
	return word(0xD0|byte(x), byte(y)<<4|byte(n)), nil
}

func emitSKP(stmt *parser.Statement, _ *parser.SymbolTable) ([]byte, *parser.Error) {
	if len(stmt.Args) != 1 {
		return nil, argCountError(stmt, 1)
	}
	x, err := parser.ParseRegister(stmt.ArgToken(0), stmt.Pos(), stmt.RawLine)
	if err != nil {
		return nil, err
	}
	return word(0xE0|byte(x), 0x9E), nil
}

func emitSKNP(stmt *parser.Statement, _ *parser.SymbolTable) ([]byte, *parser.Error) {
	if len(stmt.Args) != 1 {
		return nil, argCountError(stmt, 1)
	}
	x, err := parser.ParseRegister(stmt.ArgToken(0), stmt.Pos(), stmt.RawLine)
	if err != nil {
		return nil, err
	}
	return word(0xE0|byte(x), 0xA1), nil
}
