package encoder

import (
	"chip8emu/parser"
)

// directiveNames maps every spelling (including aliases) to a canonical
// directive key. Mnemonics arrive already upper-cased, so this map only
// needs upper-case keys to match case-insensitively.
var directiveNames = map[string]string{
	".BYTE":    ".BYTE",
	".DB":      ".BYTE",
	".WORD":    ".WORD",
	".DW":      ".WORD",
	".TEXT":    ".TEXT",
	".ASCII":   ".TEXT",
	".FILL":    ".FILL",
	".SPACE":   ".SPACE",
	".INCLUDE": ".INCLUDE",
	".WARN":    ".WARN",
	".ERROR":   ".ERROR",
	".ALIGN":   ".ALIGN",
}

// canonicalDirective resolves a statement's (already upper-cased) mnemonic
// to its canonical directive key, or false if it names no known directive.
func canonicalDirective(mnemonic string) (string, bool) {
	key, ok := directiveNames[mnemonic]
	return key, ok
}

// DirectiveSize computes how many bytes a directive statement will emit,
// from its argument tokens alone (§4.4: directive width must not depend on
// the symbol table, so labels are forbidden as the size argument of
// .space/.fill). For .include, size is the length of the recursively
// assembled included file, computed by the caller (assemble.go), since
// only it tracks the include stack and base directory.
func DirectiveSize(stmt *parser.Statement) (uint16, *parser.Error) {
	key, ok := canonicalDirective(stmt.Mnemonic)
	if !ok {
		return 0, &parser.Error{
			Kind: parser.ErrUnknownInstruction, Pos: stmt.Pos(), Line: stmt.RawLine,
			Span: stmt.MnemonicSpan, HasSpan: true, Mnemonic: stmt.Mnemonic,
		}
	}

	switch key {
	case ".BYTE":
		if len(stmt.Args) != 1 {
			return 0, argCountError(stmt, 1)
		}
		return 1, nil
	case ".WORD":
		if len(stmt.Args) != 1 {
			return 0, argCountError(stmt, 1)
		}
		return 2, nil
	case ".TEXT":
		if len(stmt.Args) != 1 {
			return 0, argCountError(stmt, 1)
		}
		return uint16(len(stmt.Args[0])), nil
	case ".FILL":
		if len(stmt.Args) != 2 {
			return 0, argCountError(stmt, 2)
		}
		n, ok := parser.ParseNumberLiteral(stmt.Args[0])
		if !ok {
			return 0, &parser.Error{
				Kind: parser.ErrInvalidArgument, Pos: stmt.Pos(), Line: stmt.RawLine,
				Span: stmt.ArgSpans[0], HasSpan: true, Arg: stmt.Args[0],
				Message: "label not permitted as .fill count",
			}
		}
		return uint16(n), nil
	case ".SPACE":
		if len(stmt.Args) != 1 {
			return 0, argCountError(stmt, 1)
		}
		n, ok := parser.ParseNumberLiteral(stmt.Args[0])
		if !ok {
			return 0, &parser.Error{
				Kind: parser.ErrInvalidArgument, Pos: stmt.Pos(), Line: stmt.RawLine,
				Span: stmt.ArgSpans[0], HasSpan: true, Arg: stmt.Args[0],
				Message: "label not permitted as .space count",
			}
		}
		return uint16(n), nil
	case ".ALIGN":
		// Sized against the current address at call time; FirstPass in
		// assemble.go calls alignPadding with the running address. A bare
		// DirectiveSize call cannot compute this without it, so callers
		// must special-case .ALIGN rather than calling this branch.
		return 0, nil
	case ".WARN", ".ERROR":
		if len(stmt.Args) > 1 {
			return 0, argCountError(stmt, 0, 1)
		}
		return 0, nil
	case ".INCLUDE":
		if len(stmt.Args) != 1 {
			return 0, argCountError(stmt, 1)
		}
		return 0, nil // caller recursively sizes the included file
	}
	return 0, nil
}

// alignPadding computes the zero-byte padding .align N emits to round addr
// up to the next multiple of n (a power of two: 1, 2, 4, or 8).
func alignPadding(addr uint16, n uint16) uint16 {
	if n <= 1 {
		return 0
	}
	rem := addr % n
	if rem == 0 {
		return 0
	}
	return n - rem
}

// EncodeDirective emits a directive's bytes given the fully resolved
// symbol table (second pass). It does not handle .include or .align,
// which need the running address / include stack the driver carries;
// those are special-cased in assemble.go.
func EncodeDirective(stmt *parser.Statement, table *parser.SymbolTable) ([]byte, *parser.ErrorList, *parser.Error) {
	warnings := &parser.ErrorList{}
	key, _ := canonicalDirective(stmt.Mnemonic)

	switch key {
	case ".BYTE":
		v, err := parser.ParseNumber(stmt.ArgToken(0), 8, stmt.Pos(), stmt.RawLine)
		if err != nil {
			return nil, nil, err
		}
		return []byte{byte(v)}, warnings, nil
	case ".WORD":
		v, err := parser.ParseNumber(stmt.ArgToken(0), 16, stmt.Pos(), stmt.RawLine)
		if err != nil {
			return nil, nil, err
		}
		return []byte{byte(v >> 8), byte(v)}, warnings, nil
	case ".TEXT":
		s, err := parser.ParseString(stmt.ArgToken(0), stmt.Pos(), stmt.RawLine)
		if err != nil {
			return nil, nil, err
		}
		return []byte(s), warnings, nil
	case ".FILL":
		n, err := parser.ParseNumber(stmt.ArgToken(0), 16, stmt.Pos(), stmt.RawLine)
		if err != nil {
			return nil, nil, err
		}
		b, berr := parser.ParseNumber(stmt.ArgToken(1), 8, stmt.Pos(), stmt.RawLine)
		if berr != nil {
			return nil, nil, berr
		}
		out := make([]byte, n)
		for i := range out {
			out[i] = byte(b)
		}
		return out, warnings, nil
	case ".SPACE":
		n, err := parser.ParseNumber(stmt.ArgToken(0), 16, stmt.Pos(), stmt.RawLine)
		if err != nil {
			return nil, nil, err
		}
		return make([]byte, n), warnings, nil
	case ".WARN":
		msg := "user warning"
		if len(stmt.Args) == 1 {
			s, err := parser.ParseString(stmt.ArgToken(0), stmt.Pos(), stmt.RawLine)
			if err == nil {
				msg = s
			} else {
				msg = stmt.Args[0]
			}
		}
		warnings.AddWarning(&parser.Warning{Pos: stmt.Pos(), Message: msg})
		return nil, warnings, nil
	case ".ERROR":
		msg := "user error"
		if len(stmt.Args) == 1 {
			s, err := parser.ParseString(stmt.ArgToken(0), stmt.Pos(), stmt.RawLine)
			if err == nil {
				msg = s
			} else {
				msg = stmt.Args[0]
			}
		}
		return nil, nil, &parser.Error{
			Kind: parser.ErrUserError, Pos: stmt.Pos(), Line: stmt.RawLine, Message: msg,
		}
	}

	return nil, nil, &parser.Error{
		Kind: parser.ErrUnknownInstruction, Pos: stmt.Pos(), Line: stmt.RawLine,
		Span: stmt.MnemonicSpan, HasSpan: true, Mnemonic: stmt.Mnemonic,
		Message: "directive handled by the assembly driver, not EncodeDirective",
	}
}
