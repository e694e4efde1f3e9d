package encoder

import (
	"os"
	"path/filepath"

	"chip8emu/parser"
)

// item is one ordered unit from a preprocessed source file: either a label
// definition or a statement (instruction or directive). Labels don't carry
// a Statement because they never emit bytes themselves.
type item struct {
	isLabel bool
	label   string
	pos     parser.Position
	rawLine string

	stmt *parser.Statement
}

func buildItems(lines []parser.Line, filename string) ([]*item, *parser.Error) {
	items := make([]*item, 0, len(lines))
	for _, l := range lines {
		stmt, label, isLabel, err := parser.BuildStatement(l.Text, l.LineNo, filename)
		if err != nil {
			return nil, err
		}
		if isLabel {
			items = append(items, &item{
				isLabel: true, label: label,
				pos:     parser.Position{Filename: filename, Line: l.LineNo, Column: 1},
				rawLine: l.Text,
			})
			continue
		}
		if stmt == nil {
			continue
		}
		items = append(items, &item{stmt: stmt})
	}
	return items, nil
}

// Assembler drives the two-pass assembly of a single top-level file,
// recursively invoking itself (via a fresh Assembler sharing the same
// IncludeStack) for every .include it encounters (§4.4/§4.5/§5).
type Assembler struct {
	stack        *IncludeStack
	baseDir      string
	includeCache map[*parser.Statement][]byte
	Warnings     *parser.ErrorList
}

func newAssembler(stack *IncludeStack, baseDir string) *Assembler {
	return &Assembler{
		stack:        stack,
		baseDir:      baseDir,
		includeCache: make(map[*parser.Statement][]byte),
		Warnings:     &parser.ErrorList{},
	}
}

// Assemble implements §4.1-§4.7 end to end for in-memory source text: it
// preprocesses, runs the first pass (symbol table + sizing, recursively
// sizing .include targets), then the second pass (codegen, recursively
// emitting .include bytes). baseDir resolves relative .include paths.
func Assemble(source, filename, baseDir string) ([]byte, *parser.ErrorList, *parser.Error) {
	return assembleWithStack(source, filename, baseDir, NewIncludeStack())
}

// AssembleFile reads path from disk and assembles it, using its directory
// as the base for resolving .include paths.
func AssembleFile(path string) ([]byte, *parser.ErrorList, *parser.Error) {
	content, err := os.ReadFile(path) // #nosec G304 -- user-provided assembler input path
	if err != nil {
		return nil, nil, &parser.Error{Kind: parser.ErrReadError, Path: path}
	}
	return Assemble(string(content), path, filepath.Dir(path))
}

func assembleWithStack(source, filename, baseDir string, stack *IncludeStack) ([]byte, *parser.ErrorList, *parser.Error) {
	lines, _, err := parser.Preprocess(source, filename)
	if err != nil {
		return nil, nil, err
	}
	items, err := buildItems(lines, filename)
	if err != nil {
		return nil, nil, err
	}

	asm := newAssembler(stack, baseDir)
	table, err := asm.FirstPass(items)
	if err != nil {
		return nil, asm.Warnings, err
	}
	out, err := asm.SecondPass(items, table)
	if err != nil {
		return nil, asm.Warnings, err
	}
	return out, asm.Warnings, nil
}

// FirstPass implements §4.4: it walks items in order, recording each
// label's address and sizing each statement from its token text alone
// (labels are never consulted for sizing, preserving two-pass
// determinism). .include is sized by recursively assembling the target
// file in full; .align is sized against the running address.
func (a *Assembler) FirstPass(items []*item) (*parser.SymbolTable, *parser.Error) {
	table := parser.NewSymbolTable()
	var address uint16

	for _, it := range items {
		if it.isLabel {
			if err := table.Define(it.label, address); err != nil {
				return nil, &parser.Error{
					Kind: parser.ErrInvalidArgument, Pos: it.pos, Line: it.rawLine,
					Message: err.Error(),
				}
			}
			continue
		}

		stmt := it.stmt
		var size uint16

		if stmt.IsDirective() {
			key, ok := canonicalDirective(stmt.Mnemonic)
			if !ok {
				return nil, &parser.Error{
					Kind: parser.ErrUnknownInstruction, Pos: stmt.Pos(), Line: stmt.RawLine,
					Span: stmt.MnemonicSpan, HasSpan: true, Mnemonic: stmt.Mnemonic,
				}
			}

			switch key {
			case ".ALIGN":
				if len(stmt.Args) != 1 {
					return nil, argCountError(stmt, 1)
				}
				n, numOK := parser.ParseNumberLiteral(stmt.Args[0])
				if !numOK || !isValidAlignment(n) {
					return nil, &parser.Error{
						Kind: parser.ErrInvalidArgument, Pos: stmt.Pos(), Line: stmt.RawLine,
						Span: stmt.ArgSpans[0], HasSpan: true, Arg: stmt.Args[0],
						Message: ".align requires an alignment of 1, 2, 4, or 8",
					}
				}
				size = alignPadding(address, uint16(n))
			case ".INCLUDE":
				assembled, incErr := a.assembleInclude(stmt)
				if incErr != nil {
					return nil, incErr
				}
				size = uint16(len(assembled))
			default:
				var derr *parser.Error
				size, derr = DirectiveSize(stmt)
				if derr != nil {
					return nil, derr
				}
			}
		} else {
			size = 2
		}

		stmt.Address = address
		stmt.Size = size
		address += size
	}

	return table, nil
}

// SecondPass implements §4.5: dispatch each statement to its codegen
// emitter with the now-complete symbol table, concatenating the results.
func (a *Assembler) SecondPass(items []*item, table *parser.SymbolTable) ([]byte, *parser.Error) {
	var out []byte

	for _, it := range items {
		if it.isLabel {
			continue
		}
		stmt := it.stmt

		if stmt.IsDirective() {
			key, _ := canonicalDirective(stmt.Mnemonic)
			switch key {
			case ".ALIGN":
				out = append(out, make([]byte, stmt.Size)...)
			case ".INCLUDE":
				assembled, ok := a.includeCache[stmt]
				if !ok {
					var incErr *parser.Error
					assembled, incErr = a.assembleInclude(stmt)
					if incErr != nil {
						return nil, incErr
					}
				}
				out = append(out, assembled...)
			default:
				bytes, warnings, derr := EncodeDirective(stmt, table)
				if derr != nil {
					return nil, derr
				}
				if warnings != nil {
					a.Warnings.Warnings = append(a.Warnings.Warnings, warnings.Warnings...)
				}
				out = append(out, bytes...)
			}
			continue
		}

		bytes, ierr := EncodeInstruction(stmt, table)
		if ierr != nil {
			return nil, ierr
		}
		out = append(out, bytes...)
	}

	return out, nil
}

// assembleInclude resolves, cycle-checks, reads, and recursively assembles
// a .include target, caching the result so the first and second passes
// never assemble the same file twice.
func (a *Assembler) assembleInclude(stmt *parser.Statement) ([]byte, *parser.Error) {
	if cached, ok := a.includeCache[stmt]; ok {
		return cached, nil
	}

	relPath, perr := parser.ParseString(stmt.ArgToken(0), stmt.Pos(), stmt.RawLine)
	if perr != nil {
		return nil, perr
	}

	absPath, resolveErr := resolveIncludePath(a.baseDir, relPath)
	if resolveErr != nil {
		return nil, &parser.Error{
			Kind: parser.ErrIncludeError, Pos: stmt.Pos(), Line: stmt.RawLine, Path: relPath,
			Inner: &parser.Error{Kind: parser.ErrReadError, Path: relPath},
		}
	}

	if a.stack.Contains(absPath) {
		return nil, &parser.Error{
			Kind: parser.ErrIncludeError, Pos: stmt.Pos(), Line: stmt.RawLine, Path: relPath,
			Message: "cyclic include detected",
		}
	}
	if a.stack.Depth() >= MaxIncludeDepth {
		return nil, &parser.Error{
			Kind: parser.ErrIncludeError, Pos: stmt.Pos(), Line: stmt.RawLine, Path: relPath,
			Message: "include nesting too deep",
		}
	}

	content, readErr := os.ReadFile(absPath) // #nosec G304 -- path comes from assembler source under user control
	if readErr != nil {
		return nil, &parser.Error{
			Kind: parser.ErrIncludeError, Pos: stmt.Pos(), Line: stmt.RawLine, Path: relPath,
			Inner: &parser.Error{Kind: parser.ErrReadError, Path: absPath},
		}
	}

	a.stack.push(absPath)
	assembled, warnings, asmErr := assembleWithStack(string(content), relPath, filepath.Dir(absPath), a.stack)
	a.stack.pop()

	if warnings != nil {
		a.Warnings.Warnings = append(a.Warnings.Warnings, warnings.Warnings...)
	}
	if asmErr != nil {
		return nil, &parser.Error{
			Kind: parser.ErrIncludeError, Pos: stmt.Pos(), Line: stmt.RawLine, Path: relPath,
			Inner: asmErr,
		}
	}

	a.includeCache[stmt] = assembled
	return assembled, nil
}

func isValidAlignment(n uint64) bool {
	switch n {
	case 1, 2, 4, 8:
		return true
	default:
		return false
	}
}
