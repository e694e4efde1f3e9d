package parser

import "strings"

// Statement is one non-empty, non-label source line after preprocessing.
// It is built once during the first pass and read-only thereafter.
type Statement struct {
	Mnemonic     string // upper-cased for dispatch; original case kept in RawLine
	MnemonicSpan TokenSpan
	Args         []string
	ArgSpans     []TokenSpan
	ArgQuoted    []bool
	LineNo       int // 1-based, the originating source line (post macro-expansion)
	RawLine      string
	Filename     string

	// Address is filled in by the first pass: the ROM-relative byte
	// offset at which this statement's encoding begins.
	Address uint16
	// Size is filled in by the first pass: how many bytes this statement
	// will emit in the second pass.
	Size uint16
}

// IsDirective reports whether the mnemonic names a directive rather than
// an instruction.
func (s *Statement) IsDirective() bool {
	return strings.HasPrefix(s.Mnemonic, ".")
}

func (s *Statement) Pos() Position {
	return Position{Filename: s.Filename, Line: s.LineNo, Column: s.MnemonicSpan.Start + 1}
}

// ArgToken reconstructs a Token for argument i, for helpers that need a
// span (e.g. number/register parsing diagnostics).
func (s *Statement) ArgToken(i int) Token {
	if i < 0 || i >= len(s.Args) {
		return Token{}
	}
	quoted := false
	if i < len(s.ArgQuoted) {
		quoted = s.ArgQuoted[i]
	}
	return Token{Text: s.Args[i], Span: s.ArgSpans[i], Quoted: quoted}
}

// BuildStatement tokenizes one preprocessed source line (comments already
// stripped, macros already expanded) into a Statement, or reports that the
// line is a bare label definition.
func BuildStatement(line string, lineNo int, filename string) (stmt *Statement, label string, isLabel bool, err *Error) {
	pos := Position{Filename: filename, Line: lineNo, Column: 1}
	tokens, lexErr := TokenizeLine(line, pos)
	if lexErr != nil {
		lexErr.Pos.Line = lineNo
		return nil, "", false, lexErr
	}
	if len(tokens) == 0 {
		return nil, "", false, nil
	}

	if name, ok := IsLabelLine(tokens); ok {
		return nil, name, true, nil
	}

	mnemonicTok, argToks := SplitMnemonicAndArgs(tokens)
	args := make([]string, len(argToks))
	spans := make([]TokenSpan, len(argToks))
	quoted := make([]bool, len(argToks))
	for i, t := range argToks {
		args[i] = t.Text
		spans[i] = t.Span
		quoted[i] = t.Quoted
	}

	return &Statement{
		Mnemonic:     strings.ToUpper(mnemonicTok.Text),
		MnemonicSpan: mnemonicTok.Span,
		Args:         args,
		ArgSpans:     spans,
		ArgQuoted:    quoted,
		LineNo:       lineNo,
		RawLine:      line,
		Filename:     filename,
	}, "", false, nil
}
