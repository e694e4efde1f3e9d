package parser

import (
	"fmt"
	"strings"
)

// ErrorKind enumerates the sum-type error variants from the assembler's
// diagnostic model.
type ErrorKind int

const (
	ErrUnknownInstruction ErrorKind = iota
	ErrInvalidArgument
	ErrInvalidArgumentCount
	ErrArgumentOverflow
	ErrUserError
	ErrReadError
	ErrIncludeError
	ErrInvalidArgumentIndex
	ErrMacroExpansion
)

func (k ErrorKind) String() string {
	switch k {
	case ErrUnknownInstruction:
		return "unknown instruction"
	case ErrInvalidArgument:
		return "invalid argument"
	case ErrInvalidArgumentCount:
		return "invalid argument count"
	case ErrArgumentOverflow:
		return "argument overflow"
	case ErrUserError:
		return "user error"
	case ErrReadError:
		return "read error"
	case ErrIncludeError:
		return "include error"
	case ErrInvalidArgumentIndex:
		return "invalid argument index"
	case ErrMacroExpansion:
		return "macro expansion error"
	default:
		return "error"
	}
}

// Error is the single carrier struct for every diagnostic the toolchain
// produces. Not every field is meaningful for every Kind; Diagnostic()
// knows how to render each variant.
type Error struct {
	Kind ErrorKind

	Pos     Position
	Line    string // full source line the error occurred on
	Span    TokenSpan
	HasSpan bool

	Mnemonic string
	Arg      string
	Got      int
	Expected []int

	Value        uint64
	ExpectedBits int

	Message string // .error / .warn / generic text

	Path  string // ReadError / IncludeError
	Inner error  // IncludeError: the wrapped nested error

	Requested int // InvalidArgumentIndex
	Total     int
}

func (e *Error) Error() string {
	return e.Diagnostic()
}

// Diagnostic renders a multi-line message: a "file:line:col: error: ..."
// header, the source line, and a caret underline spanning the offending
// token, mirroring objdump/rustc-style assembler diagnostics.
func (e *Error) Diagnostic() string {
	var sb strings.Builder

	sb.WriteString(fmt.Sprintf("%s: error: %s\n", e.Pos, e.summary()))

	if e.Line != "" {
		sb.WriteString("    " + e.Line + "\n")
		if e.HasSpan {
			sb.WriteString("    " + caretUnderline(e.Line, e.Span) + "\n")
		}
	}

	if e.Kind == ErrIncludeError && e.Inner != nil {
		sb.WriteString("  included from here:\n")
		sb.WriteString(indent(e.Inner.Error(), "  "))
	}

	return sb.String()
}

func (e *Error) summary() string {
	switch e.Kind {
	case ErrUnknownInstruction:
		return fmt.Sprintf("unknown instruction %q", e.Mnemonic)
	case ErrInvalidArgument:
		return fmt.Sprintf("invalid argument %q", e.Arg)
	case ErrInvalidArgumentCount:
		return fmt.Sprintf("%s expects %s argument(s), got %d", e.Mnemonic, formatExpected(e.Expected), e.Got)
	case ErrArgumentOverflow:
		return fmt.Sprintf("value %d does not fit in %d bits", e.Value, e.ExpectedBits)
	case ErrUserError:
		return e.Message
	case ErrReadError:
		return fmt.Sprintf("failed to read %q", e.Path)
	case ErrIncludeError:
		return fmt.Sprintf("error including %q", e.Path)
	case ErrInvalidArgumentIndex:
		return fmt.Sprintf("internal error: requested argument %d of %d", e.Requested, e.Total)
	case ErrMacroExpansion:
		return e.Message
	default:
		return e.Message
	}
}

func formatExpected(expected []int) string {
	if len(expected) == 0 {
		return "some number of"
	}
	parts := make([]string, len(expected))
	for i, n := range expected {
		parts[i] = fmt.Sprintf("%d", n)
	}
	return strings.Join(parts, " or ")
}

// caretUnderline draws a line of spaces and carets positioned under span.
func caretUnderline(line string, span TokenSpan) string {
	start, end := span.Start, span.End
	if start < 0 {
		start = 0
	}
	if end > len(line) {
		end = len(line)
	}
	if end <= start {
		end = start + 1
	}
	width := end - start
	if width < 1 {
		width = 1
	}
	return strings.Repeat(" ", start) + strings.Repeat("^", width)
}

func indent(s, prefix string) string {
	lines := strings.Split(strings.TrimRight(s, "\n"), "\n")
	for i, l := range lines {
		lines[i] = prefix + l
	}
	return strings.Join(lines, "\n") + "\n"
}

// Warning represents a non-fatal diagnostic (only emitted by .warn).
type Warning struct {
	Pos     Position
	Message string
}

func (w *Warning) String() string {
	return fmt.Sprintf("%s: warning: %s", w.Pos, w.Message)
}

// ErrorList collects the warnings of an assembly run. The fatal error, of
// which there is at most one since emitters stop on the first, is returned
// separately as a *Error.
type ErrorList struct {
	Warnings []*Warning
}

func (el *ErrorList) AddWarning(w *Warning) {
	el.Warnings = append(el.Warnings, w)
}

func (el *ErrorList) PrintWarnings() string {
	if len(el.Warnings) == 0 {
		return ""
	}
	var sb strings.Builder
	for _, w := range el.Warnings {
		sb.WriteString(w.String())
		sb.WriteString("\n")
	}
	return sb.String()
}
