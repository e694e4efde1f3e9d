package parser

import (
	"strings"
)

// Line is a preprocessed source line paired with the line number it
// originated from (its own, or — after macro expansion — its invocation
// site's), so later diagnostics always point at real source text.
type Line struct {
	Text   string
	LineNo int
}

// Preprocess implements §4.1: comment/whitespace normalization, then
// `.macro`/`.endmacro` definition capture and `$param` expansion at call
// sites. `.include` is deliberately left untouched — it is expanded during
// codegen (§4.4/§4.5), not here.
func Preprocess(source, filename string) (lines []Line, warnings []*Warning, err *Error) {
	normalized := normalizeLines(source)

	defTable, body, defErr := extractMacroDefinitions(normalized, filename)
	if defErr != nil {
		return nil, nil, defErr
	}

	expanded, expErr := expandAll(body, defTable, 0, filename)
	if expErr != nil {
		return nil, nil, expErr
	}

	return expanded, nil, nil
}

// normalizeLines performs step 1 of §4.1: strip comments, trim, drop empty
// lines, while tracking each surviving line's original line number.
func normalizeLines(source string) []Line {
	raw := strings.Split(source, "\n")
	out := make([]Line, 0, len(raw))
	for i, line := range raw {
		line = strings.TrimRight(line, "\r")
		stripped := stripComment(line)
		trimmed := strings.TrimSpace(stripped)
		if trimmed == "" {
			continue
		}
		out = append(out, Line{Text: trimmed, LineNo: i + 1})
	}
	return out
}

// stripComment discards everything from the first unescaped ';' onward,
// ignoring ';' that appears inside a quoted string or is escaped with a
// preceding backslash.
func stripComment(line string) string {
	inQuote := false
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			inQuote = !inQuote
		case c == '\\' && i+1 < len(line):
			i++ // skip escaped character, whatever it is
		case c == ';' && !inQuote:
			return line[:i]
		}
	}
	return line
}

func isMacroDirective(text string) bool {
	return strings.HasPrefix(strings.ToLower(text), ".macro")
}

func isEndMacroDirective(text string) bool {
	return strings.EqualFold(strings.TrimSpace(text), ".endmacro")
}

// extractMacroDefinitions implements step 2 of §4.1: finds every
// `.macro NAME p1 p2 ... pk` ... `.endmacro` block, registers it, and
// returns the remaining lines with those blocks removed.
func extractMacroDefinitions(lines []Line, filename string) (*MacroTable, []Line, *Error) {
	table := NewMacroTable()
	remaining := make([]Line, 0, len(lines))

	i := 0
	for i < len(lines) {
		line := lines[i]
		if !isMacroDirective(line.Text) {
			remaining = append(remaining, line)
			i++
			continue
		}

		fields := strings.Fields(line.Text)
		if len(fields) < 2 {
			return nil, nil, &Error{
				Kind: ErrMacroExpansion, Pos: Position{Filename: filename, Line: line.LineNo, Column: 1},
				Line: line.Text, Message: ".macro requires a name",
			}
		}
		name := fields[1]
		params := fields[2:]

		var bodyLines []string
		defLine := line.LineNo
		i++
		found := false
		for i < len(lines) {
			if isEndMacroDirective(lines[i].Text) {
				found = true
				i++
				break
			}
			bodyLines = append(bodyLines, lines[i].Text)
			i++
		}
		if !found {
			return nil, nil, &Error{
				Kind: ErrMacroExpansion, Pos: Position{Filename: filename, Line: defLine, Column: 1},
				Line: line.Text, Message: "missing .endmacro for macro " + name,
			}
		}

		table.Define(&Macro{Name: name, Parameters: params, Body: bodyLines, DefLine: defLine})
	}

	return table, remaining, nil
}

// expandAll implements step 3 of §4.1 across every line, recursively
// handling macro bodies that themselves invoke other macros.
func expandAll(lines []Line, table *MacroTable, depth int, filename string) ([]Line, *Error) {
	if depth > MaxMacroNestingDepth {
		if len(lines) == 0 {
			return nil, nil
		}
		return nil, &Error{
			Kind: ErrMacroExpansion, Pos: Position{Filename: filename, Line: lines[0].LineNo, Column: 1},
			Line: lines[0].Text, Message: "macro expansion nested too deeply (possible recursive macro)",
		}
	}

	var out []Line
	for _, line := range lines {
		name, args, isCall := matchMacroCall(line.Text, table)
		if !isCall {
			out = append(out, line)
			continue
		}

		macro, _ := table.Lookup(name)
		if len(args) != len(macro.Parameters) {
			return nil, &Error{
				Kind: ErrInvalidArgumentCount, Pos: Position{Filename: filename, Line: line.LineNo, Column: 1},
				Line: line.Text, Mnemonic: name, Got: len(args), Expected: []int{len(macro.Parameters)},
			}
		}

		bodyText := macro.Expand(args)
		bodyLines := make([]Line, len(bodyText))
		for i, t := range bodyText {
			bodyLines[i] = Line{Text: t, LineNo: line.LineNo}
		}

		expanded, err := expandAll(bodyLines, table, depth+1, filename)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

// matchMacroCall checks whether line begins with a defined macro's name
// and, if so, splits the remainder into comma-or-whitespace-separated
// argument tokens.
func matchMacroCall(line string, table *MacroTable) (name string, args []string, ok bool) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return "", nil, false
	}
	first := fields[0]
	macro, exists := table.Lookup(first)
	if !exists {
		return "", nil, false
	}

	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(line), first))
	if rest == "" {
		return macro.Name, nil, true
	}
	rest = strings.ReplaceAll(rest, ",", " ")
	args = strings.Fields(rest)
	return macro.Name, args, true
}
