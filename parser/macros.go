package parser

import "strings"

// Macro is a preprocessor macro definition: a name, an ordered parameter
// list, and a verbatim body (§3, §4.1).
type Macro struct {
	Name       string
	Parameters []string
	Body       []string
	DefLine    int
}

// MacroTable holds all macros defined in a source file.
type MacroTable struct {
	macros map[string]*Macro
}

func NewMacroTable() *MacroTable {
	return &MacroTable{macros: make(map[string]*Macro)}
}

func (mt *MacroTable) Define(m *Macro) {
	mt.macros[m.Name] = m
}

func (mt *MacroTable) Lookup(name string) (*Macro, bool) {
	m, ok := mt.macros[name]
	return m, ok
}

// Expand substitutes every $param occurrence in the macro body with the
// corresponding argument, per call site. Substitution is a plain string
// replace — intentionally non-hygienic, matching §9's documented
// limitation: a body token that happens to equal another macro's name (or
// another $param) is blind to that coincidence.
func (m *Macro) Expand(args []string) []string {
	expanded := make([]string, len(m.Body))
	for i, bodyLine := range m.Body {
		line := bodyLine
		for pi, param := range m.Parameters {
			line = strings.ReplaceAll(line, "$"+param, args[pi])
		}
		expanded[i] = line
	}
	return expanded
}
