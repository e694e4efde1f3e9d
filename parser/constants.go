package parser

// MaxMacroNestingDepth bounds macro body re-expansion, guarding against the
// non-hygienic $param substitution accidentally re-invoking a macro inside
// its own or another macro's body (§9).
const MaxMacroNestingDepth = 32
