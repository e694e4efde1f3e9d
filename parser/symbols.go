package parser

import "fmt"

// LoadAddress is the fixed offset at which ROMs are loaded into RAM; it is
// added to a symbol's ROM-relative address at reference time, never at
// definition time (§3).
const LoadAddress = 0x200

// SymbolTable maps a case-sensitive label name to its ROM-relative
// address. It is populated during the first pass and read-only during the
// second.
type SymbolTable struct {
	addresses map[string]uint16
}

func NewSymbolTable() *SymbolTable {
	return &SymbolTable{addresses: make(map[string]uint16)}
}

// Define records a label's ROM-relative address. Redefining an existing
// label is rejected.
func (st *SymbolTable) Define(name string, address uint16) error {
	if _, exists := st.addresses[name]; exists {
		return fmt.Errorf("label %q already defined", name)
	}
	st.addresses[name] = address
	return nil
}

// Lookup returns the ROM-relative address of name, or false if undefined.
func (st *SymbolTable) Lookup(name string) (uint16, bool) {
	addr, ok := st.addresses[name]
	return addr, ok
}

// ResolvedAddress returns table[name] + LoadAddress, per parse_label (§4.3).
func (st *SymbolTable) ResolvedAddress(name string) (uint16, bool) {
	addr, ok := st.addresses[name]
	if !ok {
		return 0, false
	}
	return addr + LoadAddress, true
}

func (st *SymbolTable) Names() []string {
	names := make([]string, 0, len(st.addresses))
	for name := range st.addresses {
		names = append(names, name)
	}
	return names
}
