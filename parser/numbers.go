package parser

import (
	"strconv"
	"strings"
)

// ParseNumberLiteral parses a decimal, 0x-hex, or 0b-binary literal into an
// unsigned 64-bit value, without any bit-width check. ok is false when the
// token is not numeric syntax at all (the caller reports ErrInvalidArgument
// in that case, as opposed to ErrArgumentOverflow for a value that parses
// fine but doesn't fit the field width).
func ParseNumberLiteral(s string) (value uint64, ok bool) {
	if s == "" {
		return 0, false
	}
	lower := strings.ToLower(s)
	var err error
	switch {
	case strings.HasPrefix(lower, "0x"):
		value, err = strconv.ParseUint(s[2:], 16, 64)
	case strings.HasPrefix(lower, "0b"):
		value, err = strconv.ParseUint(s[2:], 2, 64)
	default:
		value, err = strconv.ParseUint(s, 10, 64)
	}
	if err != nil {
		return 0, false
	}
	return value, true
}

// ParseNumber implements parse_number(idx, max_bits): parses tok as a
// 16-bit-or-narrower unsigned literal and fails with ErrArgumentOverflow
// if it exceeds 2^maxBits-1, or ErrInvalidArgument if it isn't numeric
// syntax at all.
func ParseNumber(tok Token, maxBits int, pos Position, line string) (uint16, *Error) {
	value, ok := ParseNumberLiteral(tok.Text)
	if !ok {
		return 0, &Error{
			Kind: ErrInvalidArgument, Pos: pos, Line: line,
			Span: tok.Span, HasSpan: true, Arg: tok.Text,
		}
	}
	limit := uint64(1)<<uint(maxBits) - 1
	if value > limit {
		return 0, &Error{
			Kind: ErrArgumentOverflow, Pos: pos, Line: line,
			Span: tok.Span, HasSpan: true,
			Value: value, ExpectedBits: maxBits,
		}
	}
	return uint16(value), nil
}

// ParseRegister implements parse_register(idx): matches exactly "V" plus
// one hex digit, case-insensitive, returning the register index 0..15.
func ParseRegister(tok Token, pos Position, line string) (int, *Error) {
	s := tok.Text
	if len(s) != 2 || (s[0] != 'V' && s[0] != 'v') {
		return 0, &Error{Kind: ErrInvalidArgument, Pos: pos, Line: line, Span: tok.Span, HasSpan: true, Arg: s}
	}
	digit := s[1]
	var value int
	switch {
	case digit >= '0' && digit <= '9':
		value = int(digit - '0')
	case digit >= 'a' && digit <= 'f':
		value = int(digit-'a') + 10
	case digit >= 'A' && digit <= 'F':
		value = int(digit-'A') + 10
	default:
		return 0, &Error{Kind: ErrInvalidArgument, Pos: pos, Line: line, Span: tok.Span, HasSpan: true, Arg: s}
	}
	return value, nil
}

// ParseLabel implements parse_label(idx, table): looks up tok in table and
// returns its ROM-relative address plus LoadAddress, or ErrInvalidArgument
// if undefined.
func ParseLabel(tok Token, table *SymbolTable, pos Position, line string) (uint16, *Error) {
	addr, ok := table.ResolvedAddress(tok.Text)
	if !ok {
		return 0, &Error{Kind: ErrInvalidArgument, Pos: pos, Line: line, Span: tok.Span, HasSpan: true, Arg: tok.Text}
	}
	return addr, nil
}

// ParseAddrOrLabel implements parse_addr_or_label(idx, table): tries a
// bare 12-bit number first, then falls back to a label lookup.
func ParseAddrOrLabel(tok Token, table *SymbolTable, pos Position, line string) (uint16, *Error) {
	if _, ok := ParseNumberLiteral(tok.Text); ok {
		return ParseNumber(tok, 12, pos, line)
	}
	return ParseLabel(tok, table, pos, line)
}

// ParseString implements parse_string(idx): requires a quoted token and
// returns its contents.
func ParseString(tok Token, pos Position, line string) (string, *Error) {
	if !tok.Quoted {
		return "", &Error{Kind: ErrInvalidArgument, Pos: pos, Line: line, Span: tok.Span, HasSpan: true, Arg: tok.Text}
	}
	return tok.Text, nil
}
