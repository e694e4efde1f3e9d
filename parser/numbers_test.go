package parser_test

import (
	"testing"

	"chip8emu/parser"
)

func TestParseNumberLiteral(t *testing.T) {
	cases := []struct {
		in   string
		want uint64
		ok   bool
	}{
		{"42", 42, true},
		{"0x2A", 0x2A, true},
		{"0b101010", 0b101010, true},
		{"", 0, false},
		{"not-a-number", 0, false},
	}
	for _, c := range cases {
		got, ok := parser.ParseNumberLiteral(c.in)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("ParseNumberLiteral(%q) = (%d, %v), want (%d, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}

func TestParseNumber_OverflowsReportArgumentOverflow(t *testing.T) {
	tok := parser.Token{Text: "0x100"}
	_, err := parser.ParseNumber(tok, 8, parser.Position{}, "")
	if err == nil {
		t.Fatal("expected an overflow error for 0x100 in 8 bits")
	}
	if err.Kind != parser.ErrArgumentOverflow {
		t.Errorf("Kind = %v, want ErrArgumentOverflow", err.Kind)
	}
}

func TestParseRegister(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"V0", 0}, {"VF", 15}, {"vf", 15}, {"Va", 10},
	}
	for _, c := range cases {
		got, err := parser.ParseRegister(parser.Token{Text: c.in}, parser.Position{}, "")
		if err != nil {
			t.Errorf("ParseRegister(%q): %v", c.in, err)
			continue
		}
		if got != c.want {
			t.Errorf("ParseRegister(%q) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestParseRegister_RejectsNonRegister(t *testing.T) {
	if _, err := parser.ParseRegister(parser.Token{Text: "X0"}, parser.Position{}, ""); err == nil {
		t.Error("expected an error for a non-register token")
	}
}

func TestParseAddrOrLabel_PrefersNumericLiteral(t *testing.T) {
	table := parser.NewSymbolTable()
	addr, err := parser.ParseAddrOrLabel(parser.Token{Text: "0x123"}, table, parser.Position{}, "")
	if err != nil {
		t.Fatalf("ParseAddrOrLabel: %v", err)
	}
	if addr != 0x123 {
		t.Errorf("addr = 0x%X, want 0x123", addr)
	}
}

func TestParseAddrOrLabel_FallsBackToLabel(t *testing.T) {
	table := parser.NewSymbolTable()
	if err := table.Define("loop", 0x10); err != nil {
		t.Fatalf("Define: %v", err)
	}
	addr, err := parser.ParseAddrOrLabel(parser.Token{Text: "loop"}, table, parser.Position{}, "")
	if err != nil {
		t.Fatalf("ParseAddrOrLabel: %v", err)
	}
	if addr != 0x10+parser.LoadAddress {
		t.Errorf("addr = 0x%X, want 0x%X", addr, 0x10+parser.LoadAddress)
	}
}

func TestParseAddrOrLabel_UndefinedLabelErrors(t *testing.T) {
	table := parser.NewSymbolTable()
	if _, err := parser.ParseAddrOrLabel(parser.Token{Text: "nowhere"}, table, parser.Position{}, ""); err == nil {
		t.Error("expected an error for an undefined label")
	}
}
