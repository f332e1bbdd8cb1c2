package domain

import (
	"math"
	"testing"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name   string
		cell   Cell
		want   float64
		wantOK bool
	}{
		{"comma decimal", TextCell("1,5"), 1.5, true},
		{"padded text", TextCell("  2.0 "), 2.0, true},
		{"negative", TextCell("-12,25"), -12.25, true},
		{"integer text", TextCell("100"), 100, true},
		{"number", NumberCell(42), 42, true},
		{"empty text", TextCell(""), 0, false},
		{"blank text", TextCell("   "), 0, false},
		{"empty cell", EmptyCell(), 0, false},
		{"zero value", Cell{}, 0, false},
		{"letters", TextCell("abc"), 0, false},
		{"nan text", TextCell("NaN"), 0, false},
		{"inf text", TextCell("inf"), 0, false},
		{"nan number", NumberCell(math.NaN()), 0, false},
		{"inf number", NumberCell(math.Inf(-1)), 0, false},
		{"thousands and decimal", TextCell("1.234,5"), 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := Normalize(tt.cell)
			if ok != tt.wantOK {
				t.Fatalf("Normalize(%v) ok = %v, want %v", tt.cell, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("Normalize(%v) = %v, want %v", tt.cell, got, tt.want)
			}
		})
	}
}

func TestCellFromString(t *testing.T) {
	if got := CellFromString(""); got.Kind() != CellEmpty {
		t.Errorf("CellFromString(\"\").Kind() = %v, want empty", got.Kind())
	}
	if got := CellFromString(" \t"); got.Kind() != CellEmpty {
		t.Errorf("CellFromString(blank).Kind() = %v, want empty", got.Kind())
	}
	got := CellFromString("3,5")
	if got.Kind() != CellText || got.String() != "3,5" {
		t.Errorf("CellFromString(\"3,5\") = %v/%q, want text/\"3,5\"", got.Kind(), got.String())
	}
}

func TestCellKind_String(t *testing.T) {
	tests := []struct {
		kind CellKind
		want string
	}{
		{CellEmpty, "empty"},
		{CellNumber, "number"},
		{CellText, "text"},
		{CellKind(9), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.kind.String(); got != tt.want {
			t.Errorf("CellKind(%d).String() = %s, want %s", tt.kind, got, tt.want)
		}
	}
}
