package domain

import (
	"errors"
	"testing"
)

func TestCellRef(t *testing.T) {
	tests := []struct {
		row, col int
		want     string
	}{
		{0, 0, "A1"},
		{17, 2, "C18"},
		{17, 5, "F18"},
		{18, 9, "J19"},
		{0, 25, "Z1"},
		{0, 26, "AA1"},
		{4, 701, "ZZ5"},
		{4, 702, "AAA5"},
	}
	for _, tt := range tests {
		if got := CellRef(tt.row, tt.col); got != tt.want {
			t.Errorf("CellRef(%d, %d) = %q, want %q", tt.row, tt.col, got, tt.want)
		}
	}
}

func TestInvalidCellError(t *testing.T) {
	err := error(&InvalidCellError{Curve: "MT", Field: "Dy", Row: 17, Col: 5})

	if want := "invalid value in curve MT: field Dy (cell F18)"; err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
	if !errors.Is(err, ErrInvalidCell) {
		t.Error("errors.Is(err, ErrInvalidCell) = false")
	}
}
