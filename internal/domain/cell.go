package domain

import (
	"math"
	"strconv"
	"strings"
)

// CellKind tags the variant held by a Cell.
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
)

// String returns a human-readable representation of the kind.
func (k CellKind) String() string {
	switch k {
	case CellEmpty:
		return "empty"
	case CellNumber:
		return "number"
	case CellText:
		return "text"
	default:
		return "unknown"
	}
}

// Cell is a single value read from a tabular source. The zero value is Empty.
type Cell struct {
	kind CellKind
	num  float64
	text string
}

// EmptyCell returns a Cell with no value.
func EmptyCell() Cell { return Cell{} }

// NumberCell returns a Cell holding a numeric value.
func NumberCell(v float64) Cell { return Cell{kind: CellNumber, num: v} }

// TextCell returns a Cell holding raw text.
func TextCell(s string) Cell { return Cell{kind: CellText, text: s} }

// CellFromString classifies a raw loader string. Blank strings are Empty.
func CellFromString(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return EmptyCell()
	}
	return TextCell(s)
}

// Kind returns the variant held by the cell.
func (c Cell) Kind() CellKind { return c.kind }

// String renders the cell the way a spreadsheet would show it.
func (c Cell) String() string {
	switch c.kind {
	case CellNumber:
		return strconv.FormatFloat(c.num, 'g', -1, 64)
	case CellText:
		return c.text
	default:
		return ""
	}
}

// Normalize converts a cell into a finite number. Comma decimal separators are
// accepted. Empty, unparsable, NaN and infinite values report ok=false.
func Normalize(c Cell) (float64, bool) {
	var v float64
	switch c.kind {
	case CellNumber:
		v = c.num
	case CellText:
		s := strings.ReplaceAll(strings.TrimSpace(c.text), ",", ".")
		if s == "" {
			return 0, false
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return 0, false
		}
		v = f
	default:
		return 0, false
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
