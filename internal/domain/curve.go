package domain

import (
	"fmt"
	"strings"
)

// Curve columns span spreadsheet columns C through J.
const (
	CurveFirstCol = 2
	CurveLastCol  = 9
)

// CurveFields names the columns of a curve row in order.
var CurveFields = [CoordinatedParams]string{"Vx", "Dx", "Vy", "Dy", "Va", "Da", "Vz", "Dz"}

// Curve is a named, spreadsheet-resident coordinated move.
type Curve struct {
	Name string
	Row  int // 0-based; spreadsheet row Row+1
}

// Predefined curves.
var (
	CurveMT = Curve{Name: "MT", Row: 17}
	CurveMR = Curve{Name: "MR", Row: 18}
)

// Curves returns the predefined curves in display order.
func Curves() []Curve {
	return []Curve{CurveMT, CurveMR}
}

// LookupCurve resolves a curve by name, ignoring case.
func LookupCurve(name string) (Curve, error) {
	for _, c := range Curves() {
		if strings.EqualFold(c.Name, strings.TrimSpace(name)) {
			return c, nil
		}
	}
	return Curve{}, fmt.Errorf("%w: %q", ErrUnknownCurve, name)
}

// CurveRow holds the validated values of one curve, in CurveFields order.
type CurveRow struct {
	Curve  Curve
	Values [CoordinatedParams]float64
}

// Command encodes the row as a coordinated move.
func (r CurveRow) Command() (Command, error) {
	return CurveCommand(r.Values)
}
