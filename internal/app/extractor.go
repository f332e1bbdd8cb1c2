package app

import (
	"github.com/bft-labs/motionpanel/internal/domain"
	"github.com/bft-labs/motionpanel/internal/ports"
)

// ExtractCurve reads the curve's row from grid and validates all 8 fields.
// The first unusable cell aborts the extraction with a *domain.InvalidCellError.
func ExtractCurve(grid ports.Grid, curve domain.Curve) (domain.CurveRow, error) {
	if grid == nil {
		return domain.CurveRow{}, domain.ErrNoDataLoaded
	}

	row := domain.CurveRow{Curve: curve}
	for i := range row.Values {
		col := domain.CurveFirstCol + i
		v, ok := domain.Normalize(grid.Cell(curve.Row, col))
		if !ok || !domain.Encodable(v) {
			return domain.CurveRow{}, &domain.InvalidCellError{
				Curve: curve.Name,
				Field: domain.CurveFields[i],
				Row:   curve.Row,
				Col:   col,
			}
		}
		row.Values[i] = v
	}
	return row, nil
}

// CurveCommand extracts curve from grid and encodes it.
func CurveCommand(grid ports.Grid, curve domain.Curve) (domain.Command, error) {
	row, err := ExtractCurve(grid, curve)
	if err != nil {
		return "", err
	}
	return row.Command()
}

// CurvePreview is the extraction result for one named curve.
type CurvePreview struct {
	Curve   domain.Curve
	Row     domain.CurveRow
	Command domain.Command
	Err     error
}

// PreviewCurves extracts every predefined curve without sending anything.
func PreviewCurves(grid ports.Grid) []CurvePreview {
	curves := domain.Curves()
	out := make([]CurvePreview, 0, len(curves))
	for _, c := range curves {
		p := CurvePreview{Curve: c}
		p.Row, p.Err = ExtractCurve(grid, c)
		if p.Err == nil {
			p.Command, p.Err = p.Row.Command()
		}
		out = append(out, p)
	}
	return out
}
