package workbook

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/bft-labs/motionpanel/internal/domain"
)

// loadXLSX reads sheet (or the first sheet when empty) from an Excel workbook.
func loadXLSX(ctx context.Context, path, sheet string) (*Sheet, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
		if sheet == "" {
			return nil, fmt.Errorf("workbook %s has no sheets", path)
		}
	} else if idx, err := f.GetSheetIndex(sheet); err != nil || idx < 0 {
		return nil, fmt.Errorf("workbook %s has no sheet %q", path, sheet)
	}

	raw, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	rows := make([][]domain.Cell, len(raw))
	for r, values := range raw {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		rows[r] = make([]domain.Cell, len(values))
		for c, v := range values {
			cell, err := classify(f, sheet, r, c, v)
			if err != nil {
				return nil, err
			}
			rows[r][c] = cell
		}
	}
	return NewSheet(sheet, rows), nil
}

// classify turns a raw cell value into a domain.Cell using the stored cell type.
func classify(f *excelize.File, sheet string, row, col int, raw string) (domain.Cell, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.EmptyCell(), nil
	}
	name, err := excelize.CoordinatesToCellName(col+1, row+1)
	if err != nil {
		return domain.Cell{}, err
	}
	typ, err := f.GetCellType(sheet, name)
	if err != nil {
		return domain.Cell{}, fmt.Errorf("cell %s: %w", name, err)
	}

	switch typ {
	case excelize.CellTypeUnset, excelize.CellTypeNumber, excelize.CellTypeFormula:
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			return domain.NumberCell(v), nil
		}
		return domain.TextCell(raw), nil
	case excelize.CellTypeBool:
		if raw == "1" {
			return domain.TextCell("TRUE"), nil
		}
		return domain.TextCell("FALSE"), nil
	default:
		return domain.TextCell(raw), nil
	}
}
