// Package workbook loads curve spreadsheets into ports.Grid values.
// Excel workbooks are read with excelize; CSV exports are read with encoding/csv.
package workbook

import (
	"github.com/bft-labs/motionpanel/internal/domain"
	"github.com/bft-labs/motionpanel/internal/ports"
)

// Sheet is an in-memory, 0-indexed grid. Rows may be ragged.
type Sheet struct {
	name string
	rows [][]domain.Cell
}

// NewSheet wraps rows as a Sheet.
func NewSheet(name string, rows [][]domain.Cell) *Sheet {
	return &Sheet{name: name, rows: rows}
}

// Name returns the sheet name, or the file name for CSV sources.
func (s *Sheet) Name() string { return s.name }

// Cell returns the cell at row, col, or an empty cell when out of range.
func (s *Sheet) Cell(row, col int) domain.Cell {
	if row < 0 || row >= len(s.rows) {
		return domain.EmptyCell()
	}
	r := s.rows[row]
	if col < 0 || col >= len(r) {
		return domain.EmptyCell()
	}
	return r[col]
}

var _ ports.Grid = (*Sheet)(nil)
