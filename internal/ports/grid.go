package ports

import (
	"context"

	"github.com/bft-labs/motionpanel/internal/domain"
)

// Grid is a read-only, 0-indexed view of a loaded spreadsheet.
type Grid interface {
	// Cell returns the value at row, col. Coordinates outside the sheet
	// return an empty cell.
	Cell(row, col int) domain.Cell
}

// GridLoader loads a Grid from a workbook file.
type GridLoader interface {
	Load(ctx context.Context, path string) (Grid, error)
}
