package workbook

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/bft-labs/motionpanel/internal/ports"
)

// Loader implements ports.GridLoader, choosing a reader by file extension.
type Loader struct {
	sheet string
}

// NewLoader creates a Loader. sheet selects a worksheet in Excel workbooks;
// empty means the first sheet.
func NewLoader(sheet string) *Loader {
	return &Loader{sheet: sheet}
}

// Load reads path into a grid.
func (l *Loader) Load(ctx context.Context, path string) (ports.Grid, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm", ".xltx", ".xltm":
		return loadXLSX(ctx, path, l.sheet)
	case ".csv", ".tsv", ".txt":
		return loadCSV(ctx, path)
	case ".xls":
		return nil, fmt.Errorf("legacy .xls workbooks are not supported; save %s as .xlsx", filepath.Base(path))
	default:
		return nil, fmt.Errorf("unsupported workbook format %q", ext)
	}
}

var _ ports.GridLoader = (*Loader)(nil)
