package workbook

import (
	"bufio"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/bft-labs/motionpanel/internal/domain"
)

// loadCSV reads a delimited text export. The delimiter is sniffed from the
// first line so semicolon exports with comma decimals load unchanged.
func loadCSV(ctx context.Context, path string) (*Sheet, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open csv: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	r := csv.NewReader(br)
	r.Comma = sniffDelimiter(br, filepath.Ext(path))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	var rows [][]domain.Cell
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read csv: %w", err)
		}
		row := make([]domain.Cell, len(record))
		for i, v := range record {
			row[i] = domain.CellFromString(v)
		}
		rows = append(rows, row)
	}
	return NewSheet(filepath.Base(path), rows), nil
}

func sniffDelimiter(br *bufio.Reader, ext string) rune {
	if strings.EqualFold(ext, ".tsv") {
		return '\t'
	}
	head, _ := br.Peek(4096)
	line, _, _ := strings.Cut(string(head), "\n")
	if strings.Count(line, ";") > strings.Count(line, ",") {
		return ';'
	}
	if strings.Count(line, "\t") > strings.Count(line, ",") {
		return '\t'
	}
	return ','
}
