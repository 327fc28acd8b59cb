package dataprocessing

import (
	"fmt"
	"io"
	"math"
	"strconv"

	"github.com/xuri/excelize/v2"

	"supernova/pkg/contracts/domain"
)

// ParseWorkbook reads the Annotation sheet of a SuperNova workbook.
// The first sheet row is the header; every later non-blank row becomes a
// table row.
func ParseWorkbook(r io.Reader) (*domain.AnnotationTable, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: open workbook: %v", ErrSheetRead, err)
	}
	defer f.Close()

	return readSheet(f, domain.AnnotationSheet)
}

func readSheet(f *excelize.File, sheet string) (*domain.AnnotationTable, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("%w: sheet %q: %v", ErrSheetRead, sheet, err)
	}
	if len(rows) == 0 || len(rows[0]) == 0 {
		return nil, fmt.Errorf("%w: sheet %q has no header row", ErrSheetRead, sheet)
	}

	width := 0
	for _, row := range rows {
		if len(row) > width {
			width = len(row)
		}
	}
	columns := headerNames(rows[0], width)

	records := make([]domain.Row, 0, len(rows)-1)
	for i, raw := range rows[1:] {
		sheetRow := i + 2
		values := make(domain.Row, width)
		blank := true
		for c := 0; c < width; c++ {
			if c >= len(raw) || raw[c] == "" {
				values[c] = domain.Missing()
				continue
			}
			blank = false
			values[c] = cellValue(f, sheet, c+1, sheetRow, raw[c])
		}
		if blank {
			continue
		}
		records = append(records, values)
	}

	return domain.NewAnnotationTable(columns, records), nil
}

// headerNames applies spreadsheet-reader naming: empty headers become
// "Unnamed: <i>" and repeated names get ".1", ".2" suffixes.
func headerNames(header []string, width int) []string {
	names := make([]string, width)
	suffix := make(map[string]int, width)
	used := make(map[string]bool, width)
	for i := 0; i < width; i++ {
		base := ""
		if i < len(header) {
			base = header[i]
		}
		if base == "" {
			base = "Unnamed: " + strconv.Itoa(i)
		}
		name := base
		for used[name] {
			suffix[base]++
			name = base + "." + strconv.Itoa(suffix[base])
		}
		used[name] = true
		names[i] = name
	}
	return names
}

func cellValue(f *excelize.File, sheet string, col, row int, raw string) domain.Value {
	cell, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return domain.Text(raw)
	}
	cellType, err := f.GetCellType(sheet, cell)
	if err != nil {
		return domain.Text(raw)
	}

	switch cellType {
	// CellTypeFormula is a formula with a cached string result (t="str");
	// numeric formula results carry no type and parse as numbers below.
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return domain.Text(raw)
	case excelize.CellTypeBool:
		if raw == "1" {
			return domain.Text("True")
		}
		return domain.Text("False")
	}
	if n, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		return domain.Number(n)
	}
	return domain.Text(raw)
}
