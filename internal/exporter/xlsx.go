package exporter

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// XLSXWriter writes datasets as single-sheet workbooks
type XLSXWriter struct{}

// NewXLSXWriter creates a new XLSX writer instance
func NewXLSXWriter() *XLSXWriter {
	return &XLSXWriter{}
}

// WriteDataset writes the dataset into a sheet named after it. Numbers
// stay numeric and missing cells are left empty.
func (x *XLSXWriter) WriteDataset(w io.Writer, d Dataset) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := d.Sheet
	if sheet == "" {
		sheet = "Sheet1"
	}
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	sw, err := f.NewStreamWriter(sheet)
	if err != nil {
		return fmt.Errorf("failed to open sheet writer: %w", err)
	}

	header := make([]interface{}, len(d.Headers))
	for i, h := range d.Headers {
		header[i] = h
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("failed to write headers: %w", err)
	}

	for i, row := range d.Rows {
		cells := make([]interface{}, len(row))
		for j, v := range row {
			cells[j] = cellValue(v)
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, cells); err != nil {
			return fmt.Errorf("failed to write record %d: %w", i, err)
		}
	}

	if err := sw.Flush(); err != nil {
		return fmt.Errorf("failed to flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}
