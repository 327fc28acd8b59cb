// Package exporter writes the dashboard's current result as a download.
//
// Three datasets can be exported:
//
// rows: the narrowed result rows with the workbook's own columns. Missing
// cells are written as empty cells.
//
// summary: the four-column summary table (Gene_Name, Synonymous Gene Names,
// Gene_Product, Feature).
//
// groups: one line per group with its label, row count and gene list.
//
// Each dataset is written as CSV, with a UTF-8 BOM so spreadsheet tools pick
// the right encoding, or as an XLSX workbook with a single sheet named after
// the dataset.
//
// Example usage:
//
//	exp := exporter.New()
//	if err := exp.Export(w, exporter.KindSummary, exporter.FormatCSV, view); err != nil {
//		return err
//	}
package exporter
