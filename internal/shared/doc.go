// Package shared holds helpers used across the dashboard packages.
//
// The testutil subpackage provides:
//
//	- A buffered slog handler for asserting on log output
//	- Workbook fixtures built with excelize for parser, service and handler tests
//
// It must not contain business logic.
package shared
