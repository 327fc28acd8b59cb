package exporter

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrUnknownKind is returned for an export kind other than rows, summary or groups
	ErrUnknownKind = errors.New("unknown export kind")
	// ErrUnknownFormat is returned for an export format other than csv or xlsx
	ErrUnknownFormat = errors.New("unknown export format")
)

// Kind selects which dataset of the view is exported
type Kind string

const (
	KindRows    Kind = "rows"
	KindSummary Kind = "summary"
	KindGroups  Kind = "groups"
)

// Format selects the file encoding of an export
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseKind validates an export kind
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(s)); k {
	case KindRows, KindSummary, KindGroups:
		return k, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
	}
}

// ParseFormat validates an export format
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(s)); f {
	case FormatCSV, FormatXLSX:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type served for the format
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// FileName builds the download name, e.g. "genome_summary.csv" for an
// upload named "genome.xlsx".
func FileName(upload string, kind Kind, format Format) string {
	base := strings.TrimSuffix(upload, ".xlsx")
	base = strings.TrimSuffix(base, ".XLSX")
	base = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', '"', ':', '*', '?', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(base))
	if base == "" {
		base = "supernova"
	}
	return fmt.Sprintf("%s_%s.%s", base, kind, format)
}
