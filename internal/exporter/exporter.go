package exporter

import (
	"io"
	"log/slog"

	"supernova/pkg/contracts/domain"
)

// Exporter renders a DashboardView dataset into a download format
type Exporter struct {
	csv  *CSVWriter
	xlsx *XLSXWriter
}

// New creates an exporter with CSV and XLSX writers
func New() *Exporter {
	return &Exporter{csv: NewCSVWriter(), xlsx: NewXLSXWriter()}
}

// DatasetFor selects the dataset of view that kind names
func DatasetFor(view *domain.DashboardView, kind Kind) (Dataset, error) {
	if view == nil {
		view = &domain.DashboardView{}
	}
	switch kind {
	case KindRows:
		return RowsDataset(view.Rows), nil
	case KindSummary:
		return SummaryDataset(view.Summary), nil
	case KindGroups:
		return GroupsDataset(view.Taxonomy, view.Groups), nil
	default:
		_, err := ParseKind(string(kind))
		return Dataset{}, err
	}
}

// Export writes the kind dataset of view to w in the given format
func (e *Exporter) Export(w io.Writer, kind Kind, format Format, view *domain.DashboardView) error {
	d, err := DatasetFor(view, kind)
	if err != nil {
		return err
	}

	slog.Debug("Writing export",
		slog.String("kind", string(kind)),
		slog.String("format", string(format)),
		slog.Int("record_count", len(d.Rows)))

	switch format {
	case FormatCSV:
		return e.csv.WriteDataset(w, d)
	case FormatXLSX:
		return e.xlsx.WriteDataset(w, d)
	default:
		_, err := ParseFormat(string(format))
		return err
	}
}
