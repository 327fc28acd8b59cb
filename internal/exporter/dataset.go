package exporter

import (
	"supernova/pkg/contracts/domain"
)

// Dataset is a rectangular export: a header line plus typed cells
type Dataset struct {
	Sheet   string
	Headers []string
	Rows    [][]domain.Value
}

// Records renders every cell in its string form; missing cells are empty
func (d Dataset) Records() [][]string {
	records := make([][]string, len(d.Rows))
	for i, row := range d.Rows {
		record := make([]string, len(row))
		for j, v := range row {
			record[j] = v.String()
		}
		records[i] = record
	}
	return records
}

// RowsDataset exports a table with its own columns
func RowsDataset(table *domain.AnnotationTable) Dataset {
	d := Dataset{Sheet: string(KindRows)}
	if table == nil {
		return d
	}
	d.Headers = append([]string(nil), table.Columns...)
	d.Rows = make([][]domain.Value, 0, table.Len())
	for _, row := range table.Rows {
		cells := make([]domain.Value, len(table.Columns))
		for i := range table.Columns {
			cells[i] = row.At(i)
		}
		d.Rows = append(d.Rows, cells)
	}
	return d
}

// SummaryDataset exports summary rows under the fixed summary headers
func SummaryDataset(summary []domain.SummaryRow) Dataset {
	d := Dataset{
		Sheet:   string(KindSummary),
		Headers: append([]string(nil), domain.SummaryHeaders...),
		Rows:    make([][]domain.Value, 0, len(summary)),
	}
	for _, s := range summary {
		record := s.Record()
		cells := make([]domain.Value, len(record))
		for i, text := range record {
			cells[i] = domain.Text(text)
		}
		d.Rows = append(d.Rows, cells)
	}
	return d
}

// GroupsDataset exports group records; the first header is the taxonomy column
func GroupsDataset(taxonomy string, groups []domain.GroupRecord) Dataset {
	if taxonomy == "" {
		taxonomy = "Group"
	}
	d := Dataset{
		Sheet:   string(KindGroups),
		Headers: []string{taxonomy, "Count", "Genes"},
		Rows:    make([][]domain.Value, 0, len(groups)),
	}
	for _, g := range groups {
		d.Rows = append(d.Rows, []domain.Value{
			domain.Text(g.Label),
			domain.Number(float64(g.Count)),
			domain.Text(g.Genes),
		})
	}
	return d
}

// cellValue converts a Value into what excelize should store
func cellValue(v domain.Value) interface{} {
	switch v.Kind {
	case domain.KindNumber:
		return v.Number
	case domain.KindText:
		return v.Text
	default:
		return nil
	}
}
