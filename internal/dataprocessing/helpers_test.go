package dataprocessing

import (
	"testing"

	"supernova/internal/shared/testutil"
	"supernova/pkg/contracts/domain"
)

// newTable builds an AnnotationTable from loosely typed cells:
// nil is Missing, strings are Text and numbers are Number.
func newTable(columns []string, rows ...[]interface{}) *domain.AnnotationTable {
	records := make([]domain.Row, 0, len(rows))
	for _, cells := range rows {
		row := make(domain.Row, len(columns))
		for i := range columns {
			var cell interface{}
			if i < len(cells) {
				cell = cells[i]
			}
			switch v := cell.(type) {
			case nil:
				row[i] = domain.Missing()
			case string:
				row[i] = domain.Text(v)
			case int:
				row[i] = domain.Number(float64(v))
			case float64:
				row[i] = domain.Number(v)
			default:
				panic("unsupported cell type")
			}
		}
		records = append(records, row)
	}
	return domain.NewAnnotationTable(columns, records)
}

// scenarioTable is the three-row table used by the end-to-end scenarios
func scenarioTable() *domain.AnnotationTable {
	return newTable([]string{"cat", domain.ColumnGeneName},
		[]interface{}{"X", "abc_1"},
		[]interface{}{"X", "abc_2"},
		[]interface{}{"Y", "def_1"},
	)
}

// annotationTable resembles a real SuperNova export
func annotationTable() *domain.AnnotationTable {
	return newTable(
		[]string{"Locus", domain.ColumnGeneName, "GENE", "eggnog_Preferred_name", domain.ColumnGeneProduct, "PGPT_CATEGORY_1", "PGPT_CATEGORY_3"},
		[]interface{}{"L1", "fhuA_1", "fhuA", "fhuA", "Ferrichrome outer membrane transporter", "DIRECT_EFFECTS", "IRON_ACQUISITION"},
		[]interface{}{"L2", "fhuA_2", "fhuA", nil, "Ferrichrome outer membrane transporter", "DIRECT_EFFECTS", "IRON_ACQUISITION"},
		[]interface{}{"L3", "nifH", "nifH", "nifH2", "Nitrogenase iron protein", "DIRECT_EFFECTS", "NITROGEN_FIXATION"},
		[]interface{}{"L4", nil, nil, nil, nil, "INDIRECT_EFFECTS", nil},
		[]interface{}{"L5", "cry1Ac", "cry", "cry1A", "Insecticidal crystal protein", "INDIRECT_EFFECTS", "BIOCONTROL"},
	)
}

// buildWorkbook writes rows into a sheet of a new workbook and returns its bytes
func buildWorkbook(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()
	return testutil.BuildWorkbook(t, sheet, rows)
}
