package testutil

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// AnnotationHeader is the column layout of the sample workbook
var AnnotationHeader = []interface{}{
	"Locus_Tag", "Gene_Name", "GENE", "eggnog_Preferred_name", "Gene_Product",
	"PGPT_CATEGORY_1", "PGPT_CATEGORY_3", "Length",
}

// AnnotationRows is the body of the sample workbook
var AnnotationRows = [][]interface{}{
	{"SN_0001", "fhuA_1", "fhuA", "fhuA", "Ferrichrome outer membrane transporter", "DIRECT_EFFECTS", "IRON_ACQUISITION", 2145},
	{"SN_0002", "fhuA_2", "fhuA", nil, "Ferrichrome outer membrane transporter", "DIRECT_EFFECTS", "IRON_ACQUISITION", 2130},
	{"SN_0003", "nifH", "nifH", "nifH2", "Nitrogenase iron protein", "DIRECT_EFFECTS", "NITROGEN_FIXATION", 894},
	{"SN_0004", "cry1Ac", "cry", "cry1A", "Insecticidal crystal protein", "INDIRECT_EFFECTS", "BIOCONTROL", 3537},
}

// BuildWorkbook writes rows into a sheet of a new workbook and returns its bytes
func BuildWorkbook(t *testing.T, sheet string, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()
	require.NoError(t, f.SetSheetName(f.GetSheetName(0), sheet))

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		values := row
		require.NoError(t, f.SetSheetRow(sheet, cell, &values))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

// AnnotationWorkbook returns a small SuperNova workbook with an Annotation sheet
func AnnotationWorkbook(t *testing.T) []byte {
	t.Helper()
	rows := append([][]interface{}{AnnotationHeader}, AnnotationRows...)
	return BuildWorkbook(t, "Annotation", rows)
}
