package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Column names of the SuperNova annotation sheet that the dashboard reads.
// Every other column passes through untouched.
const (
	AnnotationSheet      = "Annotation"
	ColumnGeneName       = "Gene_Name"
	ColumnGeneProduct    = "Gene_Product"
	TaxonomyColumnPrefix = "PGPT_CATEGORY_"
	TaxonomyLevels       = 6
	DefaultTaxonomyLevel = 3
)

// SynonymColumns lists the alternate gene-name columns in lookup order.
var SynonymColumns = []string{"GENE", "eggnog_Preferred_name"}

// TaxonomyColumn returns the taxonomy column name for a classification level.
func TaxonomyColumn(level int) string {
	return TaxonomyColumnPrefix + strconv.Itoa(level)
}

// ValueKind discriminates the cell types found in an annotation sheet
type ValueKind uint8

const (
	KindMissing ValueKind = iota
	KindText
	KindNumber
)

// Value is a single annotation cell. Values are comparable and can be used
// as map keys for grouping.
type Value struct {
	Kind   ValueKind
	Text   string
	Number float64
}

// Missing returns the absent-cell marker
func Missing() Value { return Value{Kind: KindMissing} }

// Text wraps a string cell
func Text(s string) Value { return Value{Kind: KindText, Text: s} }

// Number wraps a numeric cell
func Number(f float64) Value { return Value{Kind: KindNumber, Number: f} }

// IsMissing reports whether the cell is absent
func (v Value) IsMissing() bool { return v.Kind == KindMissing }

// String returns the cell's text form. Missing cells render as "".
func (v Value) String() string {
	switch v.Kind {
	case KindText:
		return v.Text
	case KindNumber:
		return strconv.FormatFloat(v.Number, 'f', -1, 64)
	default:
		return ""
	}
}

// OrPlaceholder returns the text form, or placeholder when the cell is missing
func (v Value) OrPlaceholder(placeholder string) string {
	if v.IsMissing() {
		return placeholder
	}
	return v.String()
}

// MarshalJSON encodes missing as null, numbers as JSON numbers and text as strings
func (v Value) MarshalJSON() ([]byte, error) {
	switch v.Kind {
	case KindText:
		return json.Marshal(v.Text)
	case KindNumber:
		return json.Marshal(v.Number)
	default:
		return []byte("null"), nil
	}
}

// UnmarshalJSON is the inverse of MarshalJSON
func (v *Value) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case bytes.Equal(data, []byte("null")):
		*v = Missing()
	case len(data) > 0 && data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*v = Text(s)
	default:
		var f float64
		if err := json.Unmarshal(data, &f); err != nil {
			return fmt.Errorf("decode cell value %s: %w", data, err)
		}
		*v = Number(f)
	}
	return nil
}

// Row holds one value per table column, positionally aligned with Columns
type Row []Value

// At returns the value at index i, or Missing when the row is short
func (r Row) At(i int) Value {
	if i < 0 || i >= len(r) {
		return Missing()
	}
	return r[i]
}

// AnnotationTable is an ordered, immutable sequence of annotation rows.
// Transformations return new tables and never modify their input.
type AnnotationTable struct {
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
}

// NewAnnotationTable builds a table from a header and rows
func NewAnnotationTable(columns []string, rows []Row) *AnnotationTable {
	if rows == nil {
		rows = []Row{}
	}
	return &AnnotationTable{Columns: columns, Rows: rows}
}

// Len returns the number of rows
func (t *AnnotationTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.Rows)
}

// IsEmpty reports whether the table has no rows
func (t *AnnotationTable) IsEmpty() bool { return t.Len() == 0 }

// ColumnIndex returns the position of a column, or -1 when absent
func (t *AnnotationTable) ColumnIndex(name string) int {
	if t == nil {
		return -1
	}
	for i, c := range t.Columns {
		if c == name {
			return i
		}
	}
	return -1
}

// HasColumn reports whether the table schema contains the column
func (t *AnnotationTable) HasColumn(name string) bool {
	return t.ColumnIndex(name) >= 0
}

// Subset returns a new table with the rows for which keep returns true.
// Row order and columns are preserved.
func (t *AnnotationTable) Subset(keep func(Row) bool) *AnnotationTable {
	columns := make([]string, len(t.Columns))
	copy(columns, t.Columns)

	rows := make([]Row, 0, len(t.Rows))
	for _, row := range t.Rows {
		if keep(row) {
			rows = append(rows, row)
		}
	}
	return NewAnnotationTable(columns, rows)
}

// GroupRecord is one partition of the filtered table by the active
// taxonomy column.
type GroupRecord struct {
	Key   Value  `json:"key"`
	Label string `json:"label"`
	Count int    `json:"count"`
	Genes string `json:"genes"`
}

// SummaryRow is the display-ready digest of one annotation row
type SummaryRow struct {
	GeneName string `json:"gene_name"`
	Synonyms string `json:"synonyms"`
	Product  string `json:"gene_product"`
	Feature  string `json:"feature"`
}

// SummaryHeaders are the column titles used when summary rows are exported
var SummaryHeaders = []string{"Gene_Name", "Synonymous Gene Names", "Gene_Product", "Feature"}

// Record flattens the summary row in SummaryHeaders order
func (s SummaryRow) Record() []string {
	return []string{s.GeneName, s.Synonyms, s.Product, s.Feature}
}
