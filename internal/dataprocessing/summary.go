package dataprocessing

import (
	"supernova/pkg/contracts/domain"
)

// NarrowToCategory keeps the rows of the single group that AggregateGroups
// labels category. The ShowAll sentinel, or an empty category, keeps every
// row; an unknown label keeps none.
func NarrowToCategory(table *domain.AnnotationTable, column, category string) *domain.AnnotationTable {
	if category == "" || category == domain.ShowAll {
		return table.Subset(func(domain.Row) bool { return true })
	}
	return NarrowToGroups(table, column, AggregateGroups(table, column), category)
}

// NarrowToGroups is NarrowToCategory over groups already aggregated from
// table, matching rows by the chosen group's exact key.
func NarrowToGroups(table *domain.AnnotationTable, column string, groups []domain.GroupRecord, category string) *domain.AnnotationTable {
	idx := table.ColumnIndex(column)
	for _, g := range groups {
		if g.Label == category && idx >= 0 {
			key := g.Key
			return table.Subset(func(row domain.Row) bool { return row.At(idx) == key })
		}
	}
	return table.Subset(func(domain.Row) bool { return false })
}

// Summarize derives one SummaryRow per table row. When category names a
// single selected group, every Feature is that category; otherwise Feature
// is the row's own taxonomy value. Absent columns degrade to the
// placeholder.
func Summarize(table *domain.AnnotationTable, taxonomy, category string) []domain.SummaryRow {
	geneIdx := table.ColumnIndex(domain.ColumnGeneName)
	productIdx := table.ColumnIndex(domain.ColumnGeneProduct)
	taxonomyIdx := table.ColumnIndex(taxonomy)
	narrowed := category != "" && category != domain.ShowAll

	synonymIdx := make([]int, 0, len(domain.SynonymColumns))
	for _, col := range domain.SynonymColumns {
		if idx := table.ColumnIndex(col); idx >= 0 {
			synonymIdx = append(synonymIdx, idx)
		}
	}

	summary := make([]domain.SummaryRow, 0, table.Len())
	for _, row := range table.Rows {
		s := domain.SummaryRow{
			GeneName: row.At(geneIdx).OrPlaceholder(domain.Placeholder),
			Synonyms: synonyms(row, synonymIdx),
			Product:  row.At(productIdx).OrPlaceholder(domain.Placeholder),
		}
		if narrowed {
			s.Feature = category
		} else {
			s.Feature = row.At(taxonomyIdx).OrPlaceholder(domain.Placeholder)
		}
		summary = append(summary, s)
	}
	return summary
}

func synonyms(row domain.Row, columns []int) string {
	set := make(map[string]struct{}, len(columns))
	for _, idx := range columns {
		if v := row.At(idx); !v.IsMissing() {
			set[v.String()] = struct{}{}
		}
	}
	if len(set) == 0 {
		return domain.Placeholder
	}
	return joinSorted(set)
}
