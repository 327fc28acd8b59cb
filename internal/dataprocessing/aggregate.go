package dataprocessing

import (
	"sort"
	"strconv"
	"strings"

	"supernova/pkg/contracts/domain"
)

// GroupLabel is the display form of a group key. Distinct keys can share a
// display form (Number 1 and Text "1"); AggregateGroups makes the labels it
// hands out unique.
func GroupLabel(key domain.Value) string {
	if key.IsMissing() {
		return domain.BlankCategory
	}
	return key.String()
}

type partition struct {
	record domain.GroupRecord
	genes  map[string]struct{}
}

// AggregateGroups partitions the table by exact value of the taxonomy
// column and reports, per partition, the row count and the sorted,
// de-duplicated list of normalized gene names. Rows with a missing
// taxonomy value form their own partition. Partitions are emitted in
// first-seen order and carry unique labels: a label already taken by an
// earlier partition, or equal to the ShowAll sentinel, gets a " (n)" suffix.
// A column absent from the table yields no groups.
func AggregateGroups(table *domain.AnnotationTable, column string) []domain.GroupRecord {
	keyIdx := table.ColumnIndex(column)
	if keyIdx < 0 {
		return nil
	}
	geneIdx := table.ColumnIndex(domain.ColumnGeneName)

	order := make([]domain.Value, 0)
	parts := make(map[domain.Value]*partition)
	for _, row := range table.Rows {
		key := row.At(keyIdx)
		p, ok := parts[key]
		if !ok {
			p = &partition{
				record: domain.GroupRecord{Key: key, Label: GroupLabel(key)},
				genes:  make(map[string]struct{}),
			}
			parts[key] = p
			order = append(order, key)
		}
		p.record.Count++

		if geneIdx < 0 {
			continue
		}
		if gene := row.At(geneIdx); !gene.IsMissing() {
			p.genes[NormalizeGeneValue(gene)] = struct{}{}
		}
	}

	used := map[string]bool{domain.ShowAll: true}
	groups := make([]domain.GroupRecord, 0, len(order))
	for _, key := range order {
		p := parts[key]
		p.record.Label = uniqueLabel(used, p.record.Label)
		p.record.Genes = joinSorted(p.genes)
		groups = append(groups, p.record)
	}
	return groups
}

func uniqueLabel(used map[string]bool, label string) string {
	name := label
	for n := 2; used[name]; n++ {
		name = label + " (" + strconv.Itoa(n) + ")"
	}
	used[name] = true
	return name
}

// joinSorted joins a string set alphabetically with ", "
func joinSorted(set map[string]struct{}) string {
	names := make([]string, 0, len(set))
	for name := range set {
		names = append(names, name)
	}
	sort.Strings(names)
	return strings.Join(names, ", ")
}
