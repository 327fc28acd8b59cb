package dataprocessing

import (
	"fmt"
	"time"

	"supernova/pkg/contracts/domain"
)

// Pipeline evaluates one dashboard interaction end to end:
// filter, group, narrow and summarize. It holds configuration only and is
// safe for concurrent use.
type Pipeline struct {
	MatchTimeout time.Duration
}

// NewPipeline creates a pipeline with the given per-cell keyword match timeout
func NewPipeline(matchTimeout time.Duration) *Pipeline {
	if matchTimeout <= 0 {
		matchTimeout = DefaultMatchTimeout
	}
	return &Pipeline{MatchTimeout: matchTimeout}
}

// Evaluate recomputes the whole view from the uploaded table. Empty search
// results are reported as notices, not errors.
func (p *Pipeline) Evaluate(table *domain.AnnotationTable, q domain.ViewQuery) (*domain.DashboardView, error) {
	view := &domain.DashboardView{
		Keyword:    q.Keyword,
		TotalRows:  table.Len(),
		Groups:     []domain.GroupRecord{},
		Categories: []string{domain.ShowAll},
		Category:   domain.ShowAll,
		Summary:    []domain.SummaryRow{},
		Notices:    []domain.Notice{},
	}

	view.TaxonomyOptions = TaxonomyOptions(table)
	taxonomy, err := ResolveTaxonomy(view.TaxonomyOptions, q.Taxonomy)
	if err != nil {
		return nil, err
	}
	view.Taxonomy = taxonomy

	filtered, err := FilterRowsWithTimeout(table, q.Keyword, p.MatchTimeout)
	if err != nil {
		return nil, err
	}
	view.MatchedRows = filtered.Len()
	view.Rows = filtered

	if filtered.IsEmpty() {
		if q.Keyword != "" {
			view.Notices = append(view.Notices, warning(fmt.Sprintf("No results found for: '%s'.", q.Keyword)))
		}
		view.Notices = append(view.Notices, info("No data available to display."))
		return view, nil
	}

	if taxonomy == "" {
		view.Notices = append(view.Notices, info("No PGPT category columns found; grouping is unavailable."))
	} else {
		view.Groups = AggregateGroups(filtered, taxonomy)
		for _, g := range view.Groups {
			view.Categories = append(view.Categories, g.Label)
		}
	}

	if q.Narrowed() {
		if contains(view.Categories, q.Category) {
			view.Category = q.Category
		} else {
			view.Notices = append(view.Notices, warning(fmt.Sprintf("Category '%s' is not in the current result; showing all.", q.Category)))
		}
	}

	result := filtered
	if view.Category != domain.ShowAll {
		result = NarrowToGroups(filtered, taxonomy, view.Groups, view.Category)
	}
	view.Rows = result
	if result.IsEmpty() {
		view.Notices = append(view.Notices, info("No summary data to display."))
		return view, nil
	}
	view.Summary = Summarize(result, taxonomy, view.Category)

	return view, nil
}

func info(msg string) domain.Notice {
	return domain.Notice{Level: domain.NoticeInfo, Message: msg}
}

func warning(msg string) domain.Notice {
	return domain.Notice{Level: domain.NoticeWarning, Message: msg}
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
