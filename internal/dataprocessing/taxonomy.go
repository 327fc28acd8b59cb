package dataprocessing

import (
	"fmt"

	"supernova/pkg/contracts/domain"
)

// TaxonomyOptions lists the taxonomy columns present in the table, coarse
// to fine.
func TaxonomyOptions(table *domain.AnnotationTable) []string {
	options := make([]string, 0, domain.TaxonomyLevels)
	for level := 1; level <= domain.TaxonomyLevels; level++ {
		if col := domain.TaxonomyColumn(level); table.HasColumn(col) {
			options = append(options, col)
		}
	}
	return options
}

// DefaultTaxonomy picks level 3 when offered, else the first option.
// It returns "" when there are no options.
func DefaultTaxonomy(options []string) string {
	preferred := domain.TaxonomyColumn(domain.DefaultTaxonomyLevel)
	for _, opt := range options {
		if opt == preferred {
			return opt
		}
	}
	if len(options) > 0 {
		return options[0]
	}
	return ""
}

// ResolveTaxonomy validates a requested grouping column against the
// options. An empty request selects the default.
func ResolveTaxonomy(options []string, requested string) (string, error) {
	if requested == "" {
		return DefaultTaxonomy(options), nil
	}
	for _, opt := range options {
		if opt == requested {
			return opt, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrUnknownTaxonomy, requested)
}
