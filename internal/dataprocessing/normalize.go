package dataprocessing

import (
	"regexp"

	"supernova/pkg/contracts/domain"
)

// copySuffix matches the run of "_<digits>" suffixes that marks paralogous
// copies of a gene, e.g. "abcB_12" or "abcB_1_2".
var copySuffix = regexp.MustCompile(`(?:_\d+)+$`)

// NormalizeGeneName strips the trailing underscore-digits suffixes from a
// gene identifier, so normalizing an already normalized name is a no-op.
// Names without a suffix are returned unchanged.
func NormalizeGeneName(name string) string {
	return copySuffix.ReplaceAllString(name, "")
}

// NormalizeGeneValue coerces a cell to text before normalizing it
func NormalizeGeneValue(v domain.Value) string {
	return NormalizeGeneName(v.String())
}
