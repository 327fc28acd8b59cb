package dataprocessing

import "errors"

var (
	// ErrSheetRead is returned when the Annotation sheet is missing or unreadable
	ErrSheetRead = errors.New("annotation sheet could not be read")
	// ErrFilterFailed is returned when the keyword itself breaks matching.
	// It is distinct from a search that simply matches nothing.
	ErrFilterFailed = errors.New("keyword filter failed")
	// ErrUnknownTaxonomy is returned for a grouping column the table does not have
	ErrUnknownTaxonomy = errors.New("taxonomy column not present in table")
)
