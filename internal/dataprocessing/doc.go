// Package dataprocessing turns an uploaded SuperNova annotation workbook
// into the tables the dashboard displays.
//
// # Components
//
//	Parser      - reads the "Annotation" sheet into an AnnotationTable
//	Normalizer  - strips "_<n>" copy suffixes from gene names
//	Filter      - keeps rows with a cell matching a case-insensitive keyword
//	Aggregator  - groups rows by a PGPT_CATEGORY_<n> column
//	Summarizer  - derives gene / synonym / product / feature rows
//	Pipeline    - runs filter, aggregate and summarize for one interaction
//
// # Data Flow
//
//	Excel File → Parser → AnnotationTable → Filter → Aggregator → groups
//	                                           └────→ Summarizer → summary
//
// Every function is a pure transformation: input tables are never
// modified and no state is kept between calls.
//
// # Usage
//
//	table, err := dataprocessing.ParseWorkbook(upload)
//	if err != nil {
//	    return err // errors.Is(err, dataprocessing.ErrSheetRead)
//	}
//	view, err := dataprocessing.NewPipeline(0).Evaluate(table, domain.ViewQuery{Keyword: "iron"})
package dataprocessing
