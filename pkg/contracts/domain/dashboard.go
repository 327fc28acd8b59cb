package domain

import "time"

const (
	// Placeholder replaces missing values in derived tables
	Placeholder = "-"
	// ShowAll is the category sentinel meaning "no narrowing"
	ShowAll = "Show all"
	// BlankCategory labels the group of rows whose taxonomy value is missing
	BlankCategory = "(blank)"
)

// ViewQuery carries the widget state of one dashboard interaction
type ViewQuery struct {
	Keyword  string `json:"keyword" validate:"max=256"`
	Taxonomy string `json:"taxonomy" validate:"omitempty,taxonomy"`
	Category string `json:"category" validate:"max=512"`
}

// Narrowed reports whether the query restricts rows to a single category
func (q ViewQuery) Narrowed() bool {
	return q.Category != "" && q.Category != ShowAll
}

// NoticeLevel grades informational outcomes shown to the user
type NoticeLevel string

const (
	NoticeInfo    NoticeLevel = "info"
	NoticeWarning NoticeLevel = "warning"
)

// Notice is a non-error message such as an empty search result
type Notice struct {
	Level   NoticeLevel `json:"level"`
	Message string      `json:"message"`
}

// DashboardView is the outcome of one full pipeline evaluation
type DashboardView struct {
	FileName        string           `json:"file_name,omitempty"`
	Keyword         string           `json:"keyword"`
	TotalRows       int              `json:"total_rows"`
	MatchedRows     int              `json:"matched_rows"`
	TaxonomyOptions []string         `json:"taxonomy_options"`
	Taxonomy        string           `json:"taxonomy"`
	Groups          []GroupRecord    `json:"groups"`
	Categories      []string         `json:"categories"`
	Category        string           `json:"category"`
	Rows            *AnnotationTable `json:"rows"`
	Summary         []SummaryRow     `json:"summary"`
	Notices         []Notice         `json:"notices"`
}

// UploadSummary describes a freshly parsed workbook
type UploadSummary struct {
	FileName        string    `json:"file_name"`
	Rows            int       `json:"rows"`
	Columns         []string  `json:"columns"`
	TaxonomyOptions []string  `json:"taxonomy_options"`
	UploadedAt      time.Time `json:"uploaded_at"`
}
