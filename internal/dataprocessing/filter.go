package dataprocessing

import (
	"fmt"
	"time"

	"github.com/dlclark/regexp2"

	"supernova/pkg/contracts/domain"
)

// DefaultMatchTimeout bounds a single cell match so that a pathological
// keyword surfaces as a filter error instead of stalling the request.
const DefaultMatchTimeout = 2 * time.Second

// KeywordMatcher tests cell text against a case-insensitive keyword pattern.
// Keywords use Python-style regular expression syntax, so plain words match
// as substrings.
type KeywordMatcher struct {
	keyword string
	re      *regexp2.Regexp
}

// CompileKeyword prepares a keyword for matching
func CompileKeyword(keyword string, timeout time.Duration) (*KeywordMatcher, error) {
	re, err := regexp2.Compile(keyword, regexp2.IgnoreCase)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %v", ErrFilterFailed, keyword, err)
	}
	if timeout <= 0 {
		timeout = DefaultMatchTimeout
	}
	re.MatchTimeout = timeout
	return &KeywordMatcher{keyword: keyword, re: re}, nil
}

// MatchRow reports whether any non-missing cell of the row contains the keyword
func (m *KeywordMatcher) MatchRow(row domain.Row) (bool, error) {
	for _, v := range row {
		if v.IsMissing() {
			continue
		}
		ok, err := m.re.MatchString(v.String())
		if err != nil {
			return false, fmt.Errorf("%w: %q: %v", ErrFilterFailed, m.keyword, err)
		}
		if ok {
			return true, nil
		}
	}
	return false, nil
}

// FilterRows returns the rows of table with at least one cell matching the
// keyword. An empty keyword keeps every row. A result with zero rows is not
// an error; ErrFilterFailed means the keyword itself could not be applied.
func FilterRows(table *domain.AnnotationTable, keyword string) (*domain.AnnotationTable, error) {
	return FilterRowsWithTimeout(table, keyword, DefaultMatchTimeout)
}

// FilterRowsWithTimeout is FilterRows with an explicit per-cell match timeout
func FilterRowsWithTimeout(table *domain.AnnotationTable, keyword string, timeout time.Duration) (*domain.AnnotationTable, error) {
	if keyword == "" {
		return table.Subset(func(domain.Row) bool { return true }), nil
	}

	matcher, err := CompileKeyword(keyword, timeout)
	if err != nil {
		return nil, err
	}

	var matchErr error
	filtered := table.Subset(func(row domain.Row) bool {
		if matchErr != nil {
			return false
		}
		ok, err := matcher.MatchRow(row)
		if err != nil {
			matchErr = err
			return false
		}
		return ok
	})
	if matchErr != nil {
		return nil, matchErr
	}
	return filtered, nil
}
