package engine

import (
	"github.com/maxviazov/winmix-match-service/internal/model"
)

// QueryParams is everything a caller passes per query; the engine keeps nothing between calls.
type QueryParams struct {
	Filter   model.FilterSpec
	TeamMode TeamMatchMode
	Sort     model.SortConfig
	Page     model.Page
}

// Result is one page of the filtered, sorted set. TotalCount and Statistics always describe
// the full filtered set, never just the page.
type Result struct {
	Items      []model.Match
	TotalCount int
	Statistics model.Statistics
	Skipped    []RowError
}

// Validate rejects specifications the engine refuses to clamp.
func (q QueryParams) Validate() error {
	var ferrs []FieldError
	if r := q.Filter.DateRange; r != nil && !r.From.IsZero() && !r.To.IsZero() && r.From.After(r.To) {
		ferrs = append(ferrs, FieldError{Field: "date_range", Message: "from must not be after to"})
	}
	if q.Page.Size <= 0 {
		ferrs = append(ferrs, FieldError{Field: "page.size", Message: "must be > 0"})
	}
	if q.Page.Number < 0 {
		ferrs = append(ferrs, FieldError{Field: "page.number", Message: "must be >= 0"})
	}
	return newQueryError(ferrs)
}

// Query derives raw rows and runs QueryMatches over them. Malformed rows are skipped and
// reported in Result.Skipped.
func Query(rows []model.RawRow, q QueryParams) (Result, error) {
	if err := q.Validate(); err != nil {
		return Result{}, err
	}
	matches, skipped := Ingest(rows)
	res := query(matches, q)
	res.Skipped = skipped
	return res, nil
}

// QueryMatches filters, aggregates, sorts and pages already derived matches.
func QueryMatches(matches []model.Match, q QueryParams) (Result, error) {
	if err := q.Validate(); err != nil {
		return Result{}, err
	}
	return query(matches, q), nil
}

func query(matches []model.Match, q QueryParams) Result {
	filtered := Filter(matches, q.Filter, q.TeamMode)
	res := Result{
		TotalCount: len(filtered),
		Statistics: Aggregate(filtered),
	}
	sorted := Sort(filtered, q.Sort)
	res.Items = pageOf(sorted, q.Page)
	return res
}

func pageOf(matches []model.Match, p model.Page) []model.Match {
	if p.Number > len(matches)/p.Size {
		return []model.Match{}
	}
	start := p.Number * p.Size
	if start >= len(matches) {
		return []model.Match{}
	}
	end := min(start+p.Size, len(matches))
	return matches[start:end]
}

// TotalPages is the number of pages needed for total items at size per page.
func TotalPages(total, size int) int {
	if size <= 0 || total <= 0 {
		return 0
	}
	return (total + size - 1) / size
}
