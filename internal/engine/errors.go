package engine

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrMalformedRow marks a raw row that cannot become a Match.
	ErrMalformedRow = errors.New("malformed row")
	// ErrInvalidQuery marks a rejected filter or page specification.
	ErrInvalidQuery = errors.New("invalid query")
	// ErrEmptyExport is raised by callers before serializing an empty set.
	ErrEmptyExport = errors.New("nothing to export")
)

// FieldError describes one offending field of a query.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// QueryError aggregates field errors and unwraps to ErrInvalidQuery.
type QueryError struct {
	fields []FieldError
}

func (e *QueryError) Error() string {
	parts := make([]string, 0, len(e.fields))
	for _, f := range e.fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return fmt.Sprintf("%s: %s", ErrInvalidQuery, strings.Join(parts, "; "))
}

func (e *QueryError) Unwrap() error        { return ErrInvalidQuery }
func (e *QueryError) Fields() []FieldError { return e.fields }

func newQueryError(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &QueryError{fields: fe}
}

// RowError reports why a raw row was rejected at ingestion.
type RowError struct {
	Index  int    `json:"index"`
	ID     string `json:"id,omitempty"`
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *RowError) Error() string {
	if e.ID != "" {
		return fmt.Sprintf("%s: row %d (id %s): %s %s", ErrMalformedRow, e.Index, e.ID, e.Field, e.Reason)
	}
	return fmt.Sprintf("%s: row %d: %s %s", ErrMalformedRow, e.Index, e.Field, e.Reason)
}

func (e *RowError) Unwrap() error { return ErrMalformedRow }
