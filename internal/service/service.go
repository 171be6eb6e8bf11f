// Package service holds business logic orchestration across repositories and handlers.
// Kept lean: use-case coordination, validation and domain error shaping. The match
// computations themselves live in the engine package.
package service

import (
	"context"
	"errors"

	"github.com/maxviazov/winmix-match-service/internal/engine"
	"github.com/maxviazov/winmix-match-service/internal/model"
)

// ErrInvalidInput is the marker error for aggregated validation failures (maps to HTTP 400).
// Field-level details are retrieved via FieldErrors(err).
var ErrInvalidInput = errors.New("invalid input")

// FieldError describes a single invalid field in a client request.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// invalidInputError aggregates multiple FieldError instances and unwraps to ErrInvalidInput.
type invalidInputError struct {
	fields []FieldError
}

func (e *invalidInputError) Error() string        { return ErrInvalidInput.Error() }
func (e *invalidInputError) Unwrap() error        { return ErrInvalidInput }
func (e *invalidInputError) Fields() []FieldError { return e.fields }

// NewInvalidInputError builds an aggregated validation error if any field errors are present.
func NewInvalidInputError(fe []FieldError) error {
	if len(fe) == 0 {
		return nil
	}
	return &invalidInputError{fields: fe}
}

// FieldErrors extracts field errors from an aggregated validation error. Engine query
// rejections are reported the same way.
func FieldErrors(err error) []FieldError {
	if err == nil {
		return nil
	}
	var ie *invalidInputError
	if errors.As(err, &ie) {
		return ie.Fields()
	}
	var qe *engine.QueryError
	if errors.As(err, &qe) {
		out := make([]FieldError, 0, len(qe.Fields()))
		for _, f := range qe.Fields() {
			out = append(out, FieldError{Field: f.Field, Message: f.Message})
		}
		return out
	}
	return nil
}

// Export is a rendered CSV document.
type Export struct {
	Filename string
	Rows     int
	Body     string
}

// MatchService defines the match use cases. Every call reads the current data set and
// recomputes; nothing is cached between requests.
type MatchService interface {
	Query(ctx context.Context, q engine.QueryParams) (engine.Result, error)
	Statistics(ctx context.Context, f model.FilterSpec, mode engine.TeamMatchMode) (model.Statistics, error)
	Export(ctx context.Context, f model.FilterSpec, mode engine.TeamMatchMode, sort model.SortConfig) (Export, error)
	Teams(ctx context.Context) ([]string, error)
	CreateMatch(ctx context.Context, in CreateMatchInput) (model.Match, error)
}

// AnalyticsService accepts client-side usage events.
type AnalyticsService interface {
	Track(ctx context.Context, ev model.AnalyticsEvent, meta ClientMeta) error
}

// ClientMeta is request context recorded next to an analytics event.
type ClientMeta struct {
	IP        string
	UserAgent string
	RequestID string
}
