package handler

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/maxviazov/winmix-match-service/internal/engine"
	"github.com/maxviazov/winmix-match-service/internal/model"
	"github.com/maxviazov/winmix-match-service/internal/service"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// matchQuery is the query string schema shared by the list, statistics and export routes.
// Out-of-range values are rejected, never clamped.
type matchQuery struct {
	Page      int    `form:"page,default=1" validate:"min=1"`
	Limit     int    `form:"limit,default=20" validate:"min=1,max=100"`
	HomeTeam  string `form:"home_team" validate:"max=100"`
	AwayTeam  string `form:"away_team" validate:"max=100"`
	League    string `form:"league" validate:"max=50"`
	BTTS      string `form:"btts" validate:"omitempty,oneof=true false"`
	Comeback  string `form:"comeback" validate:"omitempty,oneof=true false"`
	From      string `form:"from" validate:"omitempty,querydate"`
	To        string `form:"to" validate:"omitempty,querydate"`
	Sort      string `form:"sort" validate:"max=32"`
	Direction string `form:"direction" validate:"omitempty,oneof=asc desc none"`
	TeamMatch string `form:"team_match" validate:"omitempty,oneof=substring exact"`
}

var queryValidator = newQueryValidator()

func newQueryValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report fields by their query parameter name
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("form"), ",")
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("querydate", func(fl validator.FieldLevel) bool {
		_, _, err := parseQueryDate(fl.Field().String())
		return err == nil
	})
	return v
}

// parseQueryDate accepts RFC3339 timestamps and bare YYYY-MM-DD dates. dateOnly reports the
// latter so an upper bound can be widened to the end of that day.
func parseQueryDate(s string) (t time.Time, dateOnly bool, err error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), false, nil
	}
	if t, err := time.Parse(time.DateOnly, s); err == nil {
		return t, true, nil
	}
	return time.Time{}, false, fmt.Errorf("invalid date %q", s)
}

// bindMatchQuery reads and validates the query string.
func bindMatchQuery(c *gin.Context) (matchQuery, error) {
	var q matchQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		return q, service.NewInvalidInputError([]service.FieldError{{Field: "query", Message: "malformed value: " + err.Error()}})
	}
	if err := queryValidator.Struct(q); err != nil {
		return q, validationError(err)
	}
	return q, nil
}

// validationError converts validator errors into the service's aggregated field errors.
func validationError(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return service.NewInvalidInputError([]service.FieldError{{Field: "query", Message: err.Error()}})
	}
	ferrs := make([]service.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		ferrs = append(ferrs, service.FieldError{Field: fe.Field(), Message: ruleMessage(fe)})
	}
	return service.NewInvalidInputError(ferrs)
}

func ruleMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "min":
		return "must be >= " + fe.Param()
	case "max":
		if fe.Kind() == reflect.String {
			return "length must be at most " + fe.Param()
		}
		return "must be <= " + fe.Param()
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(fe.Param(), " ", ", ")
	case "querydate":
		return "must be an RFC3339 timestamp or YYYY-MM-DD"
	case "required":
		return "is required"
	default:
		return "is invalid (" + fe.Tag() + ")"
	}
}

// filter builds the engine filter. Validation has already run.
func (q matchQuery) filter() model.FilterSpec {
	f := model.FilterSpec{
		HomeTeam: strings.TrimSpace(q.HomeTeam),
		AwayTeam: strings.TrimSpace(q.AwayTeam),
		League:   strings.TrimSpace(q.League),
		BTTS:     optionalBool(q.BTTS),
		Comeback: optionalBool(q.Comeback),
	}
	if q.From != "" || q.To != "" {
		r := &model.DateRange{}
		if q.From != "" {
			r.From, _, _ = parseQueryDate(q.From)
		}
		if q.To != "" {
			to, dateOnly, _ := parseQueryDate(q.To)
			if dateOnly {
				to = to.Add(24*time.Hour - time.Nanosecond)
			}
			r.To = to
		}
		f.DateRange = r
	}
	return f
}

func (q matchQuery) teamMode() engine.TeamMatchMode {
	return engine.ParseTeamMatchMode(q.TeamMatch)
}

func (q matchQuery) sortConfig() model.SortConfig {
	return model.SortConfig{Key: engine.ParseSortKey(q.Sort), Direction: engine.ParseSortDirection(q.Direction)}
}

// params maps the 1-based HTTP page onto the engine's 0-based page.
func (q matchQuery) params() engine.QueryParams {
	return engine.QueryParams{
		Filter:   q.filter(),
		TeamMode: q.teamMode(),
		Sort:     q.sortConfig(),
		Page:     model.Page{Number: q.Page - 1, Size: q.Limit},
	}
}

func optionalBool(s string) *bool {
	switch s {
	case "true":
		v := true
		return &v
	case "false":
		v := false
		return &v
	default:
		return nil
	}
}
