// Package importer loads match rows from CSV files into a MatchRepository.
package importer

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/maxviazov/winmix-match-service/internal/engine"
	"github.com/maxviazov/winmix-match-service/internal/model"
)

// Column names recognized in the header. Unknown columns (venue, referee, corners...) are ignored.
const (
	colID                = "id"
	colHomeTeam          = "home_team"
	colAwayTeam          = "away_team"
	colHalfTimeHomeGoals = "half_time_home_goals"
	colHalfTimeAwayGoals = "half_time_away_goals"
	colFullTimeHomeGoals = "full_time_home_goals"
	colFullTimeAwayGoals = "full_time_away_goals"
	colLeague            = "league"
	colSeason            = "season"
	colMatchTime         = "match_time"
	colDate              = "date"
)

var requiredColumns = []string{colHomeTeam, colAwayTeam, colFullTimeHomeGoals, colFullTimeAwayGoals}

// dateLayouts are tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02 15:04:05Z07:00",
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	time.DateOnly,
}

// ErrBadHeader means the file cannot be imported at all.
var ErrBadHeader = errors.New("bad csv header")

// Parse reads a header-keyed CSV. Rows that fail to parse or fail engine validation are
// returned as RowErrors with Index set to their line in the file; they are never coerced.
func Parse(r io.Reader) ([]model.RawRow, []engine.RowError, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil, fmt.Errorf("%w: empty file", ErrBadHeader)
		}
		return nil, nil, fmt.Errorf("read header: %w", err)
	}
	index := headerIndex(header)
	for _, col := range requiredColumns {
		if _, ok := index[col]; !ok {
			return nil, nil, fmt.Errorf("%w: missing column %q", ErrBadHeader, col)
		}
	}

	var (
		rows    []model.RawRow
		skipped []engine.RowError
	)
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var pe *csv.ParseError
			if errors.As(err, &pe) {
				skipped = append(skipped, engine.RowError{Index: pe.Line, Field: "record", Reason: pe.Err.Error()})
				continue
			}
			return nil, nil, fmt.Errorf("read csv: %w", err)
		}
		if blank(rec) {
			continue
		}
		line, _ := cr.FieldPos(0)

		row, rerr := parseRecord(rec, index)
		if rerr == nil {
			rerr = validate(row)
		}
		if rerr != nil {
			rerr.Index = line
			skipped = append(skipped, *rerr)
			continue
		}
		rows = append(rows, row)
	}
	return rows, skipped, nil
}

// validate runs the same checks the query path applies, so nothing is stored that would be
// skipped on read.
func validate(row model.RawRow) *engine.RowError {
	_, err := engine.Derive(row)
	if err == nil {
		return nil
	}
	var re *engine.RowError
	if errors.As(err, &re) {
		return re
	}
	return &engine.RowError{ID: row.ID, Field: "record", Reason: err.Error()}
}

func headerIndex(header []string) map[string]int {
	index := make(map[string]int, len(header))
	for i, h := range header {
		h = strings.TrimPrefix(h, engine.UTF8BOM)
		h = strings.ToLower(strings.TrimSpace(h))
		if _, dup := index[h]; !dup {
			index[h] = i
		}
	}
	return index
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

func parseRecord(rec []string, index map[string]int) (model.RawRow, *engine.RowError) {
	get := func(col string) string {
		i, ok := index[col]
		if !ok || i >= len(rec) {
			return ""
		}
		return strings.TrimSpace(rec[i])
	}

	row := model.RawRow{
		ID:       get(colID),
		HomeTeam: get(colHomeTeam),
		AwayTeam: get(colAwayTeam),
		League:   nullable(get(colLeague)),
		Season:   nullable(get(colSeason)),
	}

	goals := []struct {
		col string
		dst **int
	}{
		{colHalfTimeHomeGoals, &row.HalfTimeHomeGoals},
		{colHalfTimeAwayGoals, &row.HalfTimeAwayGoals},
		{colFullTimeHomeGoals, &row.FullTimeHomeGoals},
		{colFullTimeAwayGoals, &row.FullTimeAwayGoals},
	}
	for _, g := range goals {
		v, err := engine.ParseGoals(get(g.col))
		if err != nil {
			reason := strings.TrimPrefix(err.Error(), engine.ErrMalformedRow.Error()+": ")
			return model.RawRow{}, &engine.RowError{ID: row.ID, Field: g.col, Reason: reason}
		}
		*g.dst = v
	}

	raw := get(colMatchTime)
	if raw == "" {
		raw = get(colDate)
	}
	if raw != "" {
		t, err := parseDate(raw)
		if err != nil {
			return model.RawRow{}, &engine.RowError{ID: row.ID, Field: colMatchTime, Reason: err.Error()}
		}
		row.Date = t
	}
	return row, nil
}

func nullable(s string) string {
	if strings.EqualFold(s, "null") {
		return ""
	}
	return s
}

func parseDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized date %q", s)
}
