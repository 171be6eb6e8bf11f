// Package engine holds the match derivation, filtering, sorting, aggregation and CSV logic.
// Everything here is pure and synchronous: inputs are never mutated and no state is kept
// between calls, so any function is safe to call from concurrent goroutines.
package engine

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/maxviazov/winmix-match-service/internal/model"
)

// DeriveOutcome is a plain three-way comparison of a goal pair.
func DeriveOutcome(homeGoals, awayGoals int) model.Outcome {
	switch {
	case homeGoals > awayGoals:
		return model.OutcomeHome
	case homeGoals < awayGoals:
		return model.OutcomeAway
	default:
		return model.OutcomeDraw
	}
}

// DeriveBTTS reports whether both sides scored.
func DeriveBTTS(homeGoals, awayGoals int) bool {
	return homeGoals > 0 && awayGoals > 0
}

// DeriveComeback is true when the half-time leader lost at full time.
// A draw at either checkpoint rules it out, so a lead thrown away into a draw does not count
// and a match without half-time data (0-0) never counts.
func DeriveComeback(htHome, htAway, ftHome, ftAway int) bool {
	ht := DeriveOutcome(htHome, htAway)
	ft := DeriveOutcome(ftHome, ftAway)
	return ht != model.OutcomeDraw && ft != model.OutcomeDraw && ht != ft
}

// Derive validates a raw row and builds the canonical Match.
// Null half-time goals become 0; missing teams, missing full-time goals and negative goals
// are rejected with a *RowError, as is a row the source flagged as unreadable.
func Derive(row model.RawRow) (model.Match, error) {
	reject := func(field, reason string) (model.Match, error) {
		return model.Match{}, &RowError{ID: row.ID, Field: field, Reason: reason}
	}
	if d := row.Defect; d != nil {
		return reject(d.Field, d.Reason)
	}

	home := normalizeName(row.HomeTeam)
	away := normalizeName(row.AwayTeam)

	if home == "" {
		return reject("home_team", "is required")
	}
	if away == "" {
		return reject("away_team", "is required")
	}
	if row.FullTimeHomeGoals == nil {
		return reject("full_time_home_goals", "is required")
	}
	if row.FullTimeAwayGoals == nil {
		return reject("full_time_away_goals", "is required")
	}

	goals := []struct {
		field string
		value *int
	}{
		{"half_time_home_goals", row.HalfTimeHomeGoals},
		{"half_time_away_goals", row.HalfTimeAwayGoals},
		{"full_time_home_goals", row.FullTimeHomeGoals},
		{"full_time_away_goals", row.FullTimeAwayGoals},
	}
	for _, g := range goals {
		if g.value != nil && *g.value < 0 {
			return reject(g.field, "must be >= 0")
		}
	}

	htHome, htAway := valueOrZero(row.HalfTimeHomeGoals), valueOrZero(row.HalfTimeAwayGoals)
	ftHome, ftAway := *row.FullTimeHomeGoals, *row.FullTimeAwayGoals

	return model.Match{
		ID:                row.ID,
		HomeTeam:          home,
		AwayTeam:          away,
		HalfTimeHomeGoals: htHome,
		HalfTimeAwayGoals: htAway,
		FullTimeHomeGoals: ftHome,
		FullTimeAwayGoals: ftAway,
		Date:              row.Date,
		League:            strings.TrimSpace(row.League),
		Season:            strings.TrimSpace(row.Season),
		Result:            DeriveOutcome(ftHome, ftAway),
		BothTeamsScored:   DeriveBTTS(ftHome, ftAway),
		Comeback:          DeriveComeback(htHome, htAway, ftHome, ftAway),
	}, nil
}

// Ingest derives every row, skipping malformed ones. Skipped rows are reported with their
// position in the input so callers can surface a skipped count.
func Ingest(rows []model.RawRow) ([]model.Match, []RowError) {
	matches := make([]model.Match, 0, len(rows))
	var skipped []RowError
	for i, row := range rows {
		m, err := Derive(row)
		if err != nil {
			var rowErr *RowError
			if errors.As(err, &rowErr) {
				re := *rowErr
				re.Index = i
				skipped = append(skipped, re)
				continue
			}
			skipped = append(skipped, RowError{Index: i, ID: row.ID, Reason: err.Error()})
			continue
		}
		matches = append(matches, m)
	}
	return matches, skipped
}

// ParseGoals reads a goal count from text. Empty and "null" are absent (nil); anything
// non-numeric or negative is ErrMalformedRow, never zero.
func ParseGoals(s string) (*int, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "null") {
		return nil, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w: goal value %q is not a number", ErrMalformedRow, s)
	}
	if n < 0 {
		return nil, fmt.Errorf("%w: goal value %d is negative", ErrMalformedRow, n)
	}
	return &n, nil
}

// normalizeName trims the ends only; inner spacing is kept as the source wrote it.
func normalizeName(s string) string {
	return strings.TrimSpace(s)
}

func valueOrZero(p *int) int {
	if p == nil {
		return 0
	}
	return *p
}
