package engine

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"github.com/maxviazov/winmix-match-service/internal/model"
)

// TeamMatchMode selects how team-name filters compare.
type TeamMatchMode int

const (
	// TeamMatchSubstring is the free-text search box mode: case-folded substring match.
	// Accents stay significant, so "a" does not find "á".
	TeamMatchSubstring TeamMatchMode = iota
	// TeamMatchExact is the team-picker mode: the name must be equal.
	TeamMatchExact
)

// ParseTeamMatchMode maps "exact" to TeamMatchExact and anything else to substring.
func ParseTeamMatchMode(s string) TeamMatchMode {
	if strings.EqualFold(strings.TrimSpace(s), "exact") {
		return TeamMatchExact
	}
	return TeamMatchSubstring
}

func (m TeamMatchMode) String() string {
	if m == TeamMatchExact {
		return "exact"
	}
	return "substring"
}

// Matches reports whether m satisfies every constraint present in f.
// A filter with nothing set matches everything.
func Matches(m model.Match, f model.FilterSpec, mode TeamMatchMode) bool {
	if f.HomeTeam != "" && !teamMatches(m.HomeTeam, f.HomeTeam, mode) {
		return false
	}
	if f.AwayTeam != "" && !teamMatches(m.AwayTeam, f.AwayTeam, mode) {
		return false
	}
	if f.League != "" && m.League != f.League {
		return false
	}
	if f.BTTS != nil && m.BothTeamsScored != *f.BTTS {
		return false
	}
	if f.Comeback != nil && m.Comeback != *f.Comeback {
		return false
	}
	if r := f.DateRange; r != nil {
		if !r.From.IsZero() && m.Date.Before(r.From) {
			return false
		}
		if !r.To.IsZero() && m.Date.After(r.To) {
			return false
		}
	}
	return true
}

// Filter returns the matches satisfying f, in their incoming order.
func Filter(matches []model.Match, f model.FilterSpec, mode TeamMatchMode) []model.Match {
	out := make([]model.Match, 0, len(matches))
	for _, m := range matches {
		if Matches(m, f, mode) {
			out = append(out, m)
		}
	}
	return out
}

func teamMatches(name, want string, mode TeamMatchMode) bool {
	if mode == TeamMatchExact {
		return name == normalizeName(want)
	}
	return strings.Contains(foldText(name), foldText(normalizeName(want)))
}

// foldText composes to NFC first so "á" typed as a+combining accent still meets the
// precomposed form stored in the data, then applies Unicode case folding.
func foldText(s string) string {
	return cases.Fold().String(norm.NFC.String(s))
}
