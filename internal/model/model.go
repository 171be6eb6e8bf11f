// Package model contains domain entities and DTOs used across layers.
// I keep it lean and focused on data shapes without behavior.
package model

import "time"

// Outcome is a three-way match outcome seen from the home side.
type Outcome string

const (
	OutcomeHome Outcome = "H"
	OutcomeDraw Outcome = "D"
	OutcomeAway Outcome = "A"
)

// RawRow is a match row as the data source hands it over.
// Nullable columns are pointers; nothing here is trusted until derived.
type RawRow struct {
	ID                string    `json:"id"`
	HomeTeam          string    `json:"home_team"`
	AwayTeam          string    `json:"away_team"`
	HalfTimeHomeGoals *int      `json:"half_time_home_goals"`
	HalfTimeAwayGoals *int      `json:"half_time_away_goals"`
	FullTimeHomeGoals *int      `json:"full_time_home_goals"`
	FullTimeAwayGoals *int      `json:"full_time_away_goals"`
	League            string    `json:"league"`
	Season            string    `json:"season"`
	Date              time.Time `json:"date"`
	// Defect is set by sources that could not read the row at all; such a row is
	// reported as skipped instead of being derived.
	Defect *RowDefect `json:"-"`
}

// RowDefect names the source field that could not be read and why.
type RowDefect struct {
	Field  string
	Reason string
}

// Match is the canonical, derived match record.
// It is built once by the engine and then only read; result, btts and
// comeback are functions of the goal fields and never set independently.
type Match struct {
	ID                string    `json:"id"`
	HomeTeam          string    `json:"home_team"`
	AwayTeam          string    `json:"away_team"`
	HalfTimeHomeGoals int       `json:"half_time_home_goals"`
	HalfTimeAwayGoals int       `json:"half_time_away_goals"`
	FullTimeHomeGoals int       `json:"full_time_home_goals"`
	FullTimeAwayGoals int       `json:"full_time_away_goals"`
	Date              time.Time `json:"date"`
	League            string    `json:"league,omitempty"`
	Season            string    `json:"season,omitempty"`
	Result            Outcome   `json:"result"`
	BothTeamsScored   bool      `json:"btts"`
	Comeback          bool      `json:"comeback"`
}

// DateRange holds inclusive bounds; a zero bound is open.
type DateRange struct {
	From time.Time
	To   time.Time
}

// FilterSpec narrows a match collection. Empty strings and nil pointers impose no constraint;
// a non-nil false is a strict constraint.
type FilterSpec struct {
	HomeTeam  string
	AwayTeam  string
	League    string
	BTTS      *bool
	Comeback  *bool
	DateRange *DateRange
}

// SortKey names the column a collection is ordered by.
type SortKey string

const (
	SortHomeTeam      SortKey = "homeTeam"
	SortAwayTeam      SortKey = "awayTeam"
	SortHalfTimeScore SortKey = "halfTimeScore"
	SortFullTimeScore SortKey = "fullTimeScore"
	SortResult        SortKey = "result"
	SortBTTS          SortKey = "btts"
	SortComeback      SortKey = "comeback"
	SortDate          SortKey = "date"
	SortLeague        SortKey = "league"
)

// SortDirection is asc, desc or none; none keeps the incoming order.
type SortDirection string

const (
	SortAsc  SortDirection = "asc"
	SortDesc SortDirection = "desc"
	SortNone SortDirection = "none"
)

type SortConfig struct {
	Key       SortKey
	Direction SortDirection
}

// Page is a zero-based page window.
type Page struct {
	Number int
	Size   int
}

// ScorelineCount is one row of the frequent-scorelines table, e.g. "2-1" seen 7 times.
type ScorelineCount struct {
	Scoreline string `json:"scoreline"`
	Count     int    `json:"count"`
}

// LeagueCount is one row of the league distribution.
type LeagueCount struct {
	League string `json:"league"`
	Count  int    `json:"count"`
}

// Statistics summarises a filtered match set. It is recomputed from scratch for every query.
type Statistics struct {
	TotalMatches       int              `json:"total_matches"`
	HomeWins           int              `json:"home_wins"`
	Draws              int              `json:"draws"`
	AwayWins           int              `json:"away_wins"`
	BTTSCount          int              `json:"btts_count"`
	BTTSPercentage     float64          `json:"btts_percentage"`
	ComebackCount      int              `json:"comeback_count"`
	ComebackPercentage float64          `json:"comeback_percentage"`
	AverageHomeGoals   float64          `json:"average_home_goals"`
	AverageAwayGoals   float64          `json:"average_away_goals"`
	AverageGoals       float64          `json:"average_goals"`
	ScorelineFrequency []ScorelineCount `json:"scoreline_frequency"`
	LeagueDistribution []LeagueCount    `json:"league_distribution"`
}

// AnalyticsEvent is a client-side usage event posted by the dashboard.
type AnalyticsEvent struct {
	Name       string         `json:"name"`
	Properties map[string]any `json:"properties,omitempty"`
	Timestamp  int64          `json:"timestamp,omitempty"`
}
