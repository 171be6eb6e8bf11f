package engine_test

import (
	"time"

	"github.com/maxviazov/winmix-match-service/internal/model"
)

func intp(v int) *int    { return &v }
func boolp(v bool) *bool { return &v }

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 18, 0, 0, 0, time.UTC)
}

func raw(id, home, away string, htH, htA, ftH, ftA int, date time.Time) model.RawRow {
	return model.RawRow{
		ID:                id,
		HomeTeam:          home,
		AwayTeam:          away,
		HalfTimeHomeGoals: intp(htH),
		HalfTimeAwayGoals: intp(htA),
		FullTimeHomeGoals: intp(ftH),
		FullTimeAwayGoals: intp(ftA),
		League:            "Premier League",
		Season:            "2024/25",
		Date:              date,
	}
}

func ids(ms []model.Match) []string {
	out := make([]string, 0, len(ms))
	for _, m := range ms {
		out = append(out, m.ID)
	}
	return out
}
