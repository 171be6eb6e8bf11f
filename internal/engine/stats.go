package engine

import (
	"slices"
	"strconv"

	"github.com/maxviazov/winmix-match-service/internal/model"
)

// TopScorelines is how many entries the frequent-scorelines table keeps.
const TopScorelines = 5

// Aggregate reduces matches into summary statistics in one pass.
// Percentages and averages are 0 for an empty set.
func Aggregate(matches []model.Match) model.Statistics {
	st := model.Statistics{
		TotalMatches:       len(matches),
		ScorelineFrequency: []model.ScorelineCount{},
		LeagueDistribution: []model.LeagueCount{},
	}

	scorelines := newCounter()
	leagues := newCounter()
	var homeGoals, awayGoals int

	for _, m := range matches {
		switch m.Result {
		case model.OutcomeHome:
			st.HomeWins++
		case model.OutcomeAway:
			st.AwayWins++
		default:
			st.Draws++
		}
		if m.BothTeamsScored {
			st.BTTSCount++
		}
		if m.Comeback {
			st.ComebackCount++
		}
		homeGoals += m.FullTimeHomeGoals
		awayGoals += m.FullTimeAwayGoals
		scorelines.add(Scoreline(m.FullTimeHomeGoals, m.FullTimeAwayGoals))
		if m.League != "" {
			leagues.add(m.League)
		}
	}

	st.BTTSPercentage = percentage(st.BTTSCount, st.TotalMatches)
	st.ComebackPercentage = percentage(st.ComebackCount, st.TotalMatches)
	st.AverageHomeGoals = average(homeGoals, st.TotalMatches)
	st.AverageAwayGoals = average(awayGoals, st.TotalMatches)
	st.AverageGoals = average(homeGoals+awayGoals, st.TotalMatches)

	for _, e := range scorelines.top(TopScorelines) {
		st.ScorelineFrequency = append(st.ScorelineFrequency, model.ScorelineCount{Scoreline: e.key, Count: e.count})
	}
	for _, e := range leagues.top(0) {
		st.LeagueDistribution = append(st.LeagueDistribution, model.LeagueCount{League: e.key, Count: e.count})
	}
	return st
}

// Scoreline renders a goal pair as "home-away".
func Scoreline(home, away int) string {
	return strconv.Itoa(home) + "-" + strconv.Itoa(away)
}

func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100
}

func average(sum, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(sum) / float64(total)
}

type counterEntry struct {
	key   string
	count int
}

// counter keeps first-seen order so equal counts rank by appearance.
type counter struct {
	index   map[string]int
	entries []counterEntry
}

func newCounter() *counter {
	return &counter{index: make(map[string]int)}
}

func (c *counter) add(key string) {
	if i, ok := c.index[key]; ok {
		c.entries[i].count++
		return
	}
	c.index[key] = len(c.entries)
	c.entries = append(c.entries, counterEntry{key: key, count: 1})
}

// top returns entries by descending count; n <= 0 means all of them.
func (c *counter) top(n int) []counterEntry {
	out := slices.Clone(c.entries)
	slices.SortStableFunc(out, func(a, b counterEntry) int { return cmpInt(b.count, a.count) })
	if n > 0 && len(out) > n {
		out = out[:n]
	}
	return out
}
