package engine_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/winmix-match-service/internal/engine"
	"github.com/maxviazov/winmix-match-service/internal/model"
)

func ingest(t *testing.T, rows ...model.RawRow) []model.Match {
	t.Helper()
	matches, skipped := engine.Ingest(rows)
	require.Empty(t, skipped)
	return matches
}

func TestSort_StableOnBooleanKey(t *testing.T) {
	// most recent first, as the source delivers
	matches := ingest(t,
		raw("d5", "A", "B", 0, 0, 1, 1, day(5)),
		raw("d4", "A", "B", 0, 0, 1, 0, day(4)),
		raw("d3", "A", "B", 0, 0, 2, 2, day(3)),
		raw("d2", "A", "B", 0, 0, 0, 3, day(2)),
		raw("d1", "A", "B", 0, 0, 1, 1, day(1)),
	)

	asc := engine.Sort(matches, model.SortConfig{Key: model.SortBTTS, Direction: model.SortAsc})
	assert.Equal(t, []string{"d4", "d2", "d5", "d3", "d1"}, ids(asc))

	desc := engine.Sort(matches, model.SortConfig{Key: model.SortBTTS, Direction: model.SortDesc})
	assert.Equal(t, []string{"d5", "d3", "d1", "d4", "d2"}, ids(desc))

	assert.Equal(t, []string{"d5", "d4", "d3", "d2", "d1"}, ids(matches), "input order untouched")
}

func TestSort_ScoreByTotalThenHome(t *testing.T) {
	matches := ingest(t,
		raw("2-2", "A", "B", 0, 0, 2, 2, day(1)),
		raw("1-3", "A", "B", 0, 0, 1, 3, day(1)),
		raw("0-0", "A", "B", 0, 0, 0, 0, day(1)),
		raw("3-1", "A", "B", 0, 0, 3, 1, day(1)),
		raw("1-0", "A", "B", 0, 0, 1, 0, day(1)),
	)
	got := engine.Sort(matches, model.SortConfig{Key: model.SortFullTimeScore, Direction: model.SortAsc})
	assert.Equal(t, []string{"0-0", "1-0", "1-3", "2-2", "3-1"}, ids(got))

	got = engine.Sort(matches, model.SortConfig{Key: model.SortFullTimeScore, Direction: model.SortDesc})
	assert.Equal(t, []string{"3-1", "2-2", "1-3", "1-0", "0-0"}, ids(got))
}

func TestSort_HalfTimeScore(t *testing.T) {
	matches := ingest(t,
		raw("a", "A", "B", 2, 0, 2, 0, day(1)),
		raw("b", "A", "B", 0, 1, 2, 1, day(1)),
		raw("c", "A", "B", 0, 2, 0, 2, day(1)),
	)
	got := engine.Sort(matches, model.SortConfig{Key: model.SortHalfTimeScore, Direction: model.SortAsc})
	assert.Equal(t, []string{"b", "c", "a"}, ids(got))
}

func TestSort_ResultOrdinal(t *testing.T) {
	matches := ingest(t,
		raw("away", "A", "B", 0, 0, 0, 1, day(1)),
		raw("draw", "A", "B", 0, 0, 1, 1, day(1)),
		raw("home", "A", "B", 0, 0, 1, 0, day(1)),
	)
	got := engine.Sort(matches, model.SortConfig{Key: model.SortResult, Direction: model.SortAsc})
	assert.Equal(t, []string{"home", "draw", "away"}, ids(got))
}

func TestSort_TextAndDate(t *testing.T) {
	matches := ingest(t,
		raw("p", "Paks", "X", 0, 0, 0, 0, day(2)),
		raw("a", "Arsenal", "X", 0, 0, 0, 0, day(3)),
		raw("e", "Everton", "X", 0, 0, 0, 0, day(1)),
	)
	got := engine.Sort(matches, model.SortConfig{Key: model.SortHomeTeam, Direction: model.SortAsc})
	assert.Equal(t, []string{"a", "e", "p"}, ids(got))

	got = engine.Sort(matches, model.SortConfig{Key: model.SortDate, Direction: model.SortAsc})
	assert.Equal(t, []string{"e", "p", "a"}, ids(got))
}

func TestSort_NoneAndUnknownKeepOrder(t *testing.T) {
	matches := ingest(t,
		raw("x", "Zeta", "B", 0, 0, 3, 0, day(2)),
		raw("y", "Alpha", "B", 0, 0, 0, 0, day(1)),
	)
	none := engine.Sort(matches, model.SortConfig{Key: model.SortHomeTeam, Direction: model.SortNone})
	assert.Equal(t, []string{"x", "y"}, ids(none))

	unknown := engine.Sort(matches, model.SortConfig{Key: "attendance", Direction: model.SortAsc})
	assert.Equal(t, []string{"x", "y"}, ids(unknown))
	assert.Equal(t, 0, engine.Compare(matches[0], matches[1], model.SortConfig{Key: "attendance", Direction: model.SortAsc}))
}

func TestCompare(t *testing.T) {
	matches := ingest(t,
		raw("a", "A", "B", 0, 0, 0, 0, day(1)),
		raw("b", "A", "B", 0, 0, 1, 1, day(1)),
	)
	cfg := model.SortConfig{Key: model.SortBTTS, Direction: model.SortAsc}
	assert.Equal(t, -1, engine.Compare(matches[0], matches[1], cfg))
	assert.Equal(t, 1, engine.Compare(matches[1], matches[0], cfg))
	assert.Equal(t, 0, engine.Compare(matches[0], matches[0], cfg))
}

func TestParseSortKey(t *testing.T) {
	assert.Equal(t, model.SortHomeTeam, engine.ParseSortKey("home"))
	assert.Equal(t, model.SortHomeTeam, engine.ParseSortKey("homeTeam"))
	assert.Equal(t, model.SortFullTimeScore, engine.ParseSortKey("ft"))
	assert.Equal(t, model.SortFullTimeScore, engine.ParseSortKey("full_time_score"))
	assert.Equal(t, model.SortKey("attendance"), engine.ParseSortKey("attendance"))
	assert.Equal(t, model.SortNone, engine.ParseSortDirection(""))
	assert.Equal(t, model.SortDesc, engine.ParseSortDirection("DESC"))
}
