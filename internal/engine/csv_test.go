package engine_test

import (
	"encoding/csv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/winmix-match-service/internal/engine"
	"github.com/maxviazov/winmix-match-service/internal/model"
)

func TestToCSV_QuotingRoundTrip(t *testing.T) {
	matches := ingest(t, raw("1", `Real "Los Blancos" Madrid`, "Barcelona", 1, 0, 2, 1, day(1)))
	cols := []engine.Column{{Key: "homeTeam", Label: "Home"}, {Key: "awayTeam", Label: "Away"}}

	out := engine.ToCSV(matches, cols)
	require.True(t, strings.HasPrefix(out, engine.UTF8BOM))
	assert.Contains(t, out, `"Real ""Los Blancos"" Madrid"`)

	records, err := csv.NewReader(strings.NewReader(strings.TrimPrefix(out, engine.UTF8BOM))).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, []string{"Home", "Away"}, records[0])
	assert.Equal(t, `Real "Los Blancos" Madrid`, records[1][0])
}

func TestToCSV_EmptyAndUnknownValues(t *testing.T) {
	row := raw("1", "Paks", "Ferencváros", 0, 0, 1, 1, day(1))
	row.League, row.Season = "", ""
	matches := ingest(t, row)

	out := engine.ToCSV(matches, []engine.Column{
		{Key: "league", Label: "Liga"},
		{Key: "nope", Label: "Semmi"},
		{Key: "awayTeam", Label: "Vendég"},
	})
	assert.Equal(t, engine.UTF8BOM+`"Liga","Semmi","Vendég"`+"\n"+`"","","Ferencváros"`, out)
}

func TestToCSV_HeaderOnlyForEmptyInput(t *testing.T) {
	out := engine.ToCSV(nil, []engine.Column{{Key: "homeTeam", Label: "Hazai"}})
	assert.Equal(t, engine.UTF8BOM+`"Hazai"`, out)
}

func TestToCSV_DefaultColumns(t *testing.T) {
	matches := ingest(t, raw("1", "Arsenal", "Chelsea", 1, 0, 1, 2, day(7)))
	out := engine.ToCSV(matches, engine.DefaultColumns())

	lines := strings.Split(strings.TrimPrefix(out, engine.UTF8BOM), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasPrefix(lines[0], `"Hazai csapat","Vendég csapat","Félidő"`))
	assert.Equal(t,
		`"Arsenal","Chelsea","1-0","1-2","Vendég","Igen","Igen","2025-03-07","Premier League","2024/25"`,
		lines[1])
}

func TestFieldValue(t *testing.T) {
	m := model.Match{ID: "x", FullTimeHomeGoals: 3, FullTimeAwayGoals: 1}
	v, ok := engine.FieldValue(m, "fullTimeScore")
	assert.True(t, ok)
	assert.Equal(t, "3-1", v)

	v, ok = engine.FieldValue(m, "date")
	assert.True(t, ok)
	assert.Nil(t, v)

	_, ok = engine.FieldValue(m, "referee")
	assert.False(t, ok)
}
