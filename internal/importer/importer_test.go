package importer_test

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/winmix-match-service/internal/engine"
	"github.com/maxviazov/winmix-match-service/internal/importer"
	"github.com/maxviazov/winmix-match-service/internal/model"
)

const sample = "\uFEFFid,match_time,home_team,away_team,half_time_home_goals,half_time_away_goals,full_time_home_goals,full_time_away_goals,league,season,venue\n" +
	"1,2025-03-01T18:00:00Z,Ferencváros,Újpest,0,1,2,1,NB I,2024/25,Groupama Aréna\n" +
	"2,2025-03-02,Debrecen,Paks,,,0,0,NB I,2024/25,\n" +
	"3,2025-03-03 20:30:00,\"Kecskemét, KTE\",Zalaegerszeg,1,1,x,2,NB I,2024/25,\n" +
	"4,2025-03-04,,Puskás Akadémia,0,0,1,0,NB I,2024/25,\n" +
	"5,not-a-date,MTK,Kisvárda,0,0,1,0,NB I,2024/25,\n" +
	",,,,,,,,,,\n" +
	"6,2025-03-05,Diósgyőr,Fehérvár,null,null,-1,0,null,null,\n"

func TestParse(t *testing.T) {
	rows, skipped, err := importer.Parse(strings.NewReader(sample))
	require.NoError(t, err)

	require.Len(t, rows, 2)
	assert.Equal(t, "Ferencváros", rows[0].HomeTeam)
	assert.Equal(t, time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC), rows[0].Date)
	assert.Equal(t, 1, *rows[0].HalfTimeAwayGoals)
	assert.Equal(t, "NB I", rows[0].League)

	assert.Nil(t, rows[1].HalfTimeHomeGoals, "empty half time stays absent")
	assert.Equal(t, 0, *rows[1].FullTimeHomeGoals)
	assert.Equal(t, time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC), rows[1].Date)

	require.Len(t, skipped, 4)
	byLine := map[int]engine.RowError{}
	for _, s := range skipped {
		byLine[s.Index] = s
	}
	assert.Equal(t, "full_time_home_goals", byLine[4].Field, "non-numeric goals")
	assert.Equal(t, "3", byLine[4].ID)
	assert.Equal(t, "home_team", byLine[5].Field, "missing team is not replaced by a placeholder")
	assert.Equal(t, "match_time", byLine[6].Field)
	assert.Equal(t, "full_time_home_goals", byLine[8].Field, "negative goals")
}

func TestParse_BadHeader(t *testing.T) {
	_, _, err := importer.Parse(strings.NewReader("home_team,away_team\nA,B\n"))
	assert.ErrorIs(t, err, importer.ErrBadHeader)

	_, _, err = importer.Parse(strings.NewReader(""))
	assert.ErrorIs(t, err, importer.ErrBadHeader)
}

func TestParse_QuotedFieldsAndSpacing(t *testing.T) {
	in := "HOME_TEAM, away_team ,full_time_home_goals,full_time_away_goals\n" +
		"\"Budapest \"\"Honvéd\"\"\",  Vasas ,3,1\n"
	rows, skipped, err := importer.Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Empty(t, skipped)
	require.Len(t, rows, 1)
	assert.Equal(t, `Budapest "Honvéd"`, rows[0].HomeTeam)
	assert.Equal(t, "Vasas", rows[0].AwayTeam)
	assert.True(t, rows[0].Date.IsZero())
}

// fakeRepo records batches and can fail selected ones.
type fakeRepo struct {
	mu      sync.Mutex
	batches [][]model.RawRow
	seen    map[string]bool
	failOn  int
}

func (f *fakeRepo) ListRaw(context.Context) ([]model.RawRow, error) { return nil, nil }

func (f *fakeRepo) Create(_ context.Context, row model.RawRow) (model.RawRow, error) {
	return row, nil
}

func (f *fakeRepo) InsertBatch(_ context.Context, rows []model.RawRow) (int, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.batches = append(f.batches, rows)
	if f.failOn == len(f.batches) {
		return 0, errors.New("insert failed")
	}
	if f.seen == nil {
		f.seen = map[string]bool{}
	}
	n := 0
	for _, r := range rows {
		if !f.seen[r.ID] {
			f.seen[r.ID] = true
			n++
		}
	}
	return n, nil
}

func csvWithRows(n int) string {
	var b strings.Builder
	b.WriteString("id,home_team,away_team,full_time_home_goals,full_time_away_goals\n")
	for i := 0; i < n; i++ {
		b.WriteString(strings.Join([]string{strconv.Itoa(i), "Home", "Away", "1", "0"}, ","))
		b.WriteByte('\n')
	}
	return b.String()
}

func TestImport_Batches(t *testing.T) {
	repo := &fakeRepo{}
	im := importer.New(repo, 0, zerolog.Nop())

	rep, err := im.Import(context.Background(), "test.csv", strings.NewReader(csvWithRows(250)))
	require.NoError(t, err)

	require.Len(t, repo.batches, 3)
	assert.Len(t, repo.batches[0], importer.DefaultBatchSize)
	assert.Len(t, repo.batches[2], 50)
	assert.Equal(t, 250, rep.Parsed)
	assert.Equal(t, 250, rep.Inserted)
	assert.Zero(t, rep.Duplicates)
	assert.Zero(t, rep.FailedBatches)
}

func TestImport_FailedBatchDoesNotStopTheRun(t *testing.T) {
	repo := &fakeRepo{failOn: 1}
	im := importer.New(repo, 10, zerolog.Nop())

	rep, err := im.Import(context.Background(), "test.csv", strings.NewReader(csvWithRows(25)))
	require.NoError(t, err)
	assert.Equal(t, 1, rep.FailedBatches)
	assert.Equal(t, 15, rep.Inserted)
	assert.Len(t, repo.batches, 3)
}

func TestImport_CountsDuplicates(t *testing.T) {
	repo := &fakeRepo{}
	im := importer.New(repo, 100, zerolog.Nop())
	data := csvWithRows(5)

	_, err := im.Import(context.Background(), "a.csv", strings.NewReader(data))
	require.NoError(t, err)
	rep, err := im.Import(context.Background(), "a.csv", strings.NewReader(data))
	require.NoError(t, err)
	assert.Zero(t, rep.Inserted)
	assert.Equal(t, 5, rep.Duplicates)
}

func TestImport_ReportsSkippedAndHonorsCancel(t *testing.T) {
	repo := &fakeRepo{}
	im := importer.New(repo, 100, zerolog.Nop())

	rep, err := im.Import(context.Background(), "sample.csv", strings.NewReader(sample))
	require.NoError(t, err)
	assert.Len(t, rep.Skipped, 4)
	assert.Equal(t, 2, rep.Inserted)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = im.Import(ctx, "sample.csv", strings.NewReader(sample))
	assert.ErrorIs(t, err, context.Canceled)

	_, err = im.Import(context.Background(), "bad.csv", strings.NewReader("nope\n"))
	assert.ErrorIs(t, err, importer.ErrBadHeader)
}
