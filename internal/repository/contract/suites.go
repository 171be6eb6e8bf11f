// Package contract holds behavior suites every MatchRepository implementation must pass.
// Backends wire them from their own tests with a factory.
package contract

import (
	"context"
	"testing"
	"time"

	"github.com/maxviazov/winmix-match-service/internal/model"
	"github.com/maxviazov/winmix-match-service/internal/repository"
)

type MatchFactory func(t *testing.T) (repository.MatchRepository, func())

type TxFactory func(t *testing.T) (tx repository.TxManager, matches repository.MatchRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func intp(v int) *int { return &v }

func sampleRow(id, home, away string, ftHome, ftAway int, at time.Time) model.RawRow {
	return model.RawRow{
		ID:                id,
		HomeTeam:          home,
		AwayTeam:          away,
		HalfTimeHomeGoals: intp(0),
		HalfTimeAwayGoals: intp(0),
		FullTimeHomeGoals: intp(ftHome),
		FullTimeAwayGoals: intp(ftAway),
		League:            "NB I",
		Season:            "2024/25",
		Date:              at,
	}
}

var base = time.Date(2025, 3, 1, 18, 0, 0, 0, time.UTC)

func RunMatchRepositoryContract(t *testing.T, makeRepo MatchFactory) {
	t.Helper()

	t.Run("create_and_list", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()

		created, err := repo.Create(ctx, sampleRow("", "Ferencváros", "Újpest", 2, 1, base))
		if err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if created.ID == "" {
			t.Fatalf("expected generated id, got empty")
		}

		rows, err := repo.ListRaw(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(rows) != 1 {
			t.Fatalf("expected 1 row, got %d", len(rows))
		}
		got := rows[0]
		if got.ID != created.ID || got.HomeTeam != "Ferencváros" || got.AwayTeam != "Újpest" {
			t.Fatalf("mismatch: %+v", got)
		}
		if got.FullTimeHomeGoals == nil || *got.FullTimeHomeGoals != 2 {
			t.Fatalf("full time home goals not persisted: %+v", got.FullTimeHomeGoals)
		}
		if !got.Date.Equal(base) {
			t.Fatalf("date mismatch: %v", got.Date)
		}
	})

	t.Run("null_half_time_round_trips", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()

		row := sampleRow("", "Debrecen", "Paks", 0, 0, base)
		row.HalfTimeHomeGoals, row.HalfTimeAwayGoals = nil, nil
		if _, err := repo.Create(ctx, row); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		rows, err := repo.ListRaw(ctx)
		if err != nil {
			t.Fatalf("list failed: %v", err)
		}
		if len(rows) != 1 || rows[0].HalfTimeHomeGoals != nil || rows[0].HalfTimeAwayGoals != nil {
			t.Fatalf("expected null half-time goals, got %+v", rows)
		}
	})

	t.Run("list_newest_first", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		for i := 0; i < 3; i++ {
			if _, err := repo.Create(ctx, sampleRow("", "Home", "Away", i, 0, base.AddDate(0, 0, i))); err != nil {
				t.Fatalf("seed: %v", err)
			}
		}
		rows, err := repo.ListRaw(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(rows) != 3 {
			t.Fatalf("expected 3 rows, got %d", len(rows))
		}
		for i := 1; i < len(rows); i++ {
			if rows[i].Date.After(rows[i-1].Date) {
				t.Fatalf("rows not newest first: %v before %v", rows[i-1].Date, rows[i].Date)
			}
		}
	})

	t.Run("insert_batch_counts_new_rows", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()

		batch := []model.RawRow{
			sampleRow("1001", "A", "B", 1, 0, base),
			sampleRow("1002", "C", "D", 2, 2, base),
		}
		n, err := repo.InsertBatch(ctx, batch)
		if err != nil {
			t.Fatalf("insert batch: %v", err)
		}
		if n != 2 {
			t.Fatalf("expected 2 inserted, got %d", n)
		}

		// same ids again: nothing new
		n, err = repo.InsertBatch(ctx, batch)
		if err != nil {
			t.Fatalf("re-insert batch: %v", err)
		}
		if n != 0 {
			t.Fatalf("expected 0 inserted on re-import, got %d", n)
		}

		rows, err := repo.ListRaw(ctx)
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if len(rows) != 2 {
			t.Fatalf("expected 2 rows, got %d", len(rows))
		}
	})

	t.Run("insert_empty_batch", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		n, err := repo.InsertBatch(context.Background(), nil)
		if err != nil || n != 0 {
			t.Fatalf("expected (0, nil), got (%d, %v)", n, err)
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("commit_on_nil_error", func(t *testing.T) {
		tx, matches, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			_, err := matches.Create(ctx, sampleRow("", "TxCommit", "Away", 1, 0, base))
			return err
		})
		if err != nil {
			t.Fatalf("WithinTx: %v", err)
		}
		rows, err := matches.ListRaw(ctx)
		if err != nil || len(rows) != 1 {
			t.Fatalf("expected committed row visible, got %d rows err=%v", len(rows), err)
		}
	})

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, matches, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		errMarker := assertErr("boom")
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			if _, err := matches.Create(ctx, sampleRow("", "TxRollback", "Away", 1, 0, base)); err != nil {
				return err
			}
			return errMarker
		})
		if err == nil || err.Error() != errMarker.Error() {
			t.Fatalf("expected marker error, got %v", err)
		}
		rows, err := matches.ListRaw(ctx)
		if err != nil || len(rows) != 0 {
			t.Fatalf("expected no rows after rollback, got %d rows err=%v", len(rows), err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	t.Run("ping_ok", func(t *testing.T) {
		p, cleanup := makePinger(t)
		t.Cleanup(cleanup)
		if err := p.Ping(context.Background()); err != nil {
			t.Fatalf("expected ping ok, got %v", err)
		}
	})
}

// assertErr builds a sentinel error without importing errors to keep helpers local.
func assertErr(msg string) error { return &sentinel{msg} }

type sentinel struct{ s string }

func (e *sentinel) Error() string { return e.s }
