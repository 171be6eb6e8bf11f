package postgres

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/maxviazov/winmix-match-service/internal/model"
	"github.com/maxviazov/winmix-match-service/internal/repository"
)

const matchColumns = `id, home_team, away_team,
	half_time_home_goals, half_time_away_goals,
	full_time_home_goals, full_time_away_goals,
	league, season, match_time`

const insertMatch = `INSERT INTO matches (` + matchColumns + `)
	VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

type matchRepository struct {
	pool *pgxpool.Pool
	tx   repository.TxManager
}

func NewMatchRepository(pool *pgxpool.Pool) repository.MatchRepository {
	return &matchRepository{pool: pool, tx: NewTxManager(pool)}
}

func (r *matchRepository) ListRaw(ctx context.Context) ([]model.RawRow, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`SELECT `+matchColumns+`
		 FROM matches
		 ORDER BY match_time DESC, id`,
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	defer rows.Close()

	out := make([]model.RawRow, 0, 256)
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, repository.MapPgError(err)
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

func (r *matchRepository) Create(ctx context.Context, row model.RawRow) (model.RawRow, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.RawRow{}, err
	}
	row = withID(row)
	exec := getQ(ctx, r.pool)
	out, err := scanRow(exec.QueryRow(ctx, insertMatch+` RETURNING `+matchColumns, insertArgs(row)...))
	if err != nil {
		return model.RawRow{}, repository.MapPgError(err)
	}
	return out, nil
}

// InsertBatch queues every row into one pgx.Batch inside a transaction; a failing row rolls
// the whole batch back. Duplicate IDs are skipped and not counted.
func (r *matchRepository) InsertBatch(ctx context.Context, rows []model.RawRow) (int, error) {
	if err := ensurePool(r.pool); err != nil {
		return 0, err
	}
	if len(rows) == 0 {
		return 0, nil
	}

	inserted := 0
	err := r.tx.WithinTx(ctx, func(ctx context.Context) error {
		batch := &pgx.Batch{}
		for _, row := range rows {
			batch.Queue(insertMatch+` ON CONFLICT (id) DO NOTHING`, insertArgs(withID(row))...)
		}
		br := getQ(ctx, r.pool).SendBatch(ctx, batch)
		for range rows {
			tag, err := br.Exec()
			if err != nil {
				_ = br.Close()
				return err
			}
			inserted += int(tag.RowsAffected())
		}
		return br.Close()
	})
	if err != nil {
		return 0, err
	}
	return inserted, nil
}

// withID makes sure the row carries a UUID. Foreign IDs (e.g. "42" from a CSV) map to a
// name-based UUID so importing the same file twice stays idempotent.
func withID(row model.RawRow) model.RawRow {
	switch {
	case row.ID == "":
		row.ID = uuid.NewString()
	case uuid.Validate(row.ID) != nil:
		row.ID = uuid.NewSHA1(uuid.NameSpaceOID, []byte(row.ID)).String()
	}
	return row
}

func insertArgs(row model.RawRow) []any {
	return []any{
		row.ID, row.HomeTeam, row.AwayTeam,
		row.HalfTimeHomeGoals, row.HalfTimeAwayGoals,
		row.FullTimeHomeGoals, row.FullTimeAwayGoals,
		row.League, row.Season, row.Date,
	}
}

func scanRow(s pgx.Row) (model.RawRow, error) {
	var (
		out model.RawRow
		id  uuid.UUID
	)
	err := s.Scan(
		&id, &out.HomeTeam, &out.AwayTeam,
		&out.HalfTimeHomeGoals, &out.HalfTimeAwayGoals,
		&out.FullTimeHomeGoals, &out.FullTimeAwayGoals,
		&out.League, &out.Season, &out.Date,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.RawRow{}, repository.ErrNotFound
		}
		return model.RawRow{}, err
	}
	out.ID = id.String()
	out.Date = out.Date.UTC()
	return out, nil
}

var _ repository.MatchRepository = (*matchRepository)(nil)
