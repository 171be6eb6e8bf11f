package importer

import (
	"context"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/maxviazov/winmix-match-service/internal/engine"
	"github.com/maxviazov/winmix-match-service/internal/repository"
)

// DefaultBatchSize keeps each insert request small enough for hosted store timeouts.
const DefaultBatchSize = 100

// Report summarizes one import run.
type Report struct {
	Source        string            `json:"source"`
	Parsed        int               `json:"parsed"`
	Inserted      int               `json:"inserted"`
	Duplicates    int               `json:"duplicates"`
	FailedBatches int               `json:"failed_batches"`
	Skipped       []engine.RowError `json:"skipped,omitempty"`
}

// Importer writes parsed rows to a repository in batches.
type Importer struct {
	repo      repository.MatchRepository
	batchSize int
	logger    zerolog.Logger
}

func New(repo repository.MatchRepository, batchSize int, logger zerolog.Logger) *Importer {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	return &Importer{
		repo:      repo,
		batchSize: batchSize,
		logger:    logger.With().Str("module", "importer").Logger(),
	}
}

// Import parses r and stores its valid rows. A failing batch is logged and counted, and the
// run moves on to the next one; only an unreadable file or a canceled context aborts it.
func (im *Importer) Import(ctx context.Context, source string, r io.Reader) (Report, error) {
	rep := Report{Source: source}
	rows, skipped, err := Parse(r)
	if err != nil {
		return rep, fmt.Errorf("parse %s: %w", source, err)
	}
	rep.Parsed = len(rows)
	rep.Skipped = skipped
	for _, s := range skipped {
		im.logger.Warn().Str("source", source).Int("line", s.Index).Str("field", s.Field).Str("reason", s.Reason).Msg("row skipped")
	}

	for start := 0; start < len(rows); start += im.batchSize {
		if err := ctx.Err(); err != nil {
			return rep, err
		}
		end := min(start+im.batchSize, len(rows))
		batchNo := start/im.batchSize + 1

		n, err := im.repo.InsertBatch(ctx, rows[start:end])
		if err != nil {
			rep.FailedBatches++
			im.logger.Error().Err(err).Str("source", source).Int("batch", batchNo).Int("size", end-start).Msg("batch insert failed")
			continue
		}
		rep.Inserted += n
		rep.Duplicates += end - start - n
		im.logger.Info().Str("source", source).Int("batch", batchNo).Int("inserted", n).Msg("batch inserted")
	}

	im.logger.Info().
		Str("source", source).
		Int("parsed", rep.Parsed).
		Int("inserted", rep.Inserted).
		Int("duplicates", rep.Duplicates).
		Int("skipped", len(rep.Skipped)).
		Int("failed_batches", rep.FailedBatches).
		Msg("import finished")
	return rep, nil
}
