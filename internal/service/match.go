package service

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/maxviazov/winmix-match-service/internal/engine"
	"github.com/maxviazov/winmix-match-service/internal/model"
	"github.com/maxviazov/winmix-match-service/internal/repository"
)

// ExportFilename is the download name of the CSV export.
const ExportFilename = "merkozesek.csv"

// fetchTimeout bounds a shared source read once it no longer follows a single caller's context.
const fetchTimeout = 30 * time.Second

// CreateMatchInput is a new match as submitted by a client. Pointers separate an absent
// goal count from zero.
type CreateMatchInput struct {
	HomeTeam          string
	AwayTeam          string
	HalfTimeHomeGoals *int
	HalfTimeAwayGoals *int
	FullTimeHomeGoals *int
	FullTimeAwayGoals *int
	League            string
	Season            string
	Date              time.Time
}

type matchService struct {
	repo  repository.MatchRepository
	log   zerolog.Logger
	group singleflight.Group
}

func NewMatchService(repo repository.MatchRepository, logger zerolog.Logger) MatchService {
	l := logger.With().Str("module", "service").Str("component", "match").Logger()
	return &matchService{repo: repo, log: l}
}

// rows reads the full raw set. Concurrent callers share one in-flight read; the rows are
// only ever read by the engine, so sharing the slice is safe.
func (s *matchService) rows(ctx context.Context) ([]model.RawRow, error) {
	ch := s.group.DoChan("list", func() (any, error) {
		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), fetchTimeout)
		defer cancel()
		return s.repo.ListRaw(fetchCtx)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			s.log.Error().Err(res.Err).Bool("shared", res.Shared).Msg("list matches failed")
			return nil, res.Err
		}
		return res.Val.([]model.RawRow), nil
	}
}

func (s *matchService) Query(ctx context.Context, q engine.QueryParams) (engine.Result, error) {
	start := time.Now()
	if err := q.Validate(); err != nil {
		return engine.Result{}, err
	}
	raw, err := s.rows(ctx)
	if err != nil {
		return engine.Result{}, err
	}
	res, err := engine.Query(raw, q)
	if err != nil {
		return engine.Result{}, err
	}
	s.logSkipped(res.Skipped)
	s.log.Debug().
		Int("rows", len(raw)).
		Int("matched", res.TotalCount).
		Int("returned", len(res.Items)).
		Dur("took", time.Since(start)).
		Msg("match query")
	return res, nil
}

func (s *matchService) Statistics(ctx context.Context, f model.FilterSpec, mode engine.TeamMatchMode) (model.Statistics, error) {
	raw, err := s.rows(ctx)
	if err != nil {
		return model.Statistics{}, err
	}
	// one item per page is the cheapest valid page; only the statistics are used
	res, err := engine.Query(raw, engine.QueryParams{Filter: f, TeamMode: mode, Page: model.Page{Size: 1}})
	if err != nil {
		return model.Statistics{}, err
	}
	s.logSkipped(res.Skipped)
	return res.Statistics, nil
}

func (s *matchService) Export(ctx context.Context, f model.FilterSpec, mode engine.TeamMatchMode, sort model.SortConfig) (Export, error) {
	if err := (engine.QueryParams{Filter: f, Page: model.Page{Size: 1}}).Validate(); err != nil {
		return Export{}, err
	}
	raw, err := s.rows(ctx)
	if err != nil {
		return Export{}, err
	}
	matches, skipped := engine.Ingest(raw)
	s.logSkipped(skipped)

	filtered := engine.Sort(engine.Filter(matches, f, mode), sort)
	if len(filtered) == 0 {
		return Export{}, engine.ErrEmptyExport
	}
	body := engine.ToCSV(filtered, engine.DefaultColumns())
	s.log.Info().Int("rows", len(filtered)).Int("bytes", len(body)).Msg("csv export")
	return Export{Filename: ExportFilename, Rows: len(filtered), Body: body}, nil
}

// Teams lists every distinct team name in Hungarian collation order.
func (s *matchService) Teams(ctx context.Context) ([]string, error) {
	raw, err := s.rows(ctx)
	if err != nil {
		return nil, err
	}
	matches, skipped := engine.Ingest(raw)
	s.logSkipped(skipped)

	seen := make(map[string]struct{}, 64)
	teams := make([]string, 0, 64)
	for _, m := range matches {
		for _, name := range []string{m.HomeTeam, m.AwayTeam} {
			if _, ok := seen[name]; ok {
				continue
			}
			seen[name] = struct{}{}
			teams = append(teams, name)
		}
	}
	collate.New(language.Hungarian).SortStrings(teams)
	return teams, nil
}

func (s *matchService) CreateMatch(ctx context.Context, in CreateMatchInput) (model.Match, error) {
	start := time.Now()

	var ferrs []FieldError
	home, ferrs := checkText(ferrs, "home_team", in.HomeTeam, 1, maxTeamNameLen)
	away, ferrs := checkText(ferrs, "away_team", in.AwayTeam, 1, maxTeamNameLen)
	league, ferrs := checkText(ferrs, "league", in.League, 1, maxLeagueLen)
	season, ferrs := checkText(ferrs, "season", in.Season, 0, maxSeasonLen)
	if home != "" && strings.EqualFold(home, away) {
		ferrs = append(ferrs, FieldError{Field: "away_team", Message: "must differ from home_team"})
	}
	ferrs = checkGoals(ferrs, "full_time_home_goals", in.FullTimeHomeGoals, true)
	ferrs = checkGoals(ferrs, "full_time_away_goals", in.FullTimeAwayGoals, true)
	ferrs = checkGoals(ferrs, "half_time_home_goals", in.HalfTimeHomeGoals, false)
	ferrs = checkGoals(ferrs, "half_time_away_goals", in.HalfTimeAwayGoals, false)
	ferrs = checkHalfTime(ferrs, "half_time_home_goals", in.HalfTimeHomeGoals, in.FullTimeHomeGoals)
	ferrs = checkHalfTime(ferrs, "half_time_away_goals", in.HalfTimeAwayGoals, in.FullTimeAwayGoals)
	if in.Date.IsZero() {
		ferrs = append(ferrs, FieldError{Field: "date", Message: "is required"})
	}
	if err := NewInvalidInputError(ferrs); err != nil {
		s.log.Debug().Interface("field_errors", ferrs).Msg("match validation failed")
		return model.Match{}, err
	}

	row, err := s.repo.Create(ctx, model.RawRow{
		HomeTeam:          home,
		AwayTeam:          away,
		HalfTimeHomeGoals: in.HalfTimeHomeGoals,
		HalfTimeAwayGoals: in.HalfTimeAwayGoals,
		FullTimeHomeGoals: in.FullTimeHomeGoals,
		FullTimeAwayGoals: in.FullTimeAwayGoals,
		League:            league,
		Season:            season,
		Date:              in.Date.UTC(),
	})
	if err != nil {
		// Repository surfaces domain-level errors already, do not wrap.
		s.log.Error().Err(err).Str("home_team", home).Str("away_team", away).Msg("create match failed")
		return model.Match{}, err
	}

	m, err := engine.Derive(row)
	if err != nil {
		return model.Match{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Str("match_id", m.ID).Msg("match created")
	return m, nil
}

func checkHalfTime(ferrs []FieldError, field string, ht, ft *int) []FieldError {
	if ht != nil && ft != nil && *ht > *ft && *ht <= maxGoals {
		ferrs = append(ferrs, FieldError{Field: field, Message: "must not exceed the full-time goals"})
	}
	return ferrs
}

func (s *matchService) logSkipped(skipped []engine.RowError) {
	if len(skipped) == 0 {
		return
	}
	ev := s.log.Warn().Int("skipped_rows", len(skipped))
	if first := skipped[0]; first.ID != "" || first.Field != "" {
		ev = ev.Str("first_id", first.ID).Str("first_field", first.Field).Str("first_reason", first.Reason)
	}
	ev.Msg("malformed rows skipped")
}
