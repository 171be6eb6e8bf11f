// Package app wires configuration into the concrete match source and rate limiters shared by
// the server and the import command.
package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/maxviazov/winmix-match-service/internal/config"
	"github.com/maxviazov/winmix-match-service/internal/ratelimit"
	"github.com/maxviazov/winmix-match-service/internal/repository"
	"github.com/maxviazov/winmix-match-service/internal/repository/postgres"
	"github.com/maxviazov/winmix-match-service/internal/repository/rest"
)

// Source is an opened match data source.
type Source struct {
	Driver  string
	Matches repository.MatchRepository
	Pinger  repository.Pinger
	close   func()
}

// Close releases the underlying pool, if any.
func (s *Source) Close() {
	if s.close != nil {
		s.close()
	}
}

// OpenSource connects to the driver selected by cfg.Source.Driver.
func OpenSource(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Source, error) {
	switch cfg.Source.Driver {
	case "postgres":
		db, err := repository.New(ctx, cfg, &logger)
		if err != nil {
			return nil, err
		}
		return &Source{
			Driver:  cfg.Source.Driver,
			Matches: postgres.NewMatchRepository(db.Pool()),
			Pinger:  postgres.NewPinger(db.Pool()),
			close:   db.Close,
		}, nil
	case "rest":
		client := rest.NewClient(cfg.REST, logger)
		logger.Info().Str("base_url", cfg.REST.BaseURL).Str("table", cfg.REST.Table).Msg("using PostgREST match source")
		return &Source{
			Driver:  cfg.Source.Driver,
			Matches: rest.NewMatchRepository(client, cfg.REST.Table, cfg.REST.PageSize),
			Pinger:  rest.NewPinger(client, cfg.REST.Table),
		}, nil
	default:
		return nil, fmt.Errorf("unknown source driver %q", cfg.Source.Driver)
	}
}

// memoryStoreKeys bounds the in-process counter map.
const memoryStoreKeys = 100_000

// Limiters are the general API limiter and the stricter one guarding writes.
type Limiters struct {
	API    *ratelimit.Limiter
	Strict *ratelimit.Limiter
	close  func() error
}

func (l *Limiters) Close() error {
	if l.close != nil {
		return l.close()
	}
	return nil
}

// OpenLimiters builds both limiters on the configured counter store.
func OpenLimiters(ctx context.Context, cfg *config.Config, logger zerolog.Logger) (*Limiters, error) {
	var (
		store   ratelimit.Store
		closeFn func() error
	)
	switch cfg.RateLimit.Store {
	case "redis":
		client, err := ratelimit.NewRedisClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return nil, err
		}
		store = ratelimit.NewRedisStore(client, "")
		closeFn = client.Close
		logger.Info().Str("addr", cfg.Redis.Addr).Msg("rate limit counters in redis")
	default:
		store = ratelimit.NewMemoryStore(memoryStoreKeys)
	}

	window := time.Duration(cfg.RateLimit.Window) * time.Second
	api, err := ratelimit.New("api", cfg.RateLimit.APILimit, window, store)
	if err != nil {
		return nil, err
	}
	strict, err := ratelimit.New("strict", cfg.RateLimit.StrictLimit, window, store)
	if err != nil {
		return nil, err
	}
	return &Limiters{API: api, Strict: strict, close: closeFn}, nil
}
