// Command migrate applies the embedded goose migrations to the configured Postgres database.
//
//	migrate [-config config.yaml] up|down|status|version|reset
package main

import (
	"context"
	"database/sql"
	"flag"
	"log"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"github.com/maxviazov/winmix-match-service/internal/config"
	"github.com/maxviazov/winmix-match-service/internal/logger"
	"github.com/maxviazov/winmix-match-service/internal/repository"
	"github.com/maxviazov/winmix-match-service/migrations"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	flag.Parse()

	command := "up"
	if flag.NArg() > 0 {
		command = flag.Arg(0)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("❌ Config loading failed: %v", err)
	}
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Fatalf("❌ Logger initialization failed: %v", err)
	}
	l := appLogger.With().Str("module", "migrate").Logger()

	db, err := sql.Open("pgx", repository.DSN(cfg.Postgres))
	if err != nil {
		l.Fatal().Err(err).Msg("open database")
	}
	defer db.Close()

	goose.SetBaseFS(migrations.FS)
	goose.SetLogger(gooseLogger{l})
	if err := goose.SetDialect("postgres"); err != nil {
		l.Fatal().Err(err).Msg("set dialect")
	}
	if err := goose.RunContext(context.Background(), command, db, "."); err != nil {
		l.Fatal().Err(err).Str("command", command).Msg("migration failed")
	}
	l.Info().Str("command", command).Msg("✅ migrations done")
}
