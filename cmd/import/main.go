// Command import loads match CSV files (local paths or http(s) URLs) into the configured
// match source in batches.
//
//	import [-config config.yaml] [-batch 100] file-or-url...
package main

import (
	"context"
	"flag"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/maxviazov/winmix-match-service/internal/app"
	"github.com/maxviazov/winmix-match-service/internal/config"
	"github.com/maxviazov/winmix-match-service/internal/importer"
	"github.com/maxviazov/winmix-match-service/internal/logger"
)

func main() {
	os.Exit(run())
}

// run returns the process exit code so deferred cleanup runs before the process exits.
func run() int {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	batch := flag.Int("batch", importer.DefaultBatchSize, "rows per insert batch")
	flag.Parse()
	if flag.NArg() == 0 {
		log.Print("usage: import [-config config.yaml] [-batch 100] file-or-url...")
		return 2
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Printf("❌ Config loading failed: %v", err)
		return 1
	}
	appLogger, err := logger.New(&cfg.Logger)
	if err != nil {
		log.Printf("❌ Logger initialization failed: %v", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	src, err := app.OpenSource(ctx, cfg, appLogger)
	if err != nil {
		appLogger.Error().Err(err).Str("driver", cfg.Source.Driver).Msg("❌ Match source unavailable")
		return 1
	}
	defer src.Close()

	im := importer.New(src.Matches, *batch, appLogger)
	client := &http.Client{Timeout: 2 * time.Minute}

	var failed int
	for _, source := range flag.Args() {
		if ctx.Err() != nil {
			break
		}
		rc, err := importer.Open(ctx, client, source)
		if err != nil {
			failed++
			appLogger.Error().Err(err).Str("source", source).Msg("cannot read source")
			continue
		}
		rep, err := im.Import(ctx, source, rc)
		_ = rc.Close()
		if err != nil || rep.FailedBatches > 0 {
			failed++
			appLogger.Error().Err(err).Str("source", source).Int("failed_batches", rep.FailedBatches).Msg("import incomplete")
		}
	}

	if failed > 0 {
		appLogger.Error().Int("failed_sources", failed).Int("sources", flag.NArg()).Msg("❌ import finished with errors")
		return 1
	}
	appLogger.Info().Int("sources", flag.NArg()).Msg("✅ import finished")
	return 0
}
