// Command backfill re-derives the semantic graph of stored dictionary
// entries from their persisted raw documents. The dictionary API is not
// called.
//
// Flags:
//
//	--entry        re-derive a single entry by id
//	--concurrency  number of entries processed in parallel (default from config)
//
// Exit codes: 0 = success, 1 = error or at least one failed entry.
package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"
	"github.com/joho/godotenv"

	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres"
	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres/entry"
	"github.com/heartmarshall/myvocab-backend/internal/app"
	"github.com/heartmarshall/myvocab-backend/internal/config"
	"github.com/heartmarshall/myvocab-backend/internal/service/backfill"
)

func main() {
	_ = godotenv.Load()

	entryFlag := flag.String("entry", "", "entry id to re-derive (default: all entries)")
	concurrencyFlag := flag.Int("concurrency", 0, "parallel entries (default: BACKFILL_CONCURRENCY)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger := app.NewLogger(cfg.Log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		logger.Error("connect to database", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer pool.Close()

	svc := backfill.NewService(logger, entry.New(pool, postgres.NewTxManager(pool)), cfg.Backfill.PageSize)

	if *entryFlag != "" {
		id, err := uuid.Parse(*entryFlag)
		if err != nil {
			logger.Error("invalid --entry", slog.String("error", err.Error()))
			os.Exit(1)
		}
		g, err := svc.BackfillEntry(ctx, id)
		if err != nil {
			logger.Error("backfill entry failed",
				slog.String("entry_id", id.String()),
				slog.String("error", err.Error()),
			)
			os.Exit(1)
		}
		logger.Info("backfill entry completed",
			slog.String("entry_id", id.String()),
			slog.Int("stems", len(g.Stems)),
			slog.Int("unresolved_stems", g.UnresolvedStems()),
		)
		return
	}

	concurrency := cfg.Backfill.Concurrency
	if *concurrencyFlag > 0 {
		concurrency = *concurrencyFlag
	}

	report, err := svc.BackfillAll(ctx, concurrency)
	if err != nil {
		logger.Error("backfill failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("backfill completed",
		slog.Int("processed", report.Processed),
		slog.Int("failed", report.Failed),
		slog.Int("unresolved_stems", report.UnresolvedStems),
	)
	if report.Failed > 0 {
		os.Exit(1)
	}
}
