// Command migrate applies the embedded database migrations.
//
// Usage:
//
//	migrate [-dsn DSN] up|down|status
//
// The DSN defaults to $DATABASE_DSN. Exit codes: 0 = success, 1 = error.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/heartmarshall/myvocab-backend/internal/app"
	"github.com/heartmarshall/myvocab-backend/internal/config"
)

func main() {
	_ = godotenv.Load()

	dsnFlag := flag.String("dsn", os.Getenv("DATABASE_DSN"), "PostgreSQL connection string")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "usage: migrate [-dsn DSN] %s|%s|%s\n", app.MigrateUp, app.MigrateDown, app.MigrateStatus)
		flag.PrintDefaults()
	}
	flag.Parse()

	if flag.NArg() != 1 || *dsnFlag == "" {
		flag.Usage()
		os.Exit(1)
	}

	logger := app.NewLogger(config.LogConfig{
		Level:  os.Getenv("LOG_LEVEL"),
		Format: "text",
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := app.Migrate(ctx, *dsnFlag, flag.Arg(0), logger); err != nil {
		logger.Error("migrate failed", slog.String("error", err.Error()))
		os.Exit(1)
	}
}
