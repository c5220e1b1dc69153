package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres"
	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres/entry"
	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres/group"
	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres/lookupkey"
	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres/progress"
	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres/unit"
	"github.com/heartmarshall/myvocab-backend/internal/adapter/postgres/vocab"
	"github.com/heartmarshall/myvocab-backend/internal/config"
	"github.com/heartmarshall/myvocab-backend/internal/service/lookup"
	"github.com/heartmarshall/myvocab-backend/internal/service/review"
	"github.com/heartmarshall/myvocab-backend/internal/transport/middleware"
	"github.com/heartmarshall/myvocab-backend/internal/transport/rest"
)

const rateLimitCleanup = 5 * time.Minute

// Run is the server entry point. It loads configuration, connects to the
// database and the dictionary API, serves HTTP until ctx is canceled and then
// drains in-flight requests within the configured shutdown timeout.
func Run(ctx context.Context) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logger := NewLogger(cfg.Log)

	logger.Info("starting application",
		slog.String("version", BuildVersion()),
		slog.String("log_level", cfg.Log.Level),
		slog.String("dictionary", cfg.Dictionary.Name),
	)

	pool, err := postgres.NewPool(ctx, cfg.Database)
	if err != nil {
		return fmt.Errorf("connect to database: %w", err)
	}
	defer pool.Close()

	dict, err := NewDictionary(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer dict.Close()

	settings := ReviewSettings(cfg.Review)
	if err := settings.Validate(); err != nil {
		return fmt.Errorf("review settings: %w", err)
	}

	txm := postgres.NewTxManager(pool)
	entries := entry.New(pool, txm)

	lookupSvc := lookup.NewService(
		logger,
		dict.Client,
		entries,
		group.New(pool),
		unit.New(pool),
		lookupkey.New(pool),
		txm,
	)
	reviewSvc := review.NewService(
		logger,
		vocab.New(pool),
		progress.New(pool),
		txm,
		settings,
		cfg.Review.DueLimit,
	)

	var healthOpts []rest.HealthOption
	if dict.Redis != nil {
		healthOpts = append(healthOpts, rest.WithComponent("cache", dict.Redis))
	}

	limiter := middleware.NewRateLimiter(rateLimitCleanup)
	defer limiter.Stop()

	mux := rest.NewRouter(rest.Handlers{
		Health: rest.NewHealthHandler(pool, BuildVersion(), healthOpts...),
		Lookup: rest.NewLookupHandler(lookupSvc, logger),
		Vocab:  rest.NewVocabHandler(reviewSvc, logger),
	}, limiter.Limit("lookup", cfg.RateLimit.LookupsPerMinute))

	handler := middleware.Chain(
		middleware.RequestID(),
		middleware.UserIdentity(),
		middleware.Recovery(logger),
		middleware.Logger(logger),
		middleware.Metrics(),
		middleware.CORS(cfg.CORS),
	)(mux)

	srv := &http.Server{
		Addr:         net.JoinHostPort(cfg.Server.Host, strconv.Itoa(cfg.Server.Port)),
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
		ErrorLog:     slog.NewLogLogger(logger.Handler(), slog.LevelError),
	}

	return serve(ctx, srv, cfg.Server.ShutdownTimeout, logger)
}

// serve runs srv until ctx is done, then shuts it down gracefully.
func serve(ctx context.Context, srv *http.Server, shutdownTimeout time.Duration, logger *slog.Logger) error {
	errCh := make(chan error, 1)
	go func() {
		logger.Info("http server listening", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("http server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("shutting down http server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown http server: %w", err)
	}

	logger.Info("http server stopped")
	return nil
}
