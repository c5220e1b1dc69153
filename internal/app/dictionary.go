package app

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/heartmarshall/myvocab-backend/internal/adapter/cache"
	"github.com/heartmarshall/myvocab-backend/internal/adapter/provider/merriamwebster"
	"github.com/heartmarshall/myvocab-backend/internal/config"
	"github.com/heartmarshall/myvocab-backend/internal/service/review/scheduler"
)

// Dictionary is the configured dictionary API client with its cache tiers.
// Redis is nil when no shared cache is configured.
type Dictionary struct {
	Client *merriamwebster.Client
	Redis  *cache.Redis
}

// Close releases the shared cache connection.
func (d *Dictionary) Close() {
	if d.Redis != nil {
		d.Redis.Close() //nolint:errcheck
	}
}

// NewDictionary builds the dictionary client behind an in-process LRU and,
// when cfg.Cache.RedisURL is set, a shared Redis tier.
func NewDictionary(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Dictionary, error) {
	d := &Dictionary{}
	tiers := []cache.Cache{cache.NewMemory(cfg.Cache.Size, cfg.Cache.TTL)}

	if cfg.Cache.RedisURL != "" {
		r, err := cache.NewRedis(ctx, cfg.Cache.RedisURL, cfg.Cache.KeyPrefix, cfg.Cache.RedisTTL)
		if err != nil {
			return nil, fmt.Errorf("connect to redis: %w", err)
		}
		d.Redis = r
		tiers = append(tiers, r)
	}

	d.Client = merriamwebster.NewClient(
		cfg.Dictionary.BaseURL,
		cfg.Dictionary.Name,
		cfg.Dictionary.APIKey,
		logger,
		merriamwebster.WithCache(cache.NewTiered(logger, tiers...)),
		merriamwebster.WithTimeout(cfg.Dictionary.Timeout),
		merriamwebster.WithRetryDelay(cfg.Dictionary.RetryDelay),
	)
	return d, nil
}

// ReviewSettings converts the review config section into scheduler settings.
func ReviewSettings(cfg config.ReviewConfig) scheduler.Settings {
	return scheduler.Settings{
		TargetRecall:      cfg.TargetRecall,
		MinIntervalDays:   cfg.MinIntervalDays,
		MaxIntervalDays:   cfg.MaxIntervalDays,
		BaseStabilityDays: cfg.BaseStabilityDays,
		GrowthPerProgress: cfg.GrowthPerProgress,
		PassBoost:         cfg.PassBoost,
		FailPenalty:       cfg.FailPenalty,
		FailIntervalScale: cfg.FailIntervalScale,
	}
}
