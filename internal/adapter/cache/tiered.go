package cache

import (
	"context"
	"log/slog"
)

// Tiered reads through its tiers in order and fills the faster tiers on a hit
// in a slower one. Failing tiers are logged and skipped.
type Tiered struct {
	tiers []Cache
	log   *slog.Logger
}

// NewTiered creates a Tiered cache. Nil tiers are ignored.
func NewTiered(logger *slog.Logger, tiers ...Cache) *Tiered {
	t := &Tiered{log: logger.With("component", "cache")}
	for _, c := range tiers {
		if c != nil {
			t.tiers = append(t.tiers, c)
		}
	}
	return t
}

func (t *Tiered) Get(ctx context.Context, key string) ([]byte, bool, error) {
	for i, c := range t.tiers {
		v, ok, err := c.Get(ctx, key)
		if err != nil {
			t.log.WarnContext(ctx, "cache tier get failed", slog.Int("tier", i), slog.String("error", err.Error()))
			continue
		}
		if !ok {
			continue
		}
		for _, faster := range t.tiers[:i] {
			if err := faster.Set(ctx, key, v); err != nil {
				t.log.WarnContext(ctx, "cache fill failed", slog.String("error", err.Error()))
			}
		}
		return v, true, nil
	}
	return nil, false, nil
}

func (t *Tiered) Set(ctx context.Context, key string, value []byte) error {
	for i, c := range t.tiers {
		if err := c.Set(ctx, key, value); err != nil {
			t.log.WarnContext(ctx, "cache tier set failed", slog.Int("tier", i), slog.String("error", err.Error()))
		}
	}
	return nil
}
