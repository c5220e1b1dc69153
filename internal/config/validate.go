package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// It must be called after loading; Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}

	if c.Database.MinConns > c.Database.MaxConns {
		return fmt.Errorf("database.min_conns (%d) exceeds max_conns (%d)", c.Database.MinConns, c.Database.MaxConns)
	}

	if err := c.Dictionary.validate(); err != nil {
		return fmt.Errorf("dictionary: %w", err)
	}

	if c.Cache.Size <= 0 {
		return fmt.Errorf("cache.size must be > 0 (got %d)", c.Cache.Size)
	}

	if err := c.Review.validate(); err != nil {
		return fmt.Errorf("review: %w", err)
	}

	if c.RateLimit.LookupsPerMinute < 0 {
		return fmt.Errorf("rate_limit.lookups_per_minute must be >= 0 (got %d)", c.RateLimit.LookupsPerMinute)
	}

	if c.Backfill.Concurrency < 1 {
		return fmt.Errorf("backfill.concurrency must be >= 1 (got %d)", c.Backfill.Concurrency)
	}
	if c.Backfill.PageSize < 1 {
		return fmt.Errorf("backfill.page_size must be >= 1 (got %d)", c.Backfill.PageSize)
	}

	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}

	return nil
}

func (d *DictionaryConfig) validate() error {
	if strings.TrimSpace(d.APIKey) == "" {
		return fmt.Errorf("api_key is required")
	}
	if !IsKnownDictionary(d.Name) {
		return fmt.Errorf("name must be one of %s (got %q)", strings.Join(Dictionaries, ", "), d.Name)
	}
	u, err := url.Parse(d.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return fmt.Errorf("base_url %q is not an absolute URL", d.BaseURL)
	}
	if d.Timeout <= 0 {
		return fmt.Errorf("timeout must be > 0 (got %v)", d.Timeout)
	}
	return nil
}

func (r *ReviewConfig) validate() error {
	if r.TargetRecall <= 0 || r.TargetRecall >= 1 {
		return fmt.Errorf("target_recall must be in (0, 1) (got %v)", r.TargetRecall)
	}
	if r.MinIntervalDays <= 0 {
		return fmt.Errorf("min_interval_days must be > 0 (got %v)", r.MinIntervalDays)
	}
	if r.MaxIntervalDays < r.MinIntervalDays {
		return fmt.Errorf("max_interval_days (%v) is below min_interval_days (%v)", r.MaxIntervalDays, r.MinIntervalDays)
	}
	if r.DueLimit < 1 {
		return fmt.Errorf("due_limit must be >= 1 (got %d)", r.DueLimit)
	}
	return nil
}
