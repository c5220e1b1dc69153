package config

import (
	"slices"
	"time"
)

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Cache      CacheConfig      `yaml:"cache"`
	Review     ReviewConfig     `yaml:"review"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
	Backfill   BackfillConfig   `yaml:"backfill"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Content-Type,X-User-Id,X-Request-Id"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"5"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
}

// Dictionaries the API key may be issued for.
var Dictionaries = []string{"collegiate", "learners", "medical", "intermediate", "elementary"}

// DictionaryConfig holds dictionary API client settings.
type DictionaryConfig struct {
	BaseURL    string        `yaml:"base_url"    env:"MW_BASE_URL"    env-default:"https://www.dictionaryapi.com/api/v3/references"`
	Name       string        `yaml:"name"        env:"MW_DICTIONARY"  env-default:"collegiate"`
	APIKey     string        `yaml:"api_key"     env:"MW_API_KEY"     env-required:"true"`
	Timeout    time.Duration `yaml:"timeout"     env:"MW_TIMEOUT"     env-default:"10s"`
	RetryDelay time.Duration `yaml:"retry_delay" env:"MW_RETRY_DELAY" env-default:"500ms"`
}

// CacheConfig holds dictionary response cache settings. An empty RedisURL
// disables the shared tier.
type CacheConfig struct {
	Size      int           `yaml:"size"       env:"CACHE_SIZE"       env-default:"1000"`
	TTL       time.Duration `yaml:"ttl"        env:"CACHE_TTL"        env-default:"24h"`
	RedisURL  string        `yaml:"redis_url"  env:"REDIS_URL"`
	RedisTTL  time.Duration `yaml:"redis_ttl"  env:"CACHE_REDIS_TTL"  env-default:"168h"`
	KeyPrefix string        `yaml:"key_prefix" env:"CACHE_KEY_PREFIX" env-default:"mw:"`
}

// ReviewConfig holds review scheduler parameters.
type ReviewConfig struct {
	TargetRecall      float64 `yaml:"target_recall"       env:"REVIEW_TARGET_RECALL"       env-default:"0.9"`
	MinIntervalDays   float64 `yaml:"min_interval_days"   env:"REVIEW_MIN_INTERVAL_DAYS"   env-default:"1"`
	MaxIntervalDays   float64 `yaml:"max_interval_days"   env:"REVIEW_MAX_INTERVAL_DAYS"   env-default:"3650"`
	BaseStabilityDays float64 `yaml:"base_stability_days" env:"REVIEW_BASE_STABILITY_DAYS" env-default:"1.2"`
	GrowthPerProgress float64 `yaml:"growth_per_progress" env:"REVIEW_GROWTH_PER_PROGRESS" env-default:"0.22"`
	PassBoost         float64 `yaml:"pass_boost"          env:"REVIEW_PASS_BOOST"          env-default:"1.0"`
	FailPenalty       float64 `yaml:"fail_penalty"        env:"REVIEW_FAIL_PENALTY"        env-default:"1.5"`
	FailIntervalScale float64 `yaml:"fail_interval_scale" env:"REVIEW_FAIL_INTERVAL_SCALE" env-default:"0.25"`
	DueLimit          int     `yaml:"due_limit"           env:"REVIEW_DUE_LIMIT"           env-default:"50"`
}

// RateLimitConfig limits word lookups per client IP.
type RateLimitConfig struct {
	LookupsPerMinute int `yaml:"lookups_per_minute" env:"RATE_LIMIT_LOOKUPS_PER_MINUTE" env-default:"30"`
}

// BackfillConfig holds settings of the backfill job.
type BackfillConfig struct {
	Concurrency int `yaml:"concurrency" env:"BACKFILL_CONCURRENCY" env-default:"4"`
	PageSize    int `yaml:"page_size"   env:"BACKFILL_PAGE_SIZE"   env-default:"500"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// IsKnownDictionary reports whether name is one of Dictionaries.
func IsKnownDictionary(name string) bool {
	return slices.Contains(Dictionaries, name)
}
