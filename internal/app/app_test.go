package app

import (
	"context"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartmarshall/myvocab-backend/internal/config"
	"github.com/heartmarshall/myvocab-backend/internal/service/review/scheduler"
)

func TestReviewSettings_DefaultsMatchScheduler(t *testing.T) {
	t.Parallel()

	cfg := config.ReviewConfig{
		TargetRecall:      0.9,
		MinIntervalDays:   1,
		MaxIntervalDays:   3650,
		BaseStabilityDays: 1.2,
		GrowthPerProgress: 0.22,
		PassBoost:         1.0,
		FailPenalty:       1.5,
		FailIntervalScale: 0.25,
		DueLimit:          50,
	}

	assert.Equal(t, scheduler.DefaultSettings(), ReviewSettings(cfg))
}

func TestNewDictionary_MemoryOnly(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Dictionary: config.DictionaryConfig{
			BaseURL:    "https://dictionary.test/api/v3/references",
			Name:       "collegiate",
			APIKey:     "key",
			Timeout:    time.Second,
			RetryDelay: time.Millisecond,
		},
		Cache: config.CacheConfig{Size: 10, TTL: time.Minute},
	}

	d, err := NewDictionary(context.Background(), cfg, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer d.Close()

	assert.Nil(t, d.Redis)
	require.NotNil(t, d.Client)
	assert.Equal(t, "collegiate", d.Client.Dictionary())
}

func TestNewDictionary_BadRedisURL(t *testing.T) {
	t.Parallel()

	cfg := &config.Config{
		Cache: config.CacheConfig{Size: 10, TTL: time.Minute, RedisURL: "not a url://"},
	}

	_, err := NewDictionary(context.Background(), cfg, slog.New(slog.DiscardHandler))
	require.Error(t, err)
}

func TestServe_StopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	srv := &http.Server{
		Addr:    "127.0.0.1:0",
		Handler: http.NotFoundHandler(),
	}

	done := make(chan error, 1)
	go func() { done <- serve(ctx, srv, time.Second, slog.New(slog.DiscardHandler)) }()

	cancel()

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("serve did not return after cancel")
	}
}

func TestServe_ListenError(t *testing.T) {
	t.Parallel()

	srv := &http.Server{Addr: "127.0.0.1:-1", Handler: http.NotFoundHandler()}

	err := serve(context.Background(), srv, time.Second, slog.New(slog.DiscardHandler))
	require.Error(t, err)
}
