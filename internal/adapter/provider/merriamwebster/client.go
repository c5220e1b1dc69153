// Package merriamwebster is a client for the Merriam-Webster dictionary API.
package merriamwebster

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/heartmarshall/myvocab-backend/internal/adapter/cache"
	"github.com/heartmarshall/myvocab-backend/internal/domain"
	"github.com/heartmarshall/myvocab-backend/internal/metrics"
	"github.com/heartmarshall/myvocab-backend/internal/provider"
)

const (
	// DefaultBaseURL is the public API root.
	DefaultBaseURL = "https://www.dictionaryapi.com/api/v3/references"
	// DefaultDictionary is the reference used when none is configured.
	DefaultDictionary = "collegiate"

	maxBodySize = 4 << 20
)

// Client fetches and classifies dictionary responses. Successful responses
// are kept in an optional cache keyed by dictionary and lowercased word.
type Client struct {
	baseURL    string
	dictionary string
	apiKey     string
	httpClient *http.Client
	cache      cache.Cache
	retryDelay time.Duration
	log        *slog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithCache sets the response cache.
func WithCache(c cache.Cache) Option {
	return func(cl *Client) { cl.cache = c }
}

// WithTimeout sets the HTTP timeout of a single attempt.
func WithTimeout(d time.Duration) Option {
	return func(cl *Client) { cl.httpClient.Timeout = d }
}

// WithRetryDelay sets the pause before the retry.
func WithRetryDelay(d time.Duration) Option {
	return func(cl *Client) { cl.retryDelay = d }
}

// NewClient creates a Client. An empty baseURL or dictionary selects the
// defaults.
func NewClient(baseURL, dictionary, apiKey string, logger *slog.Logger, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if dictionary == "" {
		dictionary = DefaultDictionary
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		dictionary: dictionary,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 10 * time.Second},
		retryDelay: 500 * time.Millisecond,
		log:        logger.With("adapter", "merriamwebster"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Dictionary returns the configured reference name.
func (c *Client) Dictionary() string { return c.dictionary }

// FetchWord looks a word up and classifies the response. HTTP failures are
// returned as errors wrapping domain.ErrUpstream; every well-formed response,
// including "not found", is a LookupResult.
func (c *Client) FetchWord(ctx context.Context, word string) (provider.LookupResult, error) {
	word = strings.TrimSpace(word)
	key := cache.Key(c.dictionary, word)

	if c.cache != nil {
		raw, ok, err := c.cache.Get(ctx, key)
		if err != nil {
			c.log.WarnContext(ctx, "cache get failed", slog.String("word", word), slog.String("error", err.Error()))
		}
		if ok {
			c.log.DebugContext(ctx, "dictionary cache hit", slog.String("word", word))
			return provider.Classify(word, raw), nil
		}
	}

	start := time.Now()
	raw, err := c.fetchRaw(ctx, word)
	if err != nil {
		metrics.RecordDictionaryRequest("error", time.Since(start))
		c.log.ErrorContext(ctx, "dictionary request failed", slog.String("word", word), slog.String("error", err.Error()))
		return provider.LookupResult{}, err
	}

	res := provider.Classify(word, raw)
	metrics.RecordDictionaryRequest(res.Kind.String(), time.Since(start))

	c.log.DebugContext(ctx, "dictionary response",
		slog.String("word", word),
		slog.String("kind", res.Kind.String()),
		slog.Int("bytes", len(raw)),
	)

	if c.cache != nil {
		if err := c.cache.Set(ctx, key, raw); err != nil {
			c.log.WarnContext(ctx, "cache set failed", slog.String("word", word), slog.String("error", err.Error()))
		}
	}

	return res, nil
}

// fetchRaw returns the response body of a successful request. The body must
// be valid JSON.
func (c *Client) fetchRaw(ctx context.Context, word string) ([]byte, error) {
	reqURL := c.baseURL + "/" + url.PathEscape(c.dictionary) + "/json/" + url.PathEscape(word) +
		"?key=" + url.QueryEscape(c.apiKey)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, fmt.Errorf("merriamwebster: create request: %w", err)
	}

	resp, err := c.doWithRetry(ctx, req, word)
	if err != nil {
		return nil, fmt.Errorf("merriamwebster: request failed: %w: %w", domain.ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("merriamwebster: %w: unexpected status %d for %q", domain.ErrUpstream, resp.StatusCode, word)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return nil, fmt.Errorf("merriamwebster: %w: read body: %w", domain.ErrUpstream, err)
	}

	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("merriamwebster: %w: response is not json", domain.ErrUpstream)
	}

	return body, nil
}

// doWithRetry executes the request with a single retry on 5xx or network errors.
func (c *Client) doWithRetry(ctx context.Context, req *http.Request, word string) (*http.Response, error) {
	resp, err := c.httpClient.Do(req)

	shouldRetry := err != nil || (resp != nil && resp.StatusCode >= 500)
	if !shouldRetry {
		return resp, err
	}

	if ctx.Err() != nil {
		return resp, err
	}

	reason := "network error"
	if err == nil && resp != nil {
		reason = fmt.Sprintf("status %d", resp.StatusCode)
	}
	c.log.WarnContext(ctx, "dictionary retry", slog.String("word", word), slog.String("reason", reason))

	if resp != nil && resp.Body != nil {
		resp.Body.Close()
	}

	select {
	case <-time.After(c.retryDelay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	return c.httpClient.Do(req)
}
